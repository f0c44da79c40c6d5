package es

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

func NewClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	if len(config.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch: no addresses configured")
	}
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewTypedClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return client, nil
}

// EnsureIndex creates the index with the given mappings unless it already exists.
func EnsureIndex(ctx context.Context, client *elasticsearch.TypedClient, name string, mappings *types.TypeMapping) error {
	exists, err := client.Indices.Exists(name).Do(ctx)
	if err != nil {
		return fmt.Errorf("check if index exists: %w", err)
	}

	if exists {
		slog.Debug("index already exists", "index", name)
		return nil
	}

	createRes, err := client.Indices.Create(name).
		Mappings(mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("index created", "index", name)
	return nil
}

// HealthChecker pings the cluster.
type HealthChecker struct {
	client *elasticsearch.TypedClient
}

func NewHealthChecker(client *elasticsearch.TypedClient) *HealthChecker {
	return &HealthChecker{client: client}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.client == nil {
		return false
	}
	ok, err := hc.client.Ping().Do(ctx)
	if err != nil {
		slog.Warn("elasticsearch ping failed", "error", err)
		return false
	}
	return ok
}
