package testing

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	esImage          = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"
	esStartupTimeout = 90 * time.Second
)

type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

// Addresses is the node list expected by the ledger ES mirror config.
func (c *ESContainer) Addresses() []string {
	return []string{c.Address}
}

// NewESContainer starts a single-node cluster and waits until it reports at least yellow health.
func NewESContainer(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()

	container, err := elasticsearch.Run(ctx, esImage,
		elasticsearch.WithPassword(""),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_cluster/health?wait_for_status=yellow").
				WithPort("9200/tcp").
				WithStartupTimeout(esStartupTimeout),
		),
	)
	if err != nil {
		tb.Fatalf("start elasticsearch container: %v", err)
	}
	terminateOnCleanup(tb, "elasticsearch", container)

	endpoint, err := container.PortEndpoint(ctx, "9200/tcp", "http")
	if err != nil {
		tb.Fatalf("resolve elasticsearch endpoint: %v", err)
	}

	return &ESContainer{Container: container, Address: endpoint}
}
