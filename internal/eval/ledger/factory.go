package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Jegama/cp-multilingual-qa-lab/db"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/storage/es"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/storage/pg"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/server"
)

// SinkConfig selects the optional mirrors next to the JSONL ledger file.
// A nil field disables that mirror.
type SinkConfig struct {
	Pg *pg.PoolConfig
	Es *es.ClientConfig

	// PgMigrate applies db/migrations before the PG mirror connects.
	PgMigrate bool
}

func LoadSinkConfigFromEnv() (*SinkConfig, error) {
	cfg := &SinkConfig{}

	if connStr := os.Getenv("LEDGER_PG_CONNECTION_STRING"); connStr != "" {
		cfg.Pg = &pg.PoolConfig{ConnStr: connStr}
		if raw := os.Getenv("LEDGER_PG_MIGRATE"); raw != "" {
			migrate, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("LEDGER_PG_MIGRATE: %w", err)
			}
			cfg.PgMigrate = migrate
		}
	}

	if raw := os.Getenv("LEDGER_ES_ADDRESSES"); raw != "" {
		var addrs []string
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				addrs = append(addrs, a)
			}
		}
		if len(addrs) == 0 {
			slog.Error("Elasticsearch ledger configuration is incomplete", "addresses", raw)
			return nil, fmt.Errorf("LEDGER_ES_ADDRESSES has no usable address")
		}
		cfg.Es = &es.ClientConfig{
			Addresses: addrs,
			IndexName: os.Getenv("LEDGER_ES_INDEX"),
			Username:  os.Getenv("LEDGER_ES_USERNAME"),
			Password:  os.Getenv("LEDGER_ES_PASSWORD"),
		}
		if cfg.Es.IndexName == "" {
			cfg.Es.IndexName = DefaultESIndex
		}
	}

	return cfg, nil
}

// Sinks is the set of ledger destinations for one process.
type Sinks struct {
	File *FileSink
	PG   *PGSink
	ES   *ESSink
}

// NewSinks always opens the file sink and connects the configured mirrors.
func NewSinks(ctx context.Context, cfg *SinkConfig, filePath string) (*Sinks, error) {
	s := &Sinks{File: NewFileSink(filePath)}
	if cfg == nil {
		return s, nil
	}

	if cfg.Pg != nil {
		if cfg.PgMigrate {
			if err := pg.Migrate(cfg.Pg.ConnStr, db.Migrations, db.MigrationsDir); err != nil {
				return nil, fmt.Errorf("migrate ledger database: %w", err)
			}
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("connect ledger database: %w", err)
		}
		s.PG = NewPGSink(pool)
		slog.Info("ledger mirror enabled", "sink", s.PG.Name())
	}

	if cfg.Es != nil {
		sink, err := NewESSink(ctx, *cfg.Es)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("connect ledger index: %w", err)
		}
		s.ES = sink
		slog.Info("ledger mirror enabled", "sink", s.ES.Name(), "index", s.ES.IndexName())
	}

	return s, nil
}

func (s *Sinks) all() []Sink {
	out := []Sink{s.File}
	if s.PG != nil {
		out = append(out, s.PG)
	}
	if s.ES != nil {
		out = append(out, s.ES)
	}
	return out
}

// Sink writes the file first, then every mirror.
func (s *Sinks) Sink() Sink {
	return Multi(s.all()...)
}

// Reader prefers the database mirror when one is configured.
func (s *Sinks) Reader() Reader {
	if s.PG != nil {
		return s.PG
	}
	return s.File
}

// HealthCheckers returns one checker per connected mirror.
func (s *Sinks) HealthCheckers() map[string]server.HealthChecker {
	checks := map[string]server.HealthChecker{}
	if s.PG != nil {
		checks["postgres"] = s.PG.pool
	}
	if s.ES != nil {
		checks["elasticsearch"] = es.NewHealthChecker(s.ES.client)
	}
	return checks
}

func (s *Sinks) Close() error {
	return CloseAll(s.all()...)
}
