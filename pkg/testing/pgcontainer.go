package testing

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const pgImage = "postgres:17.5"

type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

type PGConfig struct {
	Database string
	Username string
	Password string

	// SkipMigrations starts an empty database.
	SkipMigrations bool
}

// DefaultPGConfig is the database used by container-backed tests.
func DefaultPGConfig() PGConfig {
	return PGConfig{Database: "eval_test_db", Username: "test", Password: "test"}
}

// NewPGContainer starts Postgres with every db/migrations/*.up.sql applied in name order.
func NewPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	opts := []testcontainers.ContainerCustomizer{
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
	}
	if !cfg.SkipMigrations {
		scripts, err := upMigrations()
		if err != nil {
			return nil, err
		}
		opts = append(opts, postgres.WithInitScripts(scripts...))
	}
	opts = append(opts,
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)

	container, err := postgres.Run(ctx, pgImage, opts...)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, fmt.Errorf("postgres connection string: %w", err)
	}

	return &PGContainer{Container: container, ConnString: connStr}, nil
}

func NewPGContainerWithCleanup(ctx context.Context, tb testing.TB) *PGContainer {
	tb.Helper()
	return NewPGContainerWithConfig(ctx, tb, DefaultPGConfig())
}

func NewPGContainerWithConfig(ctx context.Context, tb testing.TB, cfg PGConfig) *PGContainer {
	tb.Helper()

	container, err := NewPGContainer(ctx, cfg)
	if err != nil {
		tb.Fatalf("create postgres container: %v", err)
	}
	terminateOnCleanup(tb, "postgres", container.Container)

	return container
}

func upMigrations() ([]string, error) {
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "db", "migrations")

	scripts, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("find migrations: %w", err)
	}
	if len(scripts) == 0 {
		return nil, fmt.Errorf("no migrations in %s", dir)
	}
	sort.Strings(scripts)
	return scripts, nil
}
