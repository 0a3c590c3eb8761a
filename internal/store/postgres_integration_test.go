package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// setupPostgres connects to TEST_DATABASE_URL or skips the test. The
// collections table is reset so every run starts empty.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to DB: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("Skipping integration test: cannot ping DB: %v", err)
	}
	t.Cleanup(pool.Close)

	require.NoError(t, AutoMigrate(ctx, pool))
	_, err = pool.Exec(ctx, `UPDATE collections SET data = '[]'::jsonb`)
	require.NoError(t, err)
	return pool
}

func TestPostgresStoreIntegration(t *testing.T) {
	pool := setupPostgres(t)
	runContract(t, func(t *testing.T) Store {
		_, err := pool.Exec(context.Background(), `UPDATE collections SET data = '[]'::jsonb`)
		require.NoError(t, err)
		return NewPostgresStore(pool)
	})
}
