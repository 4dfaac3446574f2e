//go:build integration

// Package pgtest starts a throwaway Postgres container with the pool schema
// applied. It is only compiled with the integration build tag.
package pgtest

import (
	"context"
	"database/sql"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mcdev12/playoffpool/go/internal/dbconfig"
)

const image = "postgres:16-alpine"

// New returns a connection to a fresh database. The container is
// terminated when the test finishes.
func New(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx, image,
		postgres.WithDatabase("playoffpool_test"),
		postgres.WithUsername("pool"),
		postgres.WithPassword("pool"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(45*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pg); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx)
	require.NoError(t, err)
	dsn = withSSLDisabled(t, dsn)

	db, err := dbconfig.OpenDSN(ctx, dsn, dbconfig.Config{MaxOpenConns: 10})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbconfig.ApplySchema(ctx, db))
	return db
}

func withSSLDisabled(t *testing.T, dsn string) string {
	t.Helper()
	u, err := url.Parse(dsn)
	require.NoError(t, err)
	q := u.Query()
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}
