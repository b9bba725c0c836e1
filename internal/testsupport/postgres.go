//go:build integration

// Package testsupport starts throwaway dependencies for integration tests.
package testsupport

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// StartPostgres runs a Postgres container with the schema migrations applied and returns a pool
// connected to it. The container is removed when the test ends.
func StartPostgres(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("sharks"),
		postgrescontainer.WithUsername("sharks"),
		postgrescontainer.WithPassword("sharks"),
		postgrescontainer.WithInitScripts(migration(t, "0001_init.up.sql")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// Seed inserts one coach, two athletes and two library workouts. Ids are 1 (coach), 2 and 3
// (athletes), and 1 and 2 (workouts).
func Seed(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(ctx, `
	INSERT INTO users (name, email, role) VALUES
		('Coach Carla', 'carla@schoolofsharks.test', 'coach'),
		('Ana Athlete', 'ana@schoolofsharks.test', 'athlete'),
		('Ben Athlete', 'ben@schoolofsharks.test', 'athlete');
	INSERT INTO workout_library (name, workout_type, description, estimated_duration, difficulty_level, target_tss) VALUES
		('Sweet Spot 3x15', 'Ride', 'Three blocks at 90% FTP', 75, 'moderate', 85),
		('Easy Spin', 'Ride', NULL, 45, 'easy', NULL);`)
	require.NoError(t, err)
}

func migration(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "db", "migrations", name)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
