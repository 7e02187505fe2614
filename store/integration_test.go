//go:build integration
// +build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a PostgreSQL container and opens a migrated store on it.
func setupPostgres(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("fabcatalogue"),
		postgres.WithUsername("fabcatalogue"),
		postgres.WithPassword("fabcatalogue"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := OpenPostgresDSN(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func plainHasher(p string) (string, error) { return "plain:" + p, nil }

func TestPostgresSeedAndRead(t *testing.T) {
	db := setupPostgres(t)
	require.NoError(t, db.Seed(plainHasher))

	p, err := db.GetProject(1)
	require.NoError(t, err)
	assert.Equal(t, "789C BTG Access System", p.Title)
	require.NotNil(t, p.PublishedDate)
	assert.Equal(t, "2014-01-22", p.PublishedDate.Format(dateLayout))

	m, err := db.GetManufacture(1, 3)
	require.NoError(t, err)
	assert.Equal(t, "1-3", m.ID)
	assert.InDelta(t, 2324.50, m.PriceEstimate, 0.001)
}

func TestPostgresConstraintErrors(t *testing.T) {
	db := setupPostgres(t)
	require.NoError(t, db.Seed(plainHasher))

	err := db.CreateCountry(&Country{Country: "Australia"})
	var integrity *IntegrityError
	assert.True(t, errors.As(err, &integrity), "got %v", err)

	err = db.DeleteCurrency(1)
	assert.True(t, errors.As(err, &integrity), "got %v", err)

	_, err = db.GetCountry(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresCascades(t *testing.T) {
	db := setupPostgres(t)
	require.NoError(t, db.Seed(plainHasher))

	require.NoError(t, db.DeleteProject(1))
	drawings, err := db.ListDrawingsByProject(1)
	require.NoError(t, err)
	assert.Empty(t, drawings)
	offers, err := db.ListManufacturesByProject(1)
	require.NoError(t, err)
	assert.Empty(t, offers)

	require.NoError(t, db.DeleteCountry(3))
	locations, err := db.ListLocationsByCountry(3)
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestPostgresOutbox(t *testing.T) {
	db := setupPostgres(t)

	require.NoError(t, db.EnqueueOutbox("fabcatalogue.events", []byte(`{"msg_type":"entity_created"}`), "entity_created", "country:1"))
	pending, err := db.ListPendingOutbox(10, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, db.AckOutbox(pending[0].ID))
	pending, err = db.ListPendingOutbox(10, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
