package postgres_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/sagarc03/settlersdb/database/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	testDB     *sql.DB
	testDBOnce sync.Once
	testURL    string
)

// getSharedTestDatabase returns a handle to one container shared by all
// tests in the package.
func getSharedTestDatabase(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	testDBOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("socdata"),
			pgcontainer.WithUsername("socuser"),
			pgcontainer.WithPassword("socpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}

		connectionStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = testcontainers.TerminateContainer(pgContainer)
			t.Fatalf("failed to get connection string: %v", err)
		}

		db, err := postgres.Open(connectionStr, "", "")
		if err != nil {
			_ = testcontainers.TerminateContainer(pgContainer)
			t.Fatalf("could not open database: %v", err)
		}

		testURL = connectionStr
		testDB = db
	})

	if testDB == nil {
		t.Fatal("shared postgres database unavailable")
	}
	return testDB
}

// getRandomString generates a random string for unique test identifiers.
func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// createTable creates a uniquely named table and drops it when the test ends.
func createTable(t *testing.T, db *sql.DB, columns string) string {
	t.Helper()
	ctx := context.Background()

	name := getRandomString(t)
	_, err := db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", postgres.QuoteIdentifier(name), columns))
	assert.NoError(t, err, "create table")

	t.Cleanup(func() {
		_, _ = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+postgres.QuoteIdentifier(name))
	})
	return name
}
