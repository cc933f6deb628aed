package mysql_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/sagarc03/settlersdb/database/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	mysqlcontainer "github.com/testcontainers/testcontainers-go/modules/mysql"
)

var (
	testDB     *sql.DB
	testDBOnce sync.Once
)

// getSharedTestDatabase returns a handle to one container shared by all
// tests in the package.
func getSharedTestDatabase(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping mysql container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	testDBOnce.Do(func() {
		ctx := context.Background()

		ctr, err := mysqlcontainer.Run(ctx,
			"mysql:8.4",
			mysqlcontainer.WithDatabase("socdata"),
			mysqlcontainer.WithUsername("socuser"),
			mysqlcontainer.WithPassword("socpass"),
		)
		if err != nil {
			t.Fatalf("failed to start mysql container: %v", err)
		}

		dsn, err := ctr.ConnectionString(ctx)
		if err != nil {
			_ = testcontainers.TerminateContainer(ctr)
			t.Fatalf("failed to get connection string: %v", err)
		}

		db, err := mysql.Open(dsn, "", "")
		if err != nil {
			_ = testcontainers.TerminateContainer(ctr)
			t.Fatalf("could not open database: %v", err)
		}

		testDB = db
	})

	if testDB == nil {
		t.Fatal("shared mysql database unavailable")
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
