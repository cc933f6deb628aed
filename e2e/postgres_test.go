package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	testURLOnce sync.Once
	testURL     string
)

// getSharedPostgresURL returns the URL of a PostgreSQL database shared by
// all E2E tests. The container lives until the test binary exits.
func getSharedPostgresURL(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	testURLOnce.Do(func() {
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

		testURL = connectionStr
	})

	if testURL == "" {
		t.Fatal("shared postgres database unavailable")
	}
	return testURL
}
