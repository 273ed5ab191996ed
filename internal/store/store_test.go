package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/db"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/db/migrations"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/dbpool"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL, 5)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		t.Fatalf("migrating test DB: %v", err)
	}

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// setupTestBase returns a Base bound to the shared test pool.
func setupTestBase(t *testing.T) store.Base {
	t.Helper()

	env := getTestEnv(t)

	return store.Base{Pool: env.pool, Log: env.log}
}

func ptr[T any](v T) *T { return &v }

// createTestEmployee registers an employee with a unique external ID and
// removes it after the test. Attendance rows are immutable and stay behind;
// the random IDs keep tests isolated.
func createTestEmployee(t *testing.T, base store.Base, lat, lon *float64) *models.Employee {
	t.Helper()

	es := store.NewEmployeeStore(base)
	req := models.CreateEmployeeRequest{
		EmployeeID: "T-" + uuid.NewString()[:12],
		FullName:   "Test Employee",
		Role:       "Agent",
		Latitude:   lat,
		Longitude:  lon,
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("validating employee: %v", err)
	}

	e, err := es.CreateEmployee(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	t.Cleanup(func() {
		cleanCtx := context.Background()
		base.Pool.Exec(cleanCtx, "DELETE FROM audit_logs WHERE changes->>'employee_id' = $1", e.ID) //nolint:errcheck // best-effort cleanup
		base.Pool.Exec(cleanCtx, "DELETE FROM employees WHERE id = $1", e.ID)                        //nolint:errcheck // best-effort cleanup
	})

	return e
}
