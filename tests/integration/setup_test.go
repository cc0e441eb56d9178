package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDBs starts one postgres container holding two databases, one per
// service, so the tests keep the catalog and the orders in separate
// datastores the way the deployed services do.
func setupTestDBs(t *testing.T) (productsDB, ordersDB *sql.DB, cleanup func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "products_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	productsDB = openTestDB(t, host, port.Port(), "products_test")

	if _, err := productsDB.Exec(`CREATE DATABASE orders_test`); err != nil {
		t.Fatalf("Failed to create orders database: %v", err)
	}

	ordersDB = openTestDB(t, host, port.Port(), "orders_test")

	if err := runMigrations(productsDB, "products"); err != nil {
		t.Fatalf("Failed to run product migrations: %v", err)
	}
	if err := runMigrations(ordersDB, "orders"); err != nil {
		t.Fatalf("Failed to run order migrations: %v", err)
	}

	cleanup = func() {
		if err := productsDB.Close(); err != nil {
			t.Logf("Failed to close products database: %v", err)
		}
		if err := ordersDB.Close(); err != nil {
			t.Logf("Failed to close orders database: %v", err)
		}
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return productsDB, ordersDB, cleanup
}

func openTestDB(t *testing.T, host, port, dbname string) *sql.DB {
	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/%s?sslmode=disable", host, port, dbname)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to %s: %v", dbname, err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping %s: %v", dbname, err)
	}

	return db
}

func runMigrations(db *sql.DB, service string) error {
	migrationDir := filepath.Join("../../migrations", service)
	files, err := os.ReadDir(migrationDir)
	if err != nil {
		return fmt.Errorf("read migration directory: %w", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".up.sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)

	for _, filename := range migrationFiles {
		filePath := filepath.Join(migrationDir, filename)
		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", filename, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", filename, err)
		}
	}

	return nil
}
