//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"crs-booking-engine/cmd/bootstrap"
	"crs-booking-engine/cmd/bootstrap/components"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/pkg/config"
	"crs-booking-engine/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgImage    = "postgres:17"
	pgUser     = "test"
	pgPassword = "testpass"
)

// One postgres container serves every e2e package in this process tree; each
// test process then creates its own throwaway database inside it, so suites
// never see each other's rows.
var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
)

var migrationFiles = []string{
	"migrations/001_init.sql",
	"migrations/002_seed_room_types.sql",
}

// SharedSuite wires a real router, database and config for e2e suites to
// embed. Subtests get a clean database via SetupSubTest.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	host, port := startPostgres(t)
	pool, dbConfig := createProcessDatabase(t, host, port)
	router, cfg, app := buildApp(t, pool, dbConfig)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx app", "error", err)
		}
	})

	s.DB = pool
	s.Router = router
	s.Config = cfg
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "failed to reset database state")
}

// startPostgres launches the shared container on first use. Durability is
// traded away wholesale; the data dies with the test run anyway.
func startPostgres(t *testing.T) (string, nat.Port) {
	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
		defer cancel()

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        pgImage,
				ExposedPorts: []string{"5432/tcp"},
				Env: map[string]string{
					"POSTGRES_USER":     pgUser,
					"POSTGRES_PASSWORD": pgPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{
					"/var/lib/postgresql/data": "rw,size=512m",
				},
				Cmd: []string{
					"postgres",
					"-c", "fsync=off",
					"-c", "full_page_writes=off",
					"-c", "synchronous_commit=off",
					"-c", "max_connections=200",
				},
				WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
						pgUser, pgPassword, host, port.Port())
				}).WithStartupTimeout(60 * time.Second),
				Name:   "postgres-e2e",
				Labels: map[string]string{"purpose": "e2e-tests"},
			},
			Started: true,
		})
		require.NoError(t, err, "failed to start postgres container")
		pgContainer = container

		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := pgContainer.Terminate(ctx); err != nil {
				slog.Warn("failed to terminate postgres container", "error", err)
			}
		})
	})

	ctx := context.Background()
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err, "failed to resolve postgres port")
	host, err := pgContainer.Host(ctx)
	require.NoError(t, err, "failed to resolve postgres host")
	return host, port
}

// createProcessDatabase creates a uniquely named database for this test
// process, runs the migrations and seeds the reference data.
func createProcessDatabase(t *testing.T, host string, port nat.Port) (*pgxpool.Pool, config.DBConfig) {
	dbName := "testdb_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		pgUser, pgPassword, host, port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "failed to open admin connection")
	defer adminPool.Close()

	// CREATE DATABASE cannot run concurrently with itself, so parallel test
	// processes occasionally collide and need another attempt.
	var createErr error
	for attempt := range 5 {
		if attempt > 0 {
			time.Sleep(time.Duration(500*attempt) * time.Millisecond)
		}
		if _, createErr = adminPool.Exec(ctx, "CREATE DATABASE "+dbName); createErr == nil {
			break
		}
		slog.Warn("retrying test database creation", "attempt", attempt+1, "error", createErr)
	}
	require.NoError(t, createErr, "failed to create test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		dropPool, err := pgxpool.New(ctx, adminDSN)
		if err != nil {
			slog.Warn("failed to reconnect for database cleanup", "database", dbName, "error", err)
			return
		}
		defer dropPool.Close()
		if _, err := dropPool.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName); err != nil {
			slog.Warn("failed to drop test database", "database", dbName, "error", err)
		}
	})

	dbConfig := config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	pool, _, err := db.Connect(dbConfig)
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, applyMigrations(ctx, pool), "failed to apply migrations")
	require.NoError(t, dbtest.SeedReferenceData(pool), "failed to seed reference data")

	return pool, dbConfig
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for _, file := range migrationFiles {
		sqlContent, err := readFromRepoRoot(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if _, err := pool.Exec(ctx, string(sqlContent)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}
	return nil
}

// readFromRepoRoot resolves a repo-root-relative path from whichever package
// directory `go test` happens to be running in.
func readFromRepoRoot(file string) ([]byte, error) {
	var lastErr error
	for _, prefix := range []string{".", "..", filepath.Join("..", ".."), filepath.Join("..", "..", "..")} {
		content, err := os.ReadFile(filepath.Join(prefix, file))
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// buildApp assembles the application with fx exactly as production does,
// substituting only the database pool and the config.
func buildApp(t *testing.T, pool *pgxpool.Pool, dbConfig config.DBConfig) (*gin.Engine, config.Config, *fx.App) {
	var router *gin.Engine
	var cfg config.Config

	app := fx.New(
		fx.Provide(func() *pgxpool.Pool { return pool }),
		fx.Provide(func() config.Config {
			c := config.NewTestConfig()
			c.DB = dbConfig
			return c
		}),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.TokenModule,
		components.RepositoryModule,
		components.ProviderModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router, &cfg),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start fx app")
	require.NotNil(t, router, "router was not populated")

	return router, cfg, app
}
