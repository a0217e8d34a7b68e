//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"restaurant-console/cmd/bootstrap"
	"restaurant-console/cmd/bootstrap/components"
	"restaurant-console/internal/infra/db"
	"restaurant-console/internal/pkg/config"
	"restaurant-console/tests/common/dbtest"

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
	pgUser     = "test"
	pgPassword = "testpass"
	pgPort     = nat.Port("5432/tcp")
)

var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
)

// SharedSuite runs against one migrated database per test process and the
// full HTTP stack wired the way serve wires it.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	dbConfig := createDatabase(t)
	s.DB = migrate(t, dbConfig)
	s.Config = testConfig(dbConfig)
	s.Router = startApp(t, s.Config)
}

// SetupSubTest gives every subtest an empty, reseeded database.
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "failed to reset database")
}

func testConfig(dbConfig config.DBConfig) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	cfg.Store.Driver = components.StoreDriverPostgres
	cfg.Notification.Gateway = components.GatewayOutbox
	return cfg
}

func startApp(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()

	var router *gin.Engine
	app := fx.New(
		fx.Supply(cfg),
		bootstrap.LoggerModule,
		bootstrap.DBModule,
		components.MetricsModule,
		components.PersistenceModule,
		components.NotificationModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start app")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop app", "error", err.Error())
		}
	})
	return router
}

// createDatabase creates a uniquely named database on the shared container
// and drops it when the test ends.
func createDatabase(t *testing.T) config.DBConfig {
	t.Helper()
	startPostgresOnce(t)

	host, port, err := containerAddr(pgContainer, pgPort)
	require.NoError(t, err, "failed to read postgres address")

	name := "testdb_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", pgUser, pgPassword, host, port)

	admin := func(stmt string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, adminDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		_, err = pool.Exec(ctx, stmt)
		return err
	}

	require.NoError(t, admin("CREATE DATABASE "+name), "failed to create database")
	t.Cleanup(func() {
		if err := admin("DROP DATABASE IF EXISTS " + name + " WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", name, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     host,
		Port:     port,
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
	}
}

// migrate applies every file under migrations/ in name order and seeds the
// reference restaurant. The returned pool is closed with the test.
func migrate(t *testing.T, dbConfig config.DBConfig) *pgxpool.Pool {
	t.Helper()

	pool, cleanup, err := db.Connect(dbConfig)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(cleanup)

	files, err := filepath.Glob(filepath.Join(repoRoot(t), "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no migrations found")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, file := range files {
		sql, err := os.ReadFile(file)
		require.NoError(t, err, "failed to read %s", file)
		_, err = pool.Exec(ctx, string(sql))
		require.NoError(t, err, "failed to apply %s", filepath.Base(file))
	}

	require.NoError(t, dbtest.SeedReferenceData(pool), "failed to seed reference data")
	return pool
}

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "cannot locate setup.go")
	return filepath.Join(filepath.Dir(file), "..", "..")
}

func startPostgresOnce(t *testing.T) {
	pgOnce.Do(func() {
		var err error
		pgContainer, err = startContainer(testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=256m"},
			Cmd:   []string{"postgres", "-c", "fsync=off", "-c", "synchronous_commit=off"},
			WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", pgUser, pgPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Name:   "restaurant-console-postgres-e2e",
			Labels: map[string]string{"purpose": "e2e-tests"},
		})
		require.NoError(t, err, "failed to start postgres container")
	})
}

// startContainer starts a container for the rest of the test process. Ryuk
// removes it when the process exits.
func startContainer(req testcontainers.ContainerRequest) (testcontainers.Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

func containerAddr(c testcontainers.Container, port nat.Port) (string, string, error) {
	ctx := context.Background()
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		return "", "", err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return "", "", err
	}
	return host, mapped.Port(), nil
}
