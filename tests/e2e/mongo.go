//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mongoContainerOnce sync.Once
	mongoTestContainer testcontainers.Container
)

// SetupMongoDatabase returns a fresh database on a shared MongoDB container.
// The database is dropped when the test ends.
func SetupMongoDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	startMongoContainerOnce(t)

	host, port, err := containerAddr(mongoTestContainer, "27017/tcp")
	require.NoError(t, err, "failed to read MongoDB container address")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uri := fmt.Sprintf("mongodb://%s:%s", host, port)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err, "mongo connection failed")
	require.NoError(t, client.Ping(ctx, nil), "mongo ping failed")

	db := client.Database("testdb_" + strings.ReplaceAll(uuid.New().String(), "-", ""))

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		if err := db.Drop(cleanupCtx); err != nil {
			slog.Warn("failed to drop mongo test database", "database", db.Name(), "error", err.Error())
		}
		_ = client.Disconnect(cleanupCtx)
	})

	return db
}

func startMongoContainerOnce(t *testing.T) {
	mongoContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			Tmpfs: map[string]string{
				"/data/db": "rw,size=256m",
			},
			WaitingFor: wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
			Name:       "restaurant-console-mongo-e2e",
			Labels:     map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		mongoTestContainer, err = startContainer(req)
		require.NoError(t, err, "failed to start MongoDB container")
	})
}
