//go:build integration

package redistest

import (
	"context"
	"sync"
	"testing"
	"time"

	"turf-booking/internal/infra/locker"
	"turf-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	containerOnce sync.Once
	container     testcontainers.Container
	containerErr  error
)

// NewClient connects to a shared redis:7 container and flushes it on cleanup.
func NewClient(t *testing.T) *redis.Client {
	t.Helper()

	containerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		container, containerErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
				Labels:       map[string]string{"purpose": "integration-tests"},
			},
			Started: true,
		})
	})
	require.NoError(t, containerErr, "start redis container")

	ctx := context.Background()
	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := locker.NewRedisClient(config.RedisConfig{Addr: host + ":" + port.Port()})
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}
