package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	repo := NewSessionRepository(rdb, 2*time.Second)
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("Save and Get", func(t *testing.T) {
		session := &models.Session{ID: "abc", UserID: 7, LoginTime: now, LastActivity: now}
		require.NoError(t, repo.Save(ctx, session))

		got, err := repo.Get(ctx, "abc")
		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(7), got.UserID)
		assert.True(t, got.LastActivity.Equal(now))
	})

	t.Run("Get missing returns nil", func(t *testing.T) {
		got, err := repo.Get(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &models.Session{ID: "gone", UserID: 1}))
		assert.NoError(t, repo.Delete(ctx, "gone"))
		assert.NoError(t, repo.Delete(ctx, "gone"))

		got, err := repo.Get(ctx, "gone")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Refresh updates an existing record", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &models.Session{ID: "live", UserID: 3, LoginTime: now, LastActivity: now}))

		later := now.Add(time.Minute)
		ok, err := repo.Refresh(ctx, &models.Session{ID: "live", UserID: 3, LoginTime: now, LastActivity: later})
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.Get(ctx, "live")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.LastActivity.Equal(later))
	})

	t.Run("Refresh does not recreate a deleted record", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &models.Session{ID: "ended", UserID: 4}))
		require.NoError(t, repo.Delete(ctx, "ended"))

		ok, err := repo.Refresh(ctx, &models.Session{ID: "ended", UserID: 4, LastActivity: now})
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.Get(ctx, "ended")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Record expires after retention", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &models.Session{ID: "short", UserID: 1}))
		time.Sleep(3 * time.Second)

		got, err := repo.Get(ctx, "short")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}
