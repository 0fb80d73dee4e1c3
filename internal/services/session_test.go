package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/sbilibin2017/skillswap/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Start(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := services.NewMockSessionStore(ctrl)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	svc := services.NewSessionService(store,
		services.WithClock(func() time.Time { return now }),
		services.WithIDGenerator(func() string { return "sid-1" }),
	)

	store.EXPECT().
		Save(gomock.Any(), &models.Session{ID: "sid-1", UserID: 42, LoginTime: now, LastActivity: now}).
		Return(nil)

	session, err := svc.Start(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", session.ID)
	assert.Equal(t, int64(42), session.UserID)
	assert.Equal(t, now, session.LoginTime)
	assert.Equal(t, now, session.LastActivity)

	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
	_, err = svc.Start(context.Background(), 42)
	assert.EqualError(t, err, "redis down")
}

func TestSessionService_Touch(t *testing.T) {
	login := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		stored    *models.Session
		getErr    error
		elapsed   time.Duration
		expectDel bool
		expectSet bool
		refreshed bool
		wantErr   error
	}{
		{
			name:      "active session is refreshed",
			stored:    &models.Session{ID: "sid", UserID: 1, LoginTime: login, LastActivity: login},
			elapsed:   10 * time.Minute,
			expectSet: true,
			refreshed: true,
		},
		{
			name:      "exactly at the idle timeout is still active",
			stored:    &models.Session{ID: "sid", UserID: 1, LoginTime: login, LastActivity: login},
			elapsed:   services.DefaultIdleTimeout,
			expectSet: true,
			refreshed: true,
		},
		{
			name:      "removed before the refresh lands",
			stored:    &models.Session{ID: "sid", UserID: 1, LoginTime: login, LastActivity: login},
			elapsed:   time.Minute,
			expectSet: true,
			refreshed: false,
			wantErr:   services.ErrSessionNotFound,
		},
		{
			name:      "idle beyond the timeout expires",
			stored:    &models.Session{ID: "sid", UserID: 1, LoginTime: login, LastActivity: login},
			elapsed:   services.DefaultIdleTimeout + time.Second,
			expectDel: true,
			wantErr:   services.ErrSessionExpired,
		},
		{
			name:    "unknown session",
			stored:  nil,
			wantErr: services.ErrSessionNotFound,
		},
		{
			name:    "store error",
			getErr:  errors.New("redis down"),
			wantErr: errors.New("redis down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := services.NewMockSessionStore(ctrl)
			now := login.Add(tt.elapsed)
			svc := services.NewSessionService(store, services.WithClock(func() time.Time { return now }))

			store.EXPECT().Get(gomock.Any(), "sid").Return(tt.stored, tt.getErr)
			if tt.expectDel {
				store.EXPECT().Delete(gomock.Any(), "sid").Return(nil)
			}
			if tt.expectSet {
				store.EXPECT().
					Refresh(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, s *models.Session) (bool, error) {
						assert.Equal(t, now, s.LastActivity)
						assert.Equal(t, login, s.LoginTime)
						return tt.refreshed, nil
					})
			}

			session, err := svc.Touch(context.Background(), "sid")
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, now, session.LastActivity)
		})
	}
}

func TestSessionService_TouchExtendsWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := services.NewMockSessionStore(ctrl)
	login := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := login

	svc := services.NewSessionService(store,
		services.WithIdleTimeout(30*time.Minute),
		services.WithClock(func() time.Time { return now }),
	)

	record := &models.Session{ID: "sid", UserID: 1, LoginTime: login, LastActivity: login}
	store.EXPECT().Get(gomock.Any(), "sid").DoAndReturn(func(context.Context, string) (*models.Session, error) {
		cp := *record
		return &cp, nil
	}).Times(2)
	store.EXPECT().Refresh(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *models.Session) (bool, error) {
		*record = *s
		return true, nil
	}).Times(2)

	now = login.Add(25 * time.Minute)
	_, err := svc.Touch(context.Background(), "sid")
	require.NoError(t, err)

	// 50 minutes after login but only 25 after the last touch.
	now = login.Add(50 * time.Minute)
	_, err = svc.Touch(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, now, record.LastActivity)
}

// memorySessionStore mimics Redis SET and SET XX semantics. beforeRefresh
// runs between the read and the conditional write of a Touch.
type memorySessionStore struct {
	records       map[string]models.Session
	beforeRefresh func()
}

func (m *memorySessionStore) Save(_ context.Context, s *models.Session) error {
	m.records[s.ID] = *s
	return nil
}

func (m *memorySessionStore) Refresh(_ context.Context, s *models.Session) (bool, error) {
	if m.beforeRefresh != nil {
		m.beforeRefresh()
		m.beforeRefresh = nil
	}
	if _, ok := m.records[s.ID]; !ok {
		return false, nil
	}
	m.records[s.ID] = *s
	return true, nil
}

func (m *memorySessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	s, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memorySessionStore) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

func TestSessionService_LogoutDuringTouchIsNotUndone(t *testing.T) {
	store := &memorySessionStore{records: map[string]models.Session{}}
	svc := services.NewSessionService(store, services.WithIDGenerator(func() string { return "sid" }))
	ctx := context.Background()

	_, err := svc.Start(ctx, 1)
	require.NoError(t, err)

	store.beforeRefresh = func() {
		require.NoError(t, svc.End(ctx, "sid"))
	}
	_, err = svc.Touch(ctx, "sid")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	_, err = svc.Touch(ctx, "sid")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
	assert.Empty(t, store.records)
}

func TestSessionService_End(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := services.NewMockSessionStore(ctrl)
	svc := services.NewSessionService(store)
	assert.Equal(t, services.DefaultIdleTimeout, svc.IdleTimeout())

	store.EXPECT().Delete(gomock.Any(), "sid").Return(nil)
	assert.NoError(t, svc.End(context.Background(), "sid"))

	store.EXPECT().Delete(gomock.Any(), "sid").Return(errors.New("redis down"))
	assert.EqualError(t, svc.End(context.Background(), "sid"), "redis down")
}
