package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/model"
)

// drainUntil reads events until one passes the predicate or the
// deadline hits.
func drainUntil(t *testing.T, events <-chan ApplicationEvent, timeout time.Duration, pred func(ApplicationEvent) bool) ApplicationEvent {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-events:
			if pred(ev) {
				return ev
			}
		case <-deadline:
			t.Fatal("timed out waiting for change feed event")
		}
	}
}

func TestListenerDeliversStatusChange(t *testing.T) {
	teardown, db, err := database.GetTestDB()
	require.NoError(t, err)
	defer func() {
		if teardown != nil {
			_ = teardown(context.Background())
		}
	}()

	user := model.User{Username: "listener_student", Role: model.RoleStudent, Password: "not-used-here"}
	require.NoError(t, db.Create(&user).Error)

	application := model.Application{
		UserID:      user.ID,
		FullName:    "Asha Rao",
		Email:       "asha@x.com",
		Phone:       "9876543210",
		DateOfBirth: "2002-05-01",
		Address:     "12 MG Road, Mumbai 400001",
		Course:      "Bachelor of Science (B.Sc.)",
		Department:  "Physics",
		Status:      model.ApplicationStatusPending,
	}
	require.NoError(t, db.Create(&application).Error)

	hub := NewHub(zap.NewNop())
	listener := NewListener(db.Config.DSN(), hub, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = listener.Run(ctx) }()

	events, release := hub.Subscribe(user.ID)
	defer release()

	// the first event is the resync emitted when the listener connects
	drainUntil(t, events, 10*time.Second, func(ev ApplicationEvent) bool {
		return ev.Resync
	})

	require.NoError(t, db.Model(&model.Application{}).
		Where("id = ?", application.ID).
		Update("status", model.ApplicationStatusApproved).Error)

	ev := drainUntil(t, events, 10*time.Second, func(ev ApplicationEvent) bool {
		return !ev.Resync
	})
	require.NotNil(t, ev.New)
	require.NotNil(t, ev.Old)
	assert.Equal(t, application.ID, ev.New.ID)
	assert.Equal(t, model.ApplicationStatusPending, ev.Old.Status)
	assert.Equal(t, model.ApplicationStatusApproved, ev.New.Status)
}

func TestNextBackoffEscalatesOnConsecutiveFailures(t *testing.T) {
	backoff := nextBackoff(0, false)
	assert.Equal(t, time.Second, backoff)

	backoff = nextBackoff(backoff, false)
	assert.Equal(t, 2*time.Second, backoff)

	backoff = nextBackoff(backoff, false)
	assert.Equal(t, 4*time.Second, backoff)

	assert.Equal(t, 30*time.Second, nextBackoff(20*time.Second, false))
	assert.Equal(t, 30*time.Second, nextBackoff(30*time.Second, false))
}

func TestNextBackoffResetsAfterEstablishedSession(t *testing.T) {
	// a connection that reached LISTEN and later dropped starts the
	// schedule over instead of inheriting the previous escalation
	assert.Equal(t, time.Second, nextBackoff(30*time.Second, true))
	assert.Equal(t, 2*time.Second, nextBackoff(nextBackoff(30*time.Second, true), false))
}

func TestListenFailsFastWithoutServer(t *testing.T) {
	hub := NewHub(zap.NewNop())
	l := NewListener("postgres://nobody@127.0.0.1:1/missing", hub, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	established, err := l.listen(ctx)
	assert.False(t, established)
	assert.Error(t, err)
}
