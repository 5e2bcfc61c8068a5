package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"campus-connect-backend/internal/database"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Listener holds one dedicated Postgres connection, LISTENs on the
// application change channel and feeds every notification into the hub.
type Listener struct {
	dsn string
	hub *Hub
	log *zap.Logger
}

// NewListener creates a listener for the database identified by dsn.
func NewListener(dsn string, hub *Hub, log *zap.Logger) *Listener {
	return &Listener{dsn: dsn, hub: hub, log: log}
}

// Run consumes the change feed until ctx is cancelled. A dropped
// connection is retried with exponential backoff; subscribers are told
// to reconcile after every reconnect so no status change is silently
// missed while disconnected.
func (l *Listener) Run(ctx context.Context) error {
	var backoff time.Duration
	for {
		established, err := l.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff, established)

		l.log.Warn("change feed connection lost",
			zap.Error(err),
			zap.Duration("retry_in", backoff),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// nextBackoff returns the wait before the next connection attempt. A
// session that got as far as LISTEN starts the schedule over; only
// consecutive failed attempts escalate the wait.
func nextBackoff(previous time.Duration, established bool) time.Duration {
	if established {
		return initialBackoff
	}
	next := previous * 2
	if next < initialBackoff {
		next = initialBackoff
	}
	if next > maxBackoff {
		next = maxBackoff
	}
	return next
}

// listen holds one connection open until it fails or ctx is cancelled.
// established reports whether LISTEN was set up before the session
// ended.
func (l *Listener) listen(ctx context.Context) (established bool, err error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return false, fmt.Errorf("failed to connect change feed: %w", err)
	}
	defer func() {
		_ = conn.Close(context.Background())
	}()

	if _, err := conn.Exec(ctx, fmt.Sprintf("LISTEN %s", database.ApplicationChangeChannel)); err != nil {
		return false, fmt.Errorf("failed to listen on %s: %w", database.ApplicationChangeChannel, err)
	}
	established = true

	l.log.Info("listening for application changes",
		zap.String("channel", database.ApplicationChangeChannel),
	)

	// Events may have arrived while we were disconnected.
	l.hub.Resync()

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return established, err
		}

		var ev ApplicationEvent
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			l.log.Error("malformed change feed payload", zap.Error(err))
			continue
		}

		l.hub.Publish(ev)
	}
}
