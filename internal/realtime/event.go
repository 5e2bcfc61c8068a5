// Package realtime delivers application row changes to connected
// clients. A Postgres trigger publishes {old,new} row images on a
// notify channel; the Listener consumes them on a dedicated connection
// and the Hub fans them out to per-student subscriptions.
package realtime

import (
	"campus-connect-backend/internal/model"
)

// ApplicationEvent is one change of an application row as published by
// the database trigger.
type ApplicationEvent struct {
	Old *model.Application `json:"old"`
	New *model.Application `json:"new"`

	// Resync is set when the change feed reconnected and events may have
	// been missed; consumers must re-fetch their row instead of trusting
	// the (absent) row images.
	Resync bool `json:"-"`
}
