package widget

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"NovaChat/internal/lib/sl"
)

// newVisitorID generates an opaque visitor identifier: millisecond timestamp
// plus a random suffix. Not globally unique by construction, but collisions
// are negligible for session correlation.
func newVisitorID() string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("v-%d-%s", time.Now().UnixMilli(), suffix)
}

// resolveIdentity loads the persisted visitor id, generating and persisting
// one on first use. Storage failures degrade to a mount-scoped id; identity
// resolution itself never fails.
func (w *Widget) resolveIdentity() string {
	if w.identity == nil {
		return newVisitorID()
	}

	id, err := w.identity.Load()
	if err != nil {
		w.log.Warn("identity store unavailable, using ephemeral id", sl.Err(err))
		return newVisitorID()
	}
	if id != "" {
		return id
	}

	id = newVisitorID()
	if err := w.identity.Store(id); err != nil {
		w.log.Warn("failed to persist visitor id", sl.Err(err))
	}
	return id
}
