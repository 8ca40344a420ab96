// Package realtime publishes domain events to a tenant-scoped channel for
// live clients. Two interchangeable transports exist: Redis pub/sub and
// PostgreSQL NOTIFY. Delivery is at-most-once; a failed publish must never
// fail the mutation that triggered it.
package realtime

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/serrors"
)

var ErrPublishFailed = serrors.NewError("REALTIME_PUBLISH_FAILED", "event publish failed", "")

// Event is one domain event. TenantID empty means the event is broadcast on
// the global channel (single-tenant mode or cross-tenant system events).
type Event struct {
	Name      string
	Payload   any
	TenantID  string
	Timestamp time.Time
}

func NewEvent(name string, payload any, tenantID string) Event {
	return Event{
		Name:      name,
		Payload:   payload,
		TenantID:  tenantID,
		Timestamp: time.Now().UTC(),
	}
}

// envelope is the wire shape consumed by the websocket gateway.
type envelope struct {
	Event     string `json:"event"`
	Payload   any    `json:"payload"`
	TenantID  string `json:"tenantId,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(envelope{
		Event:     e.Name,
		Payload:   e.Payload,
		TenantID:  e.TenantID,
		Timestamp: e.Timestamp.Format(time.RFC3339Nano),
	})
}

func decodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, env.Timestamp)
	if err != nil {
		ts = time.Time{}
	}
	return Event{
		Name:      env.Event,
		Payload:   env.Payload,
		TenantID:  env.TenantID,
		Timestamp: ts,
	}, nil
}

// Publisher is transport-agnostic to its callers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscriber feeds the websocket gateway. SubscribeAll delivers every event
// on the prefix regardless of tenant; the gateway filters per connection.
type Subscriber interface {
	SubscribeAll(ctx context.Context) (<-chan Event, error)
}

// ChannelFor scopes the channel per tenant so subscribers of tenant A never
// see tenant B's events.
func ChannelFor(prefix, tenantID string) string {
	if tenantID == "" {
		return prefix
	}
	return prefix + ":" + tenantID
}

// Postgres truncates identifiers beyond 63 bytes, and a LISTEN on the
// truncated name would never match the NOTIFY on the full one.
const pgIdentifierMax = 63

// pgChannelFor squashes the prefix into a NOTIFY-safe identifier. Names over
// the identifier limit are shortened with a stable hash suffix so publisher
// and listener always derive the same channel.
func pgChannelFor(prefix, tenantID string) string {
	name := strings.NewReplacer(":", "_", "-", "_").Replace(ChannelFor(prefix, tenantID))
	if len(name) <= pgIdentifierMax {
		return name
	}
	sum := sha256.Sum256([]byte(name))
	return name[:pgIdentifierMax-17] + "_" + hex.EncodeToString(sum[:8])
}

// FireAndForget publishes and swallows any failure after logging it. Used on
// mutation paths: the state change is already committed, so the HTTP request
// must succeed even if the realtime layer is down.
func FireAndForget(ctx context.Context, p Publisher, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		composables.UseLogger(ctx).WithFields(logrus.Fields{
			"event":  event.Name,
			"tenant": event.TenantID,
		}).WithError(err).Warn("realtime publish failed")
	}
}
