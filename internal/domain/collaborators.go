package domain

import "context"

// Notification types mirror the host popup feedback kinds.
const (
	NotificationSuccess = "success"
	NotificationError   = "error"
)

// Notification is a user-facing notice dispatched by the orchestration layer.
type Notification struct {
	Title   string
	Message string
	Type    string
}

// Notifier delivers user-facing notifications. Implementations must not
// panic on delivery failure; the caller treats failures as best-effort.
type Notifier interface {
	Show(ctx context.Context, n Notification) error
}

// Clipboard copies text into the host clipboard and reports success.
type Clipboard interface {
	Copy(ctx context.Context, text string) bool
}

// Haptic triggers host-device haptic feedback. Implementations may be no-ops.
type Haptic interface {
	NotificationOccurred(kind string)
}

// WriteAccessRequester asks the host environment for permission to message
// the user on behalf of the bot.
type WriteAccessRequester interface {
	RequestWriteAccess(ctx context.Context) (bool, error)
}

// SnapshotRepository persists a best-effort local copy of the cached event
// list and the registered-event id set. Failures are logged by callers and
// never block the main flow.
type SnapshotRepository interface {
	Save(ctx context.Context, events []Event, registeredIDs []string) error
	Load(ctx context.Context) ([]Event, []string, error)
}
