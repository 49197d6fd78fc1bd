package model

// Event types pushed to connected clients. Events are ephemeral and
// best-effort; a momentarily disconnected client simply misses them.
const (
	EventEditLockChanged    = "edit_lock_changed"
	EventActiveUsersChanged = "active_users_changed"
	EventDataChanged        = "data_changed"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type LockChange struct {
	Resource string `json:"resource"`
	Owner    string `json:"owner"`
	Locked   bool   `json:"locked"`
}

type ActiveUsersChange struct {
	Reason string `json:"reason"`
}

type DataChange struct {
	Entity    string `json:"entity"`
	Operation string `json:"operation"`
	ID        string `json:"id,omitempty"`
}
