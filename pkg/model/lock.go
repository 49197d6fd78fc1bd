package model

import "time"

// Lock is an exclusive claim over a named editable resource (for example
// "edit-task"). At most one Lock exists per resource; reassigning
// ownership requires release-then-acquire.
type Lock struct {
	Resource   string    `json:"resource"`
	Owner      string    `json:"owner"`
	OwnerID    int64     `json:"owner_id"`
	AcquiredAt time.Time `json:"acquired_at"`
}
