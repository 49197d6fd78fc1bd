package model

import "time"

// ChangeEntry is one append-only audit record of a domain mutation.
type ChangeEntry struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Entity    string    `bson:"entity" json:"entity"`
	Operation string    `bson:"operation" json:"operation"`
	RowID     string    `bson:"row_id,omitempty" json:"row_id,omitempty"`
	Username  string    `bson:"username" json:"username"`
	Payload   any       `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)
