package model

import "time"

// Session is one authenticated login, persisted in the session store.
// Identity fields are not stored; they are resolved on read so a deleted
// user cannot act through a stale session.
type Session struct {
	SID       string    `bson:"_id" json:"sid"`
	UserID    int64     `bson:"user_id" json:"user_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// SessionInfo is the admin-facing directory row: a stored session with
// its identity resolved and request-relative markers computed.
type SessionInfo struct {
	SID       string    `json:"sid"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Roles     []Role    `json:"roles"`
	ExpiresAt time.Time `json:"expires_at"`
	Expired   bool      `json:"expired"`
	Current   bool      `json:"current"`
}
