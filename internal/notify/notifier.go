// Package notify ties domain mutations to the two places that observe
// them: the admin event stream and the change log. Domain services call
// DataChanged once after each successful create/update/delete.
package notify

import (
	"context"

	authservice "orgboard/internal/auth/service"
	changelogservice "orgboard/internal/changelog/service"
	"orgboard/internal/events"
	"orgboard/pkg/model"
)

var adminAudience = []model.Role{model.RoleAdmin}

type Notifier struct {
	publisher events.Publisher
	changes   changelogservice.ChangeLogService
}

func NewNotifier(publisher events.Publisher, changes changelogservice.ChangeLogService) *Notifier {
	return &Notifier{
		publisher: publisher,
		changes:   changes,
	}
}

// DataChanged records the mutation and tells connected admins about it.
// Both sides are best-effort; the triggering mutation has already
// committed and must not be unwound here.
func (n *Notifier) DataChanged(ctx context.Context, entity, operation, rowID string, payload any) {
	username := "system"
	if identity, ok := authservice.IdentityFrom(ctx); ok {
		username = identity.Username
	}

	n.changes.Record(ctx, entity, operation, rowID, username, payload)

	n.publisher.Publish(adminAudience, model.Event{
		Type: model.EventDataChanged,
		Data: model.DataChange{Entity: entity, Operation: operation, ID: rowID},
	})
}
