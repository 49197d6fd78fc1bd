package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

func adminAudience() []model.Role {
	return []model.Role{model.RoleAdmin}
}

func TestPublishReachesMatchingRoles(t *testing.T) {
	bus := NewBus(4, logger.Discard())

	admin := bus.Subscribe([]model.Role{model.RoleAdmin})
	defer bus.Unsubscribe(admin)
	regular := bus.Subscribe([]model.Role{model.RoleUser})
	defer bus.Unsubscribe(regular)

	bus.Publish(adminAudience(), model.Event{
		Type: model.EventEditLockChanged,
		Data: model.LockChange{Resource: "edit-task", Owner: "alice", Locked: true},
	})

	select {
	case evt := <-admin.C:
		assert.Equal(t, model.EventEditLockChanged, evt.Type)
	default:
		t.Fatal("admin subscriber did not receive the event")
	}

	select {
	case evt := <-regular.C:
		t.Fatalf("non-admin subscriber received %q", evt.Type)
	default:
	}
}

func TestPublishReachesEveryAdmin(t *testing.T) {
	bus := NewBus(4, logger.Discard())

	subs := make([]*Subscription, 3)
	for i := range subs {
		subs[i] = bus.Subscribe([]model.Role{model.RoleAdmin})
		defer bus.Unsubscribe(subs[i])
	}

	bus.Publish(adminAudience(), model.Event{Type: model.EventActiveUsersChanged})

	for i, sub := range subs {
		select {
		case <-sub.C:
		default:
			t.Fatalf("subscriber %d missed the event", i)
		}
	}
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	bus := NewBus(1, logger.Discard())

	sub := bus.Subscribe([]model.Role{model.RoleAdmin})
	defer bus.Unsubscribe(sub)

	// Second publish overflows the buffer and must be dropped, not block.
	bus.Publish(adminAudience(), model.Event{Type: model.EventDataChanged})
	bus.Publish(adminAudience(), model.Event{Type: model.EventDataChanged})

	require.Len(t, sub.C, 1)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(4, logger.Discard())

	sub := bus.Subscribe([]model.Role{model.RoleAdmin})
	bus.Unsubscribe(sub)

	_, open := <-sub.C
	assert.False(t, open)
	assert.Equal(t, 0, bus.SubscriberCount())

	// Double unsubscribe must not panic.
	bus.Unsubscribe(sub)
}

func TestMultiRoleSubscriberMatchesAnyAudienceRole(t *testing.T) {
	bus := NewBus(4, logger.Discard())

	sub := bus.Subscribe([]model.Role{model.RoleUser, model.RoleAdmin})
	defer bus.Unsubscribe(sub)

	bus.Publish(adminAudience(), model.Event{Type: model.EventEditLockChanged})
	assert.Len(t, sub.C, 1)
}
