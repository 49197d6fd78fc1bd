package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/model"
)

var (
	alice = model.Identity{ID: 1, Username: "alice", Roles: []model.Role{model.RoleAdmin}}
	bob   = model.Identity{ID: 2, Username: "bob", Roles: []model.Role{model.RoleAdmin}}
)

func TestAcquireCreatesLock(t *testing.T) {
	r := New()

	lock, err := r.Acquire("edit-task", alice)
	require.NoError(t, err)
	assert.Equal(t, "edit-task", lock.Resource)
	assert.Equal(t, "alice", lock.Owner)
	assert.Equal(t, int64(1), lock.OwnerID)
	assert.False(t, lock.AcquiredAt.IsZero())
}

func TestAcquireIdempotentForSameOwner(t *testing.T) {
	r := New()

	first, err := r.Acquire("edit-task", alice)
	require.NoError(t, err)

	second, err := r.Acquire("edit-task", alice)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, r.Snapshot(), 1)
}

func TestAcquireConflictNamesHolder(t *testing.T) {
	r := New()

	_, err := r.Acquire("edit-task", alice)
	require.NoError(t, err)

	_, err = r.Acquire("edit-task", bob)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.EqualError(t, err, "CONFLICT: Resource is being edited by alice")

	// The lock is untouched by the failed acquire.
	lock, held := r.Peek("edit-task")
	require.True(t, held)
	assert.Equal(t, "alice", lock.Owner)
}

func TestReleaseByNonOwnerFails(t *testing.T) {
	r := New()

	_, err := r.Acquire("edit-task", alice)
	require.NoError(t, err)

	err = r.Release("edit-task", bob)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	lock, held := r.Peek("edit-task")
	require.True(t, held)
	assert.Equal(t, "alice", lock.Owner)
}

func TestReleaseByOwnerRemovesLock(t *testing.T) {
	r := New()

	_, err := r.Acquire("edit-task", alice)
	require.NoError(t, err)
	require.NoError(t, r.Release("edit-task", alice))

	_, held := r.Peek("edit-task")
	assert.False(t, held)
}

func TestReleaseWhenUnlockedIsNoop(t *testing.T) {
	r := New()
	assert.NoError(t, r.Release("edit-task", alice))
}

func TestReleaseThenAcquireByOther(t *testing.T) {
	r := New()

	_, err := r.Acquire("edit-task", alice)
	require.NoError(t, err)

	_, err = r.Acquire("edit-task", bob)
	require.Error(t, err)

	require.NoError(t, r.Release("edit-task", alice))

	lock, err := r.Acquire("edit-task", bob)
	require.NoError(t, err)
	assert.Equal(t, "bob", lock.Owner)
}

func TestLocksAreIndependentAcrossResources(t *testing.T) {
	r := New()

	_, err := r.Acquire("edit-task", alice)
	require.NoError(t, err)

	lock, err := r.Acquire("edit-person", bob)
	require.NoError(t, err)
	assert.Equal(t, "bob", lock.Owner)
	assert.Len(t, r.Snapshot(), 2)
}

func TestForceRelease(t *testing.T) {
	r := New()

	_, err := r.Acquire("edit-task", alice)
	require.NoError(t, err)

	cleared, had := r.ForceRelease("edit-task")
	assert.True(t, had)
	assert.Equal(t, "alice", cleared.Owner)

	_, held := r.Peek("edit-task")
	assert.False(t, held)

	_, had = r.ForceRelease("edit-task")
	assert.False(t, had)
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	r := New()

	const contenders = 32
	var wg sync.WaitGroup
	wins := make(chan int64, contenders)

	for i := 0; i < contenders; i++ {
		id := int64(i + 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			identity := model.Identity{ID: id, Username: "admin", Roles: []model.Role{model.RoleAdmin}}
			if _, err := r.Acquire("edit-task", identity); err == nil {
				wins <- id
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []int64
	for id := range wins {
		winners = append(winners, id)
	}
	require.Len(t, winners, 1)

	lock, held := r.Peek("edit-task")
	require.True(t, held)
	assert.Equal(t, winners[0], lock.OwnerID)
}
