package sessionuc_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/result"
	"github.com/momeni/phoenix/pkg/core/usecase/sessionuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateValidateDestroy(t *testing.T) {
	r, err := sessionuc.New()
	require.NoError(t, err)
	s := r.Create("alice")
	assert.NotEqual(t, uuid.Nil, s.Token)
	assert.True(t, r.Validate(s.Token))
	got, err := r.Lookup(s.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	ctx := context.Background()
	require.NoError(t, r.Destroy(ctx, s.Token))
	assert.False(t, r.Validate(s.Token))
	assert.ErrorIs(t, r.Destroy(ctx, s.Token), cerr.ErrUnknownSession)
	_, err = r.Lookup(s.Token)
	assert.ErrorIs(t, err, cerr.ErrUnknownSession)
}

func TestTokensAreUnique(t *testing.T) {
	r, err := sessionuc.New()
	require.NoError(t, err)
	seen := map[uuid.UUID]bool{}
	for i := 0; i < 1000; i++ {
		s := r.Create("bob")
		require.False(t, seen[s.Token])
		seen[s.Token] = true
	}
	assert.Equal(t, 1000, r.Len())
}

func TestDestroyRunsHooks(t *testing.T) {
	var destroyed []string
	r, err := sessionuc.New(sessionuc.WithDestroyHook(
		func(_ context.Context, s model.Session) {
			destroyed = append(destroyed, s.Username)
		},
	))
	require.NoError(t, err)
	r.OnDestroy(func(_ context.Context, s model.Session) {
		destroyed = append(destroyed, "again:"+s.Username)
	})
	s := r.Create("carol")
	require.NoError(t, r.Destroy(context.Background(), s.Token))
	assert.Equal(t, []string{"carol", "again:carol"}, destroyed)

	// unknown sessions run no hook
	_ = r.Destroy(context.Background(), uuid.New())
	assert.Len(t, destroyed, 2)
}

func TestAttachAndHandle(t *testing.T) {
	r, err := sessionuc.New()
	require.NoError(t, err)
	s := r.Create("dave")
	h, err := r.Handle(s.Token)
	require.NoError(t, err)
	assert.Nil(t, h)

	ch := result.New[model.Delivery]()
	assert.True(t, r.Attach(s.Token, ch))
	h, err = r.Handle(s.Token)
	require.NoError(t, err)
	assert.Same(t, ch, h)

	assert.False(t, r.Attach(uuid.New(), ch))
	_, err = r.Handle(uuid.New())
	assert.ErrorIs(t, err, cerr.ErrUnknownSession)
}

func TestListIsOrderedByIssueTime(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	r, err := sessionuc.New(sessionuc.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))
	require.NoError(t, err)
	r.Create("first")
	r.Create("second")
	r.Create("third")
	var names []string
	for _, s := range r.List() {
		names = append(names, s.Username)
	}
	assert.Equal(t, []string{"first", "second", "third"}, names)
}
