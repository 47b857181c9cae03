package commands

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func registerTwo(r *Registry) error {
	if _, err := r.Register(In("math", "advanced"), "power", "Power")(noop); err != nil {
		return err
	}
	_, err := r.Register(In("math"), "add", "Adds two numbers")(noop)
	return err
}

func TestScope_SyncsGloballyOnce(t *testing.T) {
	r, c := newBound(t)

	err := r.Scope(context.Background(), func(r *Registry) error {
		require.NoError(t, registerTwo(r))
		require.Len(t, r.Pending(), 2)
		require.Equal(t, 2, r.CachedGroups())
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, []string{""}, c.synced)
	require.Equal(t, 1, c.readyCalls)
	require.Empty(t, r.Pending())
	require.Equal(t, 0, r.CachedGroups())
	// Clearing bookkeeping leaves the tree itself intact.
	require.Equal(t, []string{"math"}, names(c.tree))
}

func TestScope_SyncsEachTarget(t *testing.T) {
	r, c := newBound(t)
	r.SetSyncTargets("111", "222")

	require.NoError(t, r.Scope(context.Background(), registerTwo))
	require.Equal(t, []string{"111", "222"}, c.synced)
}

func TestScope_SyncsWhenBlockFails(t *testing.T) {
	r, c := newBound(t)
	boom := errors.New("boom")

	err := r.Scope(context.Background(), func(r *Registry) error {
		require.NoError(t, registerTwo(r))
		return boom
	})
	require.True(t, errors.Is(err, boom))
	require.Equal(t, []string{""}, c.synced)
	require.Empty(t, r.Pending())
	require.Equal(t, 0, r.CachedGroups())
}

func TestScope_SyncsWhenBlockPanics(t *testing.T) {
	r, c := newBound(t)

	require.Panics(t, func() {
		_ = r.Scope(context.Background(), func(r *Registry) error {
			require.NoError(t, registerTwo(r))
			panic("boom")
		})
	})
	require.Equal(t, []string{""}, c.synced)
	require.Empty(t, r.Pending())
	require.Equal(t, 0, r.CachedGroups())
}

func TestScope_NotInitialized(t *testing.T) {
	r := NewRegistry()
	called := false

	err := r.Scope(context.Background(), func(*Registry) error {
		called = true
		return nil
	})
	require.True(t, errors.Is(err, ErrNotInitialized))
	require.False(t, called)
}

func TestScope_SyncErrorReturned(t *testing.T) {
	r, c := newBound(t)
	c.syncErr = errors.New("rate limited")
	r.SetSyncTargets("111", "222")

	err := r.Scope(context.Background(), registerTwo)
	require.Error(t, err)
	require.Contains(t, err.Error(), "guild 111")
	require.Equal(t, []string{"111", "222"}, c.synced)
	require.Empty(t, r.Pending())
}

func TestScope_BlockErrorWinsOverSyncError(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	r, c := newBound(t)
	c.syncErr = errors.New("rate limited")
	boom := errors.New("boom")

	err := r.Scope(context.Background(), func(*Registry) error { return boom })
	require.True(t, errors.Is(err, boom))

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Message == "Could not synchronize command tree" {
			logged = true
		}
	}
	require.True(t, logged)
}

func TestScope_ReadyCancelled(t *testing.T) {
	r, c := newBound(t)
	c.ready = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Scope(ctx, registerTwo)
	require.True(t, errors.Is(err, context.Canceled))
	require.Empty(t, c.synced)
	require.Empty(t, r.Pending())
	require.Equal(t, 0, r.CachedGroups())
}

func TestSync_Manual(t *testing.T) {
	r := NewRegistry()
	require.True(t, errors.Is(r.Sync(context.Background()), ErrNotInitialized))

	c := newFakeClient()
	Bind(r, c)
	require.NoError(t, registerTwo(r))
	require.NoError(t, r.Sync(context.Background()))
	require.Equal(t, []string{""}, c.synced)
	require.Empty(t, r.Pending())
}
