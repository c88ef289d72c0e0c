package ipc

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constHandler(v interface{}) Handler {
	return func(context.Context, Args) (interface{}, error) { return v, nil }
}

func sealedDispatcher(t *testing.T, bindings map[string]Handler) *Dispatcher {
	t.Helper()
	reg := NewRegistry(nil)
	for ch, h := range bindings {
		require.NoError(t, reg.Register(ch, h, "test"))
	}
	reg.Seal()
	return NewDispatcher(reg, nil)
}

func TestRegisterDuplicateKeepsFirstHandler(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register("openSettingsWindow", constHandler("h1"), "windows"))

	err := reg.Register("openSettingsWindow", constHandler("h2"), "other")
	var dup *DuplicateChannelError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "openSettingsWindow", dup.Channel)
	assert.Equal(t, "windows", dup.Existing)
	assert.Equal(t, "other", dup.Owner)

	reg.Seal()
	got, err := NewDispatcher(reg, nil).Dispatch(context.Background(), "openSettingsWindow", NoArgs)
	require.NoError(t, err)
	assert.Equal(t, "h1", got)
}

func TestRegisterAfterSeal(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Seal()
	assert.ErrorIs(t, reg.Register("late", constHandler(nil), "x"), ErrRegistrySealed)
}

func TestDispatchBeforeSeal(t *testing.T) {
	reg := NewRegistry(nil)
	called := false
	require.NoError(t, reg.Register("ping", func(context.Context, Args) (interface{}, error) {
		called = true
		return nil, nil
	}, "x"))

	_, err := NewDispatcher(reg, nil).Dispatch(context.Background(), "ping", NoArgs)
	var notReady *DispatcherNotReadyError
	assert.ErrorAs(t, err, &notReady)
	assert.False(t, called)
}

func TestDispatchUnknownChannel(t *testing.T) {
	var calls int32
	d := sealedDispatcher(t, map[string]Handler{
		"openSettingsWindow": func(context.Context, Args) (interface{}, error) {
			atomic.AddInt32(&calls, 1)
			return nil, nil
		},
	})

	_, err := d.Dispatch(context.Background(), "nonexistent.channel", ValueArgs(map[string]interface{}{}))
	var unknown *UnknownChannelError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nonexistent.channel", unknown.Channel)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestDispatchUnknownChannelSuggests(t *testing.T) {
	d := sealedDispatcher(t, map[string]Handler{
		"openSettingsWindow": constHandler(nil),
		"showMainWindow":     constHandler(nil),
	})

	_, err := d.Dispatch(context.Background(), "openSettingWindow", NoArgs)
	var unknown *UnknownChannelError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"openSettingsWindow"}, unknown.Suggestions)
	assert.Contains(t, err.Error(), "did you mean openSettingsWindow")
}

func TestDispatchWrapsHandlerFailure(t *testing.T) {
	cause := errors.New("disk on fire")
	d := sealedDispatcher(t, map[string]Handler{
		"save": func(context.Context, Args) (interface{}, error) { return nil, cause },
	})

	_, err := d.Dispatch(context.Background(), "save", NoArgs)
	var exec *HandlerExecutionError
	require.ErrorAs(t, err, &exec)
	assert.Equal(t, "save", exec.Channel)
	assert.Same(t, cause, exec.Cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestDispatchRecoversPanics(t *testing.T) {
	d := sealedDispatcher(t, map[string]Handler{
		"explode": func(context.Context, Args) (interface{}, error) { panic("kaboom") },
	})

	var err error
	require.NotPanics(t, func() {
		_, err = d.Dispatch(context.Background(), "explode", NoArgs)
	})
	var p *PanicError
	require.ErrorAs(t, err, &p)
	assert.Equal(t, "kaboom", p.Value)
	assert.NotEmpty(t, p.Stack)
}

func TestDispatchDoesNotSerializeChannels(t *testing.T) {
	release := make(chan struct{})
	d := sealedDispatcher(t, map[string]Handler{
		"slow": func(ctx context.Context, _ Args) (interface{}, error) {
			<-release
			return "slow", nil
		},
		"fast": constHandler("fast"),
	})

	slowDone := make(chan struct{})
	go func() {
		defer close(slowDone)
		_, _ = d.Dispatch(context.Background(), "slow", NoArgs)
	}()

	fastDone := make(chan interface{}, 1)
	go func() {
		v, _ := d.Dispatch(context.Background(), "fast", NoArgs)
		fastDone <- v
	}()

	select {
	case v := <-fastDone:
		assert.Equal(t, "fast", v)
	case <-time.After(time.Second):
		t.Fatal("fast channel blocked behind slow handler")
	}
	close(release)
	<-slowDone
}

func TestChannelsSorted(t *testing.T) {
	d := sealedDispatcher(t, map[string]Handler{"b": constHandler(nil), "a": constHandler(nil)})
	assert.Equal(t, []string{"a", "b"}, d.Registry().Channels())
	assert.Equal(t, map[string]string{"a": "test", "b": "test"}, d.Registry().Owners())
}
