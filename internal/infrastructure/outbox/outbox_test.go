package outbox

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct{ name string }

func (e testEvent) EventName() string { return e.name }

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewBus(nil)
	var a, b atomic.Int32
	var wg sync.WaitGroup
	wg.Add(2)
	bus.Subscribe("cart.checked_out", func(context.Context, domoutbox.Event) error {
		a.Add(1)
		wg.Done()
		return nil
	})
	bus.Subscribe("cart.checked_out", func(context.Context, domoutbox.Event) error {
		b.Add(1)
		wg.Done()
		return errors.New("boom")
	})
	bus.Subscribe("other", func(context.Context, domoutbox.Event) error {
		t.Error("unexpected delivery")
		return nil
	})

	ctx := context.Background()
	bus.Start(ctx)
	require.NoError(t, bus.Publish(ctx, testEvent{name: "cart.checked_out"}))
	wg.Wait()

	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
	bus.Stop(ctx)
}

func TestBusRecoversFromPanickingHandler(t *testing.T) {
	bus := NewBus(nil, WithConcurrency(1))
	delivered := make(chan struct{}, 1)
	bus.Subscribe("x", func(context.Context, domoutbox.Event) error { panic("kaboom") })
	bus.Subscribe("x", func(context.Context, domoutbox.Event) error {
		delivered <- struct{}{}
		return nil
	})

	ctx := context.Background()
	bus.Start(ctx)
	defer bus.Stop(ctx)
	require.NoError(t, bus.Publish(ctx, testEvent{name: "x"}))

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler never ran")
	}
}

func TestBusStopDrainsQueueAndRejectsLatePublish(t *testing.T) {
	bus := NewBus(nil)
	var n atomic.Int32
	bus.Subscribe("x", func(context.Context, domoutbox.Event) error {
		n.Add(1)
		return nil
	})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(ctx, testEvent{name: "x"}))
	}
	bus.Start(ctx)

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	bus.Stop(stopCtx)

	assert.Equal(t, int32(5), n.Load())
	assert.ErrorIs(t, bus.Publish(ctx, testEvent{name: "x"}), ErrClosed)
	assert.NotPanics(t, func() { bus.Stop(ctx) })
}

func TestPublishHonoursContextWhenQueueFull(t *testing.T) {
	bus := NewBus(nil, WithBuffer(1))
	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, testEvent{name: "x"}))

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Publish(cctx, testEvent{name: "x"}), context.DeadlineExceeded)
	assert.NoError(t, bus.Publish(ctx, nil))
}

type stubPublisher struct {
	got []string
	err error
}

func (s *stubPublisher) Publish(_ context.Context, e domoutbox.Event) error {
	s.got = append(s.got, e.EventName())
	return s.err
}

func TestTeePublishesToAllAndJoinsErrors(t *testing.T) {
	ok := &stubPublisher{}
	bad := &stubPublisher{err: errors.New("nats down")}

	err := Tee(bad, nil, ok).Publish(context.Background(), testEvent{name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nats down")
	assert.Equal(t, []string{"x"}, ok.got)
	assert.Equal(t, []string{"x"}, bad.got)

	assert.Same(t, ok, Tee(nil, ok))
}
