package event_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/shopfront/pkg/event"
)

func TestBus_FireReachesListeners(t *testing.T) {
	bus := event.New()
	var got []interface{}
	bus.Listen("cart.changed", func(_ context.Context, p interface{}) { got = append(got, p) })
	bus.Listen("cart.changed", func(_ context.Context, p interface{}) { got = append(got, p) })
	bus.Listen("other", func(_ context.Context, p interface{}) { t.Fatal("wrong event") })

	bus.Fire(context.Background(), "cart.changed", 7)
	assert.Equal(t, []interface{}{7, 7}, got)
}

func TestBus_PanickingListenerDoesNotStopOthers(t *testing.T) {
	bus := event.New()
	var calls atomic.Int32
	bus.Listen("x", func(context.Context, interface{}) { panic("boom") })
	bus.Listen("x", func(context.Context, interface{}) { calls.Add(1) })

	bus.Fire(context.Background(), "x", nil)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBus_FireAsyncSurvivesCancel(t *testing.T) {
	bus := event.New()
	var seenErr atomic.Value
	bus.Listen("x", func(ctx context.Context, _ interface{}) { seenErr.Store(ctx.Err() == nil) })

	ctx, cancel := context.WithCancel(context.Background())
	bus.FireAsync(ctx, "x", nil)
	cancel()
	bus.Wait()

	assert.Equal(t, true, seenErr.Load())
}

func TestBus_Flush(t *testing.T) {
	bus := event.New()
	bus.Listen("x", func(context.Context, interface{}) { t.Fatal("flushed listener ran") })
	bus.Flush()
	bus.Fire(context.Background(), "x", nil)
}
