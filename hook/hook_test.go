package hook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSyncOrder(t *testing.T) {
	h := NewSync[*[]string]("compilation")

	h.Tap("a", func(v *[]string) { *v = append(*v, "a") })
	h.Tap("b", func(v *[]string) { *v = append(*v, "b") })

	var got []string

	h.Call(&got)

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, []string{"a", "b"}, h.Taps())
	assert.True(t, h.IsUsed())
	assert.Equal(t, "compilation", h.Name())
}

func TestWaterfallPassesData(t *testing.T) {
	h := NewAsyncSeriesWaterfall[int]("sum")

	h.Tap("double", func(v int) (int, error) { return v * 2, nil })
	h.TapAsync("inc", func(v int, cb Callback[int]) { cb(nil, v+1) })

	var (
		calls int
		got   int
	)

	h.CallAsync(3, func(err error, v int) {
		calls++

		require.NoError(t, err)

		got = v
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 7, got)
}

func TestWaterfallStopsOnError(t *testing.T) {
	h := NewAsyncSeriesWaterfall[int]("fail")
	errBuild := errors.New("build failed")
	ran := false

	h.TapAsync("first", func(v int, cb Callback[int]) { cb(errBuild, v) })
	h.Tap("second", func(v int) (int, error) {
		ran = true

		return v, nil
	})

	_, err := h.Call(context.Background(), 1)

	assert.Same(t, errBuild, err)
	assert.False(t, ran)
}

func TestWaterfallIgnoresRepeatedCallbacks(t *testing.T) {
	h := NewAsyncSeriesWaterfall[int]("repeat")

	h.TapAsync("twice", func(v int, cb Callback[int]) {
		cb(nil, v)
		cb(nil, v+100)
	})

	calls := 0

	h.CallAsync(1, func(err error, v int) {
		calls++

		assert.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	assert.Equal(t, 1, calls)
}

func TestWaterfallNoTaps(t *testing.T) {
	h := NewAsyncSeriesWaterfall[string]("empty")

	got, err := h.Call(context.Background(), "data")

	require.NoError(t, err)
	assert.Equal(t, "data", got)
	assert.False(t, h.IsUsed())
}

func TestWaterfallAsyncCompletion(t *testing.T) {
	h := NewAsyncSeriesWaterfall[int]("later")

	h.TapAsync("later", func(v int, cb Callback[int]) {
		go cb(nil, v+1)
	})

	got, err := h.Call(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestWaterfallCallCancelled(t *testing.T) {
	h := NewAsyncSeriesWaterfall[int]("never")
	release := make(chan struct{})
	done := make(chan struct{})

	h.TapAsync("blocked", func(v int, cb Callback[int]) {
		go func() {
			defer close(done)

			<-release
			cb(nil, v)
		}()
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := h.Call(ctx, 1)

	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-done
}

func TestWaterfallCallCompletedBeforeCancel(t *testing.T) {
	h := NewAsyncSeriesWaterfall[int]("completed")
	errTap := errors.New("tap failed")
	ctx, cancel := context.WithCancel(context.Background())

	h.TapAsync("cancel", func(v int, cb Callback[int]) {
		cancel()
		cb(errTap, v)
	})

	for i := 0; i < 10; i++ {
		_, err := h.Call(ctx, 1)

		assert.Same(t, errTap, err)
	}
}
