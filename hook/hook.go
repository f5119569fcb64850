// Package hook implements the extension points used by the compiler and its
// plugins.
package hook

import (
	"context"
	"sync"
)

// Callback completes an asynchronous tap.
type Callback[T any] func(err error, data T)

type syncTap[T any] struct {
	name string
	fn   func(T)
}

// Sync is a hook whose taps are called, in order, with the same value.
type Sync[T any] struct {
	name string
	taps []syncTap[T]
}

// NewSync creates a named Sync hook.
func NewSync[T any](name string) *Sync[T] {
	return &Sync[T]{name: name}
}

// Name returns the name of the hook.
func (h *Sync[T]) Name() string {
	return h.name
}

// Tap registers fn under the given plugin name.
func (h *Sync[T]) Tap(name string, fn func(T)) {
	h.taps = append(h.taps, syncTap[T]{name: name, fn: fn})
}

// IsUsed reports whether anything has tapped the hook.
func (h *Sync[T]) IsUsed() bool {
	return len(h.taps) > 0
}

// Taps returns the plugin names that have tapped the hook.
func (h *Sync[T]) Taps() []string {
	names := make([]string, len(h.taps))

	for n, t := range h.taps {
		names[n] = t.name
	}

	return names
}

// Call runs every tap with v.
func (h *Sync[T]) Call(v T) {
	for _, t := range h.taps {
		t.fn(v)
	}
}

type asyncTap[T any] struct {
	name string
	fn   func(T, Callback[T])
}

// AsyncSeriesWaterfall is a hook whose taps run one after another, each
// receiving the data the previous one completed with.
//
// The first tap to complete with an error ends the series and the error is
// handed, unchanged, to the final callback.
type AsyncSeriesWaterfall[T any] struct {
	name string
	taps []asyncTap[T]
}

// NewAsyncSeriesWaterfall creates a named AsyncSeriesWaterfall hook.
func NewAsyncSeriesWaterfall[T any](name string) *AsyncSeriesWaterfall[T] {
	return &AsyncSeriesWaterfall[T]{name: name}
}

// Name returns the name of the hook.
func (h *AsyncSeriesWaterfall[T]) Name() string {
	return h.name
}

// Tap registers a synchronous tap.
func (h *AsyncSeriesWaterfall[T]) Tap(name string, fn func(T) (T, error)) {
	h.TapAsync(name, func(data T, cb Callback[T]) {
		res, err := fn(data)
		if err != nil {
			cb(err, data)
		} else {
			cb(nil, res)
		}
	})
}

// TapAsync registers a tap that signals completion through its callback.
//
// The callback must be called once; any further calls are ignored.
func (h *AsyncSeriesWaterfall[T]) TapAsync(name string, fn func(T, Callback[T])) {
	h.taps = append(h.taps, asyncTap[T]{name: name, fn: fn})
}

// IsUsed reports whether anything has tapped the hook.
func (h *AsyncSeriesWaterfall[T]) IsUsed() bool {
	return len(h.taps) > 0
}

// Taps returns the plugin names that have tapped the hook.
func (h *AsyncSeriesWaterfall[T]) Taps() []string {
	names := make([]string, len(h.taps))

	for n, t := range h.taps {
		names[n] = t.name
	}

	return names
}

// CallAsync runs the taps in series, starting with data, and calls done once
// the series has finished or failed.
func (h *AsyncSeriesWaterfall[T]) CallAsync(data T, done Callback[T]) {
	taps := append([]asyncTap[T](nil), h.taps...)

	h.next(taps, data, once(done))
}

func (h *AsyncSeriesWaterfall[T]) next(taps []asyncTap[T], data T, done Callback[T]) {
	if len(taps) == 0 {
		done(nil, data)

		return
	}

	taps[0].fn(data, once(func(err error, res T) {
		if err != nil {
			done(err, res)
		} else {
			h.next(taps[1:], res, done)
		}
	}))
}

// Call runs the hook and waits for it to complete, or for ctx to be done. A
// hook that has already completed returns its result even if ctx is done.
func (h *AsyncSeriesWaterfall[T]) Call(ctx context.Context, data T) (T, error) {
	type result struct {
		data T
		err  error
	}

	ch := make(chan result, 1)

	h.CallAsync(data, func(err error, res T) {
		ch <- result{data: res, err: err}
	})

	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		select {
		case r := <-ch:
			return r.data, r.err
		default:
		}

		return data, ctx.Err()
	}
}

func once[T any](cb Callback[T]) Callback[T] {
	var o sync.Once

	return func(err error, data T) {
		o.Do(func() {
			cb(err, data)
		})
	}
}
