// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package result provides a single-assignment handle which delivers
// the outcome of an asynchronous task to its waiter. A Channel may be
// settled exactly once, either by a value (Resolve) or by an error
// (Fail), and the first writer wins. Later attempts are ignored and
// reported as such, so a racing writer (e.g., a cancellation which
// runs after a match was delivered) can find out that it lost.
package result

import (
	"context"
	"sync"
)

// Channel is a single-assignment and awaitable result of type T.
// The zero value is not usable and New must be used instead.
type Channel[T any] struct {
	mu   sync.Mutex
	done chan struct{}
	set  bool

	val T
	err error
}

// New instantiates an unsettled Channel.
func New[T any]() *Channel[T] {
	return &Channel[T]{done: make(chan struct{})}
}

// Resolve settles c with v. It returns false if c was already settled.
func (c *Channel[T]) Resolve(v T) bool {
	return c.settle(v, nil)
}

// Fail settles c with err. It returns false if c was already settled.
func (c *Channel[T]) Fail(err error) bool {
	var zero T
	return c.settle(zero, err)
}

func (c *Channel[T]) settle(v T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set {
		return false
	}
	c.val, c.err, c.set = v, err, true
	close(c.done)
	return true
}

// Done returns a channel which is closed when c is settled.
func (c *Channel[T]) Done() <-chan struct{} {
	return c.done
}

// Resolved reports whether c is settled.
func (c *Channel[T]) Resolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set
}

// Await blocks until c is settled or ctx is done. In the latter case,
// the ctx error is returned and c is left untouched, so it may be
// awaited again.
func (c *Channel[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Peek returns the settled value and error without blocking. The ok
// flag is false if c is not settled yet.
func (c *Channel[T]) Peek() (v T, err error, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val, c.err, c.set
}
