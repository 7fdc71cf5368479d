// Package pool provides typed object pools for the tabular encoder and the
// compression codecs.
package pool

import "sync"

// Pool is a typed sync.Pool. Values handed to Put pass through keep first,
// which resets them and reports whether they are worth retaining.
type Pool[T any] struct {
	p    sync.Pool
	keep func(T) bool
}

// New creates a pool that makes values with newFn. A nil keep retains every value.
func New[T any](newFn func() T, keep func(T) bool) *Pool[T] {
	return &Pool[T]{
		p:    sync.Pool{New: func() any { return newFn() }},
		keep: keep,
	}
}

// Get returns a pooled value, or a new one.
func (p *Pool[T]) Get() T {
	v, _ := p.p.Get().(T)
	return v
}

// Put returns v to the pool unless keep rejects it.
func (p *Pool[T]) Put(v T) {
	if p.keep != nil && !p.keep(v) {
		return
	}
	p.p.Put(v)
}
