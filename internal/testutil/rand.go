// Package testutil provides deterministic random sources and transcript
// fixtures shared by package tests.
package testutil

import "sync"

// MinRand always draws the lowest value of a range.
type MinRand struct{}

func (MinRand) IntN(int) int { return 0 }

// MaxRand always draws the highest value of a range.
type MaxRand struct{}

func (MaxRand) IntN(n int) int { return n - 1 }

// SeqRand replays Draws in order, each reduced modulo the requested bound,
// and records every bound it was asked for.
type SeqRand struct {
	mu     sync.Mutex
	Draws  []int
	Bounds []int
	next   int
}

func (r *SeqRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Bounds = append(r.Bounds, n)
	if len(r.Draws) == 0 {
		return 0
	}
	v := r.Draws[r.next%len(r.Draws)]
	r.next++
	return v % n
}
