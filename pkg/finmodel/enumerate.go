// Package finmodel provides finite-domain model search infrastructure.
// This file implements the bounded Cartesian-product enumerator shared by
// the clause instantiator, every axiom generator, and the model
// extractor. It is the one reusable algorithm of the core: a mixed-radix
// odometer producing every tuple in {1..M_1} x ... x {1..M_m} exactly
// once via carry propagation.
package finmodel

// TupleEnumerator enumerates every tuple of a bounded Cartesian product
// in a deterministic order where the last dimension varies fastest.
//
// Usage follows a pull model:
//
//	e := NewTupleEnumerator([]int{2, 3})
//	for e.Next() {
//	    use(e.Tuple()) // (1,1) (1,2) (1,3) (2,1) (2,2) (2,3)
//	}
//
// A caller that decides mid-tuple that the current tuple is vacuous
// abandons it by simply calling Next again; no partial output escapes.
//
// Zero dimensions yield exactly one empty tuple. A dimension bound below
// one empties the whole product.
type TupleEnumerator struct {
	maxes   []int
	tuple   []int
	started bool
	done    bool
}

// NewTupleEnumerator creates an enumerator over the product of
// {1..maxes[0]} x ... x {1..maxes[m-1]}. The bounds are copied.
func NewTupleEnumerator(maxes []int) *TupleEnumerator {
	e := &TupleEnumerator{
		maxes: make([]int, len(maxes)),
		tuple: make([]int, len(maxes)),
	}
	copy(e.maxes, maxes)
	for _, m := range maxes {
		if m < 1 {
			e.done = true
			break
		}
	}
	return e
}

// Next advances to the next tuple, returning false once the product is
// exhausted. The first call positions the enumerator on the all-ones
// tuple.
func (e *TupleEnumerator) Next() bool {
	if e.done {
		return false
	}
	if !e.started {
		e.started = true
		for i := range e.tuple {
			e.tuple[i] = 1
		}
		return true
	}
	// Carry propagation: bump the last dimension; a dimension at its
	// bound resets to 1 and carries into the next more significant one.
	for i := len(e.tuple) - 1; i >= 0; i-- {
		if e.tuple[i] < e.maxes[i] {
			e.tuple[i]++
			return true
		}
		e.tuple[i] = 1
	}
	e.done = true
	return false
}

// Tuple returns the current tuple. The slice is reused by Next; callers
// must not modify it or hold it across calls.
func (e *TupleEnumerator) Tuple() []int { return e.tuple }

// Reset rewinds the enumerator to its before-first state, keeping the
// dimension bounds.
func (e *TupleEnumerator) Reset() {
	e.started = false
	e.done = false
	for _, m := range e.maxes {
		if m < 1 {
			e.done = true
			return
		}
	}
}

// effectiveBound caps a sort bound at the current domain size; a zero or
// negative bound means "unbounded" and yields the full domain size.
func effectiveBound(bound, n int) int {
	if bound <= 0 || bound > n {
		return n
	}
	return bound
}
