// Package finmodel provides finite-domain model search infrastructure.
// This file implements the per-round propositional address layout: each
// symbol owns a disjoint, contiguous block of variable identifiers sized
// to hold every grounding of its relation at the current domain size.
//
// The table is an immutable value rebuilt from scratch each round, which
// makes the "discard and retry at n+1" logic of the search trivially
// correct: nothing from a previous round can alias into the next.
package finmodel

import (
	"errors"
	"math"
)

// maxVariable is the ceiling of representable propositional variable
// identifiers. SAT backends exchange literals as signed 32-bit style
// DIMACS integers, so addresses beyond this cannot be represented.
const maxVariable = math.MaxInt32

// ErrAddressOverflow reports that the address space required for a
// domain size exceeds the representable variable range. Callers must
// treat it as a legitimate "give up" signal, not a fault: the search
// simply cannot proceed to domains this large.
var ErrAddressOverflow = errors.New("propositional address space exhausted")

// AddressTable assigns each symbol of a signature a contiguous block of
// propositional variable identifiers for one fixed domain size.
//
// Every block reserves one dimension of headroom beyond what the
// encoding addresses: a function of arity k occupies n^(k+2) variables
// and a predicate of arity k occupies n^(k+1). Shrinking the margin
// risks address collisions between neighboring blocks.
type AddressTable struct {
	domainSize int
	base       []int
	varCount   int
}

// NewAddressTable lays out the address space for the given signature at
// domain size n. Function blocks are allocated before predicate blocks,
// with offsets starting at 1. Returns ErrAddressOverflow when the
// running total would pass the representable ceiling.
func NewAddressTable(sig *Signature, n int) (*AddressTable, error) {
	if n < 1 {
		panic("address table requires a positive domain size")
	}
	t := &AddressTable{
		domainSize: n,
		base:       make([]int, len(sig.Symbols())),
	}
	offset := 1
	alloc := func(sym *Symbol) error {
		block, ok := checkedPow(n, sym.Dims()+1)
		if !ok || offset > maxVariable-block {
			return ErrAddressOverflow
		}
		t.base[sym.index] = offset
		offset += block
		return nil
	}
	for _, sym := range sig.Symbols() {
		if sym.Kind() != Function {
			continue
		}
		if err := alloc(sym); err != nil {
			return nil, err
		}
	}
	for _, sym := range sig.Symbols() {
		if sym.Kind() != Predicate {
			continue
		}
		if err := alloc(sym); err != nil {
			return nil, err
		}
	}
	t.varCount = offset
	return t, nil
}

// DomainSize returns the domain size the table was built for.
func (t *AddressTable) DomainSize() int { return t.domainSize }

// VarCount returns the number of propositional variables the table
// requires the SAT backend to provide.
func (t *AddressTable) VarCount() int { return t.varCount }

// Base returns the first variable identifier of the symbol's block.
func (t *AddressTable) Base(sym *Symbol) int { return t.base[sym.index] }

// checkedPow computes n^k, reporting false instead of wrapping when the
// result exceeds the representable variable ceiling.
func checkedPow(n, k int) (int, bool) {
	result := int64(1)
	for i := 0; i < k; i++ {
		result *= int64(n)
		if result > maxVariable {
			return 0, false
		}
	}
	return int(result), true
}
