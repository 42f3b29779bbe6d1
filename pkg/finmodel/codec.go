// Package finmodel provides finite-domain model search infrastructure.
// This file implements the grounding codec: the bijection from
// (symbol, domain-element tuple, polarity) to a signed propositional
// literal, given an address table for the current domain size.
package finmodel

import "fmt"

// Codec encodes groundings of a signature's relations as signed
// DIMACS-style literals: positive integers for positive literals,
// negated for negative ones. A codec is valid only for the domain size
// its address table was built for.
//
// Encoding is injective per domain size: distinct (symbol, tuple) pairs
// never collide and no symbol's block overlaps another's, which the
// address table guarantees by construction.
type Codec struct {
	table *AddressTable
}

// NewCodec creates a codec over the given address table.
func NewCodec(table *AddressTable) *Codec {
	return &Codec{table: table}
}

// DomainSize returns the domain size encoded against.
func (c *Codec) DomainSize() int { return c.table.domainSize }

// VarCount returns the variable count of the underlying address table.
func (c *Codec) VarCount() int { return c.table.varCount }

// Encode maps a symbol grounding to a signed literal. The tuple must
// have exactly sym.Dims() entries, each in 1..n; for functions the last
// entry is the output value. The address is
//
//	base(sym) + sum_i (tuple[i]-1) * n^i
//
// with the first dimension least significant.
//
// A tuple of the wrong shape is a contract breach by the caller and
// panics: silently mis-encoding would make a refutation verdict unsound.
func (c *Codec) Encode(sym *Symbol, tuple []int, positive bool) int {
	if len(tuple) != sym.Dims() {
		panic(fmt.Sprintf("encode %s: grounding has %d dimensions, want %d",
			sym, len(tuple), sym.Dims()))
	}
	n := c.table.domainSize
	v := c.table.Base(sym)
	mult := 1
	for _, e := range tuple {
		if e < 1 || e > n {
			panic(fmt.Sprintf("encode %s: element %d outside domain 1..%d", sym, e, n))
		}
		v += (e - 1) * mult
		mult *= n
	}
	if !positive {
		return -v
	}
	return v
}
