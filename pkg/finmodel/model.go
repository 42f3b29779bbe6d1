// Package finmodel provides finite-domain model search infrastructure.
// This file implements model extraction: reading a satisfying assignment
// back into an explicit finite interpretation. The derivation is
// deterministic and complete — one concrete value per input tuple per
// function, one truth value per tuple per predicate — and the textual
// rendering is a debugging convenience, not a stable format.
package finmodel

import (
	"fmt"
	"sort"
	"strings"
)

// FunctionTable is the explicit interpretation of one function symbol:
// the output value for every input tuple, in enumeration order.
type FunctionTable struct {
	Arity  int
	Inputs [][]int
	Values []int
}

// PredicateTable is the explicit interpretation of one predicate symbol:
// the truth value for every argument tuple, in enumeration order.
type PredicateTable struct {
	Arity  int
	Tuples [][]int
	Truth  []bool
}

// FiniteModel is an explicit interpretation over the domain {1..n}. The
// domain elements are pairwise distinct by construction.
type FiniteModel struct {
	DomainSize int

	// Constants maps each arity-zero function to its value.
	Constants map[string]int

	// Functions maps each function of arity one or more to its table.
	Functions map[string]*FunctionTable

	// Predicates maps each predicate to its table; arity-zero
	// predicates have a single empty tuple.
	Predicates map[string]*PredicateTable
}

// ExtractModel derives the finite interpretation from the backend's
// satisfying assignment, using the round's codec. For every function and
// input tuple, output candidates are scanned in ascending order and the
// first true one is taken; totality guarantees one exists, so a missing
// value is an invariant violation and panics.
func ExtractModel(codec *Codec, backend Backend, sig *Signature) *FiniteModel {
	n := codec.DomainSize()
	m := &FiniteModel{
		DomainSize: n,
		Constants:  make(map[string]int),
		Functions:  make(map[string]*FunctionTable),
		Predicates: make(map[string]*PredicateTable),
	}

	tuple := make([]int, 0, 8)
	valueOf := func(sym *Symbol, inputs []int) int {
		for v := 1; v <= n; v++ {
			tuple = append(tuple[:0], inputs...)
			tuple = append(tuple, v)
			if backend.TrueInAssignment(codec.Encode(sym, tuple, true)) {
				return v
			}
		}
		panic(fmt.Sprintf("no output value for %s%v in satisfying assignment", sym, inputs))
	}

	for _, sym := range sig.Symbols() {
		switch {
		case sym.IsConstant():
			m.Constants[sym.Name()] = valueOf(sym, nil)

		case sym.Kind() == Function:
			ft := &FunctionTable{Arity: sym.Arity()}
			maxes := make([]int, sym.Arity())
			for i := range maxes {
				maxes[i] = effectiveBound(sym.argBounds[i], n)
			}
			e := NewTupleEnumerator(maxes)
			for e.Next() {
				in := make([]int, sym.Arity())
				copy(in, e.Tuple())
				ft.Inputs = append(ft.Inputs, in)
				ft.Values = append(ft.Values, valueOf(sym, in))
			}
			m.Functions[sym.Name()] = ft

		default: // predicate
			pt := &PredicateTable{Arity: sym.Arity()}
			maxes := make([]int, sym.Arity())
			for i := range maxes {
				maxes[i] = effectiveBound(sym.argBounds[i], n)
			}
			e := NewTupleEnumerator(maxes)
			for e.Next() {
				args := make([]int, sym.Arity())
				copy(args, e.Tuple())
				pt.Tuples = append(pt.Tuples, args)
				pt.Truth = append(pt.Truth, backend.TrueInAssignment(codec.Encode(sym, args, true)))
			}
			m.Predicates[sym.Name()] = pt
		}
	}
	return m
}

// ConstantValue returns the interpreted value of a constant.
func (m *FiniteModel) ConstantValue(name string) (int, bool) {
	v, ok := m.Constants[name]
	return v, ok
}

// PredicateHolds reports whether the predicate holds on the given tuple.
func (m *FiniteModel) PredicateHolds(name string, args ...int) bool {
	pt, ok := m.Predicates[name]
	if !ok {
		return false
	}
	for i, t := range pt.Tuples {
		if equalTuples(t, args) {
			return pt.Truth[i]
		}
	}
	return false
}

// FunctionValue returns f(args...), or false when the tuple is outside
// the interpreted range.
func (m *FiniteModel) FunctionValue(name string, args ...int) (int, bool) {
	if len(args) == 0 {
		v, ok := m.Constants[name]
		return v, ok
	}
	ft, ok := m.Functions[name]
	if !ok {
		return 0, false
	}
	for i, t := range ft.Inputs {
		if equalTuples(t, args) {
			return ft.Values[i], true
		}
	}
	return 0, false
}

func equalTuples(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String renders the interpretation in a plain line-oriented form:
// the distinct domain, then one line per constant, function row, and
// predicate tuple, sorted by symbol name for stable output.
func (m *FiniteModel) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "domain: {1..%d}, all elements distinct\n", m.DomainSize)

	names := make([]string, 0, len(m.Constants))
	for name := range m.Constants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "%s = %d\n", name, m.Constants[name])
	}

	names = names[:0]
	for name := range m.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ft := m.Functions[name]
		for i, in := range ft.Inputs {
			fmt.Fprintf(&b, "%s(%s) = %d\n", name, joinTuple(in), ft.Values[i])
		}
	}

	names = names[:0]
	for name := range m.Predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pt := m.Predicates[name]
		for i, args := range pt.Tuples {
			if pt.Arity == 0 {
				fmt.Fprintf(&b, "%s = %t\n", name, pt.Truth[i])
				continue
			}
			fmt.Fprintf(&b, "%s(%s) = %t\n", name, joinTuple(args), pt.Truth[i])
		}
	}
	return b.String()
}

func joinTuple(t []int) string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}
