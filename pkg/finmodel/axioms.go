// Package finmodel provides finite-domain model search infrastructure.
// This file implements the three structural axiom families added each
// round: functionality (at most one output per input), totality (at
// least one output per input), and symmetry breaking (canonical use of
// interchangeable domain elements). All three are specializations of the
// shared tuple enumerator over a relation's input and output dimensions.
package finmodel

// AxiomGenerator emits structural axiom clauses for a fixed domain size
// into a ClauseSet, through the round's codec.
type AxiomGenerator struct {
	codec *Codec
	out   *ClauseSet
	lits  []int
	tuple []int
}

// NewAxiomGenerator creates a generator emitting into out.
func NewAxiomGenerator(codec *Codec, out *ClauseSet) *AxiomGenerator {
	return &AxiomGenerator{codec: codec, out: out}
}

// Functionality emits, for function f of arity k, the clauses
//
//	~f(x1..xk, y) | ~f(x1..xk, z)
//
// for every input tuple and every ordered pair of outputs y != z,
// enforcing at most one output per input. The tuple layout is
// (y, z, inputs...), so with the last dimension fastest the inputs vary
// innermost; pairs with y = z are skipped.
func (g *AxiomGenerator) Functionality(sym *Symbol, n int) {
	arity := sym.Arity()
	outBound := effectiveBound(sym.outBound, n)
	maxes := make([]int, arity+2)
	maxes[0] = outBound
	maxes[1] = outBound
	for i := 0; i < arity; i++ {
		maxes[i+2] = effectiveBound(sym.argBounds[i], n)
	}
	e := NewTupleEnumerator(maxes)
	for e.Next() {
		t := e.Tuple()
		if t[0] == t[1] {
			continue
		}
		g.tuple = g.tuple[:0]
		g.tuple = append(g.tuple, t[2:]...)
		g.tuple = append(g.tuple, t[0])
		first := g.codec.Encode(sym, g.tuple, false)
		g.tuple[arity] = t[1]
		second := g.codec.Encode(sym, g.tuple, false)
		g.lits = append(g.lits[:0], first, second)
		g.out.Add(g.lits)
	}
}

// Totality emits, for function f of arity k, one clause per input tuple
// disjoining f(x1..xk, y) over every candidate output y, enforcing at
// least one output per input. Arity-zero functions collapse to a single
// clause disjoined directly over the constant's candidate values.
func (g *AxiomGenerator) Totality(sym *Symbol, n int) {
	arity := sym.Arity()
	outBound := effectiveBound(sym.outBound, n)

	if arity == 0 {
		g.lits = g.lits[:0]
		for v := 1; v <= outBound; v++ {
			g.tuple = append(g.tuple[:0], v)
			g.lits = append(g.lits, g.codec.Encode(sym, g.tuple, true))
		}
		g.out.Add(g.lits)
		return
	}

	maxes := make([]int, arity)
	for i := 0; i < arity; i++ {
		maxes[i] = effectiveBound(sym.argBounds[i], n)
	}
	e := NewTupleEnumerator(maxes)
	for e.Next() {
		t := e.Tuple()
		g.lits = g.lits[:0]
		for v := 1; v <= outBound; v++ {
			g.tuple = g.tuple[:0]
			g.tuple = append(g.tuple, t...)
			g.tuple = append(g.tuple, v)
			g.lits = append(g.lits, g.codec.Encode(sym, g.tuple, true))
		}
		g.out.Add(g.lits)
	}
}

// Symmetry emits the symmetry-breaking unit for ledger position s at
// current domain size n. The ledger advances one unit per domain-size
// increment and is consumed constants first:
//
//   - while unused constants remain (s <= len(constants)), the s-th
//     constant gets a restricted totality clause bounding its value to
//     {1..s}, plus, for s > 1, canonicity clauses forcing earlier
//     constants to fill in each value before this one may take the next;
//   - once constants are exhausted, ledger positions select a function
//     row instead: function s/c (c = constant count) with row input
//     element (s mod c)+1, forced to take some output across the n
//     candidates. The function list exceeding ends the ledger.
//
// With no constants at all there is nothing to anchor rows to and no
// symmetry clauses are produced.
func (g *AxiomGenerator) Symmetry(s, n int, constants, functions []*Symbol) {
	c := len(constants)
	if c == 0 {
		return
	}

	if s > c {
		fi := s / c
		if fi >= len(functions) {
			return
		}
		fn := functions[fi]
		arity := fn.Arity()
		row := (s % c) + 1
		g.lits = g.lits[:0]
		g.tuple = g.tuple[:0]
		for i := 0; i < arity; i++ {
			g.tuple = append(g.tuple, row)
		}
		g.tuple = append(g.tuple, 0)
		for v := 1; v <= n; v++ {
			g.tuple[arity] = v
			g.lits = append(g.lits, g.codec.Encode(fn, g.tuple, true))
		}
		g.out.Add(g.lits)
		return
	}

	con := constants[s-1]

	// Restricted totality: the s-th constant takes a value in {1..s}.
	g.lits = g.lits[:0]
	for v := 1; v <= s; v++ {
		g.tuple = append(g.tuple[:0], v)
		g.lits = append(g.lits, g.codec.Encode(con, g.tuple, true))
	}
	g.out.Add(g.lits)

	// Canonicity: constant_s = d+1 implies some earlier constant = d,
	// so later constants never claim a fresh domain element while an
	// earlier one is still free to.
	for d := 1; d < s; d++ {
		g.lits = g.lits[:0]
		g.tuple = append(g.tuple[:0], d+1)
		g.lits = append(g.lits, g.codec.Encode(con, g.tuple, false))
		g.tuple[0] = d
		for i := 0; i < s-1; i++ {
			g.lits = append(g.lits, g.codec.Encode(constants[i], g.tuple, true))
		}
		g.out.Add(g.lits)
	}
}
