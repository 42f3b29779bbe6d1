// Package finmodel provides finite-domain model search infrastructure.
// This file implements the round's clause collection and the clause
// instantiator: ground clauses pass through the codec unchanged, open
// clauses are instantiated over every tuple respecting their per-variable
// bounds, with two-variable equalities short-circuited directly.
package finmodel

// ClauseSet accumulates one round's propositional clauses. Every added
// clause passes through duplicate-literal removal; a clause reduced to
// nothing is dropped, not emitted. The set is transient: it is built,
// handed to the backend, and discarded before the next round.
type ClauseSet struct {
	clauses [][]int
	scratch []int
}

// Add queues one clause. The literal slice is copied, so callers may
// reuse their buffer.
func (s *ClauseSet) Add(lits []int) {
	s.scratch = s.scratch[:0]
	for _, l := range lits {
		dup := false
		for _, seen := range s.scratch {
			if seen == l {
				dup = true
				break
			}
		}
		if !dup {
			s.scratch = append(s.scratch, l)
		}
	}
	if len(s.scratch) == 0 {
		return
	}
	cl := make([]int, len(s.scratch))
	copy(cl, s.scratch)
	s.clauses = append(s.clauses, cl)
}

// Clauses returns the accumulated clause set.
func (s *ClauseSet) Clauses() [][]int { return s.clauses }

// Len returns the number of queued clauses.
func (s *ClauseSet) Len() int { return len(s.clauses) }

// Instantiator grounds clauses into a ClauseSet through a codec. It owns
// reusable scratch buffers for literal and grounding construction,
// cleared between uses; nothing is shared across instantiators.
type Instantiator struct {
	codec *Codec
	out   *ClauseSet
	lits  []int
	tuple []int
}

// NewInstantiator creates an instantiator emitting into out.
func NewInstantiator(codec *Codec, out *ClauseSet) *Instantiator {
	return &Instantiator{codec: codec, out: out}
}

// GroundPassThrough encodes ground clauses unchanged. After flattening
// these consist of arity-zero predicates only, so each literal is
// translated with an empty grounding tuple.
func (in *Instantiator) GroundPassThrough(clauses []*Clause) {
	for _, c := range clauses {
		in.lits = in.lits[:0]
		for _, l := range c.Literals {
			in.lits = append(in.lits, in.codec.Encode(l.Sym, nil, l.Positive))
		}
		in.out.Add(in.lits)
	}
}

// Instantiate emits one propositional clause per grounding tuple of the
// open clause's free variables, bounded by min(per-variable bound, n).
//
// Two-variable equality literals are evaluated on the tuple directly:
// a literal that comes out true makes the whole instance vacuous and the
// tuple is abandoned with nothing emitted; a literal that comes out
// false contributes nothing and is omitted from the instance.
func (in *Instantiator) Instantiate(c *Clause, n int) {
	maxes := make([]int, c.varCount)
	for i := range maxes {
		maxes[i] = effectiveBound(c.bounds[i], n)
	}
	e := NewTupleEnumerator(maxes)

grounding:
	for e.Next() {
		g := e.Tuple()
		in.lits = in.lits[:0]
		for _, l := range c.Literals {
			switch l.Kind {
			case VarEquality:
				equal := g[l.Left] == g[l.Right]
				if equal == l.Positive {
					// Literal true under this grounding: instance vacuous.
					continue grounding
				}
				// Literal false: skip it, keep the rest.
			case FunctionAssign:
				in.tuple = in.tuple[:0]
				for _, a := range l.Args {
					in.tuple = append(in.tuple, g[a])
				}
				in.tuple = append(in.tuple, g[l.Out])
				in.lits = append(in.lits, in.codec.Encode(l.Sym, in.tuple, l.Positive))
			case PredicateApp:
				in.tuple = in.tuple[:0]
				for _, a := range l.Args {
					in.tuple = append(in.tuple, g[a])
				}
				in.lits = append(in.lits, in.codec.Encode(l.Sym, in.tuple, l.Positive))
			}
		}
		in.out.Add(in.lits)
	}
}
