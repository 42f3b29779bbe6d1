// Package finmodel provides finite-domain model search over first-order
// clause sets.
// This file defines the flattened clause representation the search
// consumes: literals over variables only, clauses partitioned into ground
// and open, per-clause variable bounds, and the maximum-model-size bound
// that licenses refutation verdicts.
//
// Clauses are expected to arrive flattened, Skolemized, and with
// variables normalized to 0..VarCount-1 by an upstream preprocessing
// step. Three literal shapes remain after flattening:
//
//	P(x1,...,xk)       predicate application (arguments are variables)
//	f(x1,...,xk) = y   function assignment (arguments and result variables)
//	x = y              equality between two variables
//
// each of either polarity. Any other shape is a contract breach by the
// preprocessor and is rejected at setup.
package finmodel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadClause reports a clause that violates the flattened-form
// contract: wrong argument counts, a function symbol used as a
// predicate, or sort bounds that contradict each other.
var ErrBadClause = errors.New("malformed clause")

// LiteralKind identifies the shape of a flattened literal.
type LiteralKind int

const (
	// PredicateApp is P(x1,...,xk) with variable arguments.
	PredicateApp LiteralKind = iota

	// FunctionAssign is f(x1,...,xk) = y with variable arguments and
	// a variable result.
	FunctionAssign

	// VarEquality is x = y over two variables. These literals are
	// evaluated directly during instantiation and never reach the
	// propositional encoding.
	VarEquality
)

// Literal is one flattened literal. Variables are identified by their
// dense per-clause index.
type Literal struct {
	Kind     LiteralKind
	Positive bool

	// Sym and Args are set for PredicateApp and FunctionAssign.
	Sym  *Symbol
	Args []int

	// Out is the result variable of a FunctionAssign.
	Out int

	// Left and Right are the variables of a VarEquality.
	Left, Right int
}

// NewPredLiteral builds a predicate-application literal P(args...).
func NewPredLiteral(sym *Symbol, positive bool, args ...int) Literal {
	return Literal{Kind: PredicateApp, Positive: positive, Sym: sym, Args: args}
}

// NewFuncLiteral builds a function-assignment literal f(args...) = out.
func NewFuncLiteral(sym *Symbol, positive bool, out int, args ...int) Literal {
	return Literal{Kind: FunctionAssign, Positive: positive, Sym: sym, Args: args, Out: out}
}

// NewEqLiteral builds a two-variable equality literal left = right.
func NewEqLiteral(positive bool, left, right int) Literal {
	return Literal{Kind: VarEquality, Positive: positive, Left: left, Right: right}
}

func (l Literal) String() string {
	var b strings.Builder
	if !l.Positive {
		b.WriteString("~")
	}
	switch l.Kind {
	case VarEquality:
		fmt.Fprintf(&b, "X%d=X%d", l.Left, l.Right)
	case PredicateApp, FunctionAssign:
		b.WriteString(l.Sym.Name())
		if len(l.Args) > 0 {
			b.WriteString("(")
			for i, a := range l.Args {
				if i > 0 {
					b.WriteString(",")
				}
				fmt.Fprintf(&b, "X%d", a)
			}
			b.WriteString(")")
		}
		if l.Kind == FunctionAssign {
			fmt.Fprintf(&b, "=X%d", l.Out)
		}
	}
	return b.String()
}

// variables calls f for every variable occurring in the literal.
func (l Literal) variables(f func(v int)) {
	switch l.Kind {
	case VarEquality:
		f(l.Left)
		f(l.Right)
	case FunctionAssign:
		for _, a := range l.Args {
			f(a)
		}
		f(l.Out)
	case PredicateApp:
		for _, a := range l.Args {
			f(a)
		}
	}
}

// Clause is one flattened first-order clause: a disjunction of literals.
// A clause with no variables is ground and is encoded once per round,
// unchanged; a clause with variables is open and is instantiated over
// every tuple of domain elements respecting its variable bounds.
type Clause struct {
	Literals []Literal

	varCount int

	// bounds holds the per-variable sort bound derived at setup from the
	// literals the variable is used at; zero means "full domain size".
	// Read-only after setup.
	bounds []int
}

// NewClause builds a clause from the given literals. The variable count
// is the highest variable index mentioned, plus one.
func NewClause(lits ...Literal) *Clause {
	c := &Clause{Literals: lits}
	for _, l := range lits {
		l.variables(func(v int) {
			if v+1 > c.varCount {
				c.varCount = v + 1
			}
		})
	}
	return c
}

// VarCount returns the number of free variables of the clause.
func (c *Clause) VarCount() int { return c.varCount }

// IsGround reports whether the clause has no free variables.
func (c *Clause) IsGround() bool { return c.varCount == 0 }

func (c *Clause) String() string {
	if len(c.Literals) == 0 {
		return "<empty>"
	}
	parts := make([]string, len(c.Literals))
	for i, l := range c.Literals {
		parts[i] = l.String()
	}
	return strings.Join(parts, " | ")
}

// validate checks the flattened-form contract for one clause.
func (c *Clause) validate() error {
	for _, l := range c.Literals {
		switch l.Kind {
		case PredicateApp:
			if l.Sym == nil || l.Sym.Kind() != Predicate {
				return fmt.Errorf("%w: %q is not a predicate application", ErrBadClause, l)
			}
			if len(l.Args) != l.Sym.Arity() {
				return fmt.Errorf("%w: %s applied to %d arguments", ErrBadClause, l.Sym, len(l.Args))
			}
		case FunctionAssign:
			if l.Sym == nil || l.Sym.Kind() != Function {
				return fmt.Errorf("%w: %q is not a function assignment", ErrBadClause, l)
			}
			if len(l.Args) != l.Sym.Arity() {
				return fmt.Errorf("%w: %s applied to %d arguments", ErrBadClause, l.Sym, len(l.Args))
			}
		case VarEquality:
			// Nothing to check; both sides are variables by construction.
		default:
			return fmt.Errorf("%w: unknown literal kind %d", ErrBadClause, l.Kind)
		}
	}
	if c.IsGround() {
		// After flattening, a ground clause can only mention arity-zero
		// predicates: any term argument would have been lifted into a
		// fresh variable.
		for _, l := range c.Literals {
			if l.Kind != PredicateApp || l.Sym.Arity() != 0 {
				return fmt.Errorf("%w: ground clause contains non-propositional literal %q", ErrBadClause, l)
			}
		}
	}
	return nil
}

// deriveBounds computes the per-variable sort bound table from the
// literals each variable is used at. Function-assignment literals bind
// their argument and result variables, predicate literals bind their
// argument variables, and two-variable equalities bind nothing. A
// variable used only through equalities keeps bound zero and falls back
// to the full domain size.
//
// Two literals implying different nonzero bounds for the same variable
// indicate an inconsistency in the upstream sort inference and fail
// setup rather than risk an unsound encoding.
func (c *Clause) deriveBounds() error {
	c.bounds = make([]int, c.varCount)
	set := func(v, bound int) error {
		if bound == 0 {
			return nil
		}
		if c.bounds[v] != 0 && c.bounds[v] != bound {
			return fmt.Errorf("%w: variable X%d bounded to both %d and %d in %q",
				ErrBadClause, v, c.bounds[v], bound, c)
		}
		c.bounds[v] = bound
		return nil
	}
	for _, l := range c.Literals {
		switch l.Kind {
		case FunctionAssign:
			if err := set(l.Out, l.Sym.outBound); err != nil {
				return err
			}
			for j, a := range l.Args {
				if err := set(a, l.Sym.argBounds[j]); err != nil {
					return err
				}
			}
		case PredicateApp:
			for j, a := range l.Args {
				if err := set(a, l.Sym.argBounds[j]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// isPurePositiveEqualities reports whether every literal of the clause
// is a positive equality between two distinct variables. Such a clause
// upper-bounds the size of any satisfying domain by its variable count.
func (c *Clause) isPurePositiveEqualities() bool {
	if len(c.Literals) == 0 {
		return false
	}
	for _, l := range c.Literals {
		if l.Kind != VarEquality || !l.Positive || l.Left == l.Right {
			return false
		}
	}
	return true
}

// Problem is a clause set over a signature, partitioned into ground and
// open clauses. Problems are constructed incrementally and become
// immutable once handed to NewSearch.
type Problem struct {
	sig    *Signature
	ground []*Clause
	open   []*Clause
}

// NewProblem creates an empty problem over the given signature.
func NewProblem(sig *Signature) *Problem {
	return &Problem{sig: sig}
}

// Signature returns the problem's signature.
func (p *Problem) Signature() *Signature { return p.sig }

// AddClause adds one flattened clause, routing it to the ground or open
// partition.
func (p *Problem) AddClause(c *Clause) {
	if c.IsGround() {
		p.ground = append(p.ground, c)
	} else {
		p.open = append(p.open, c)
	}
}

// GroundClauses returns the ground partition.
func (p *Problem) GroundClauses() []*Clause { return p.ground }

// OpenClauses returns the open partition.
func (p *Problem) OpenClauses() []*Clause { return p.open }

// setup validates every clause and derives the per-clause variable
// bounds. It reports, via the returned flag, whether the clause set
// contains an empty ground clause, which is a refutation found before
// any search begins.
func (p *Problem) setup() (refuted bool, err error) {
	for _, c := range p.ground {
		if err := c.validate(); err != nil {
			return false, err
		}
		if len(c.Literals) == 0 {
			refuted = true
		}
	}
	for _, c := range p.open {
		if err := c.validate(); err != nil {
			return false, err
		}
		if err := c.deriveBounds(); err != nil {
			return false, err
		}
	}
	return refuted, nil
}

// modelSizeBound computes the maximum-model-size bound, the completeness
// certificate that licenses a refutation verdict. Two sources apply:
//
//   - every open clause that is a pure positive disjunction of
//     two-variable equalities bounds any satisfying domain by its
//     variable count;
//   - a function-free (EPR) problem is bounded by its number of distinct
//     constants, since larger domains add no non-isomorphic models.
//
// The returned flag is false when no bound is known.
func (p *Problem) modelSizeBound() (int, bool) {
	bound := 0
	for _, c := range p.open {
		if c.isPurePositiveEqualities() {
			if bound == 0 || c.varCount < bound {
				bound = c.varCount
			}
		}
	}
	if len(p.sig.NonConstantFunctions()) == 0 {
		epr := len(p.sig.Constants())
		if epr < 1 {
			epr = 1
		}
		if bound == 0 || epr < bound {
			bound = epr
		}
	}
	return bound, bound > 0
}
