// Package finmodel provides finite-domain model search infrastructure.
// This file defines the narrow SAT backend contract the search relies on
// and the adapters for the two supported solver implementations. Backend
// selection is configuration, not logic: the search never inspects which
// implementation it is driving.
package finmodel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crillab/gophersat/solver"
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// Verdict is the outcome of one SAT call.
type Verdict int

const (
	// VerdictUnknown means the backend could not decide (stopped or
	// cancelled).
	VerdictUnknown Verdict = iota

	// VerdictSat means a satisfying assignment was found.
	VerdictSat

	// VerdictUnsat means the clause set is unsatisfiable.
	VerdictUnsat
)

func (v Verdict) String() string {
	switch v {
	case VerdictSat:
		return "SAT"
	case VerdictUnsat:
		return "UNSAT"
	case VerdictUnknown:
		return "UNKNOWN"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// ErrUnknownBackend reports a request for a SAT backend this package
// does not provide. It aborts search construction before any round runs.
var ErrUnknownBackend = errors.New("unknown SAT backend")

// Names of the supported SAT backends.
const (
	BackendGini      = "gini"
	BackendGophersat = "gophersat"
)

// Backend is the minimum contract required of a SAT solver. Literals are
// signed DIMACS-style integers. A fresh backend is built for every round
// of the search; implementations need not support clause retraction.
type Backend interface {
	// EnsureVarCount guarantees the solver knows about variables 1..n.
	EnsureVarCount(n int)

	// AddClauses queues a clause set.
	AddClauses(clauses [][]int)

	// Solve decides the queued clauses. The context is advisory: an
	// implementation that cannot interrupt a running solve may ignore
	// it beyond an upfront check.
	Solve(ctx context.Context) Verdict

	// TrueInAssignment reports whether the literal holds in the
	// satisfying assignment. Only defined after Solve returned
	// VerdictSat.
	TrueInAssignment(lit int) bool
}

// newBackend builds the named backend; the empty name selects gini.
func newBackend(name string) (Backend, error) {
	switch name {
	case "", BackendGini:
		return newGiniBackend(), nil
	case BackendGophersat:
		return newGophersatBackend(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// giniBackend adapts the gini CDCL solver. Clauses are streamed into the
// solver immediately; solving runs on gini's background goroutine so the
// context deadline can stop a hopeless round early.
type giniBackend struct {
	g *gini.Gini
}

func newGiniBackend() *giniBackend {
	return &giniBackend{g: gini.New()}
}

func (b *giniBackend) EnsureVarCount(n int) {
	for b.g.MaxVar() < z.Var(n) {
		b.g.Lit()
	}
}

func (b *giniBackend) AddClauses(clauses [][]int) {
	for _, cl := range clauses {
		for _, l := range cl {
			b.g.Add(z.Dimacs2Lit(l))
		}
		b.g.Add(z.LitNull)
	}
}

func (b *giniBackend) Solve(ctx context.Context) Verdict {
	if ctx.Done() == nil {
		return giniVerdict(b.g.Solve())
	}
	gs := b.g.GoSolve()
	t := time.NewTicker(50 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return giniVerdict(gs.Stop())
		case <-t.C:
			if result, ok := gs.Test(); ok {
				return giniVerdict(result)
			}
		}
	}
}

func (b *giniBackend) TrueInAssignment(lit int) bool {
	return b.g.Value(z.Dimacs2Lit(lit))
}

func giniVerdict(result int) Verdict {
	switch result {
	case 1:
		return VerdictSat
	case -1:
		return VerdictUnsat
	}
	return VerdictUnknown
}

// gophersatBackend adapts the gophersat solver, which wants the whole
// problem up front: clauses are buffered and compiled at Solve time.
type gophersatBackend struct {
	nbVars  int
	clauses [][]int
	model   []bool
}

func newGophersatBackend() *gophersatBackend {
	return &gophersatBackend{}
}

func (b *gophersatBackend) EnsureVarCount(n int) {
	if n > b.nbVars {
		b.nbVars = n
	}
}

func (b *gophersatBackend) AddClauses(clauses [][]int) {
	b.clauses = append(b.clauses, clauses...)
}

func (b *gophersatBackend) Solve(ctx context.Context) Verdict {
	if err := ctx.Err(); err != nil {
		return VerdictUnknown
	}
	cnf := b.clauses
	if b.nbVars > 0 {
		// Tautology on the top variable, so the compiled problem spans
		// the full variable range even when no clause mentions it.
		cnf = append(cnf, []int{b.nbVars, -b.nbVars})
	}
	s := solver.New(solver.ParseSlice(cnf))
	switch s.Solve() {
	case solver.Sat:
		b.model = s.Model()
		return VerdictSat
	case solver.Unsat:
		return VerdictUnsat
	}
	return VerdictUnknown
}

func (b *gophersatBackend) TrueInAssignment(lit int) bool {
	v := lit
	if v < 0 {
		v = -v
	}
	if v < 1 || v > len(b.model) {
		return false
	}
	val := b.model[v-1]
	if lit < 0 {
		return !val
	}
	return val
}
