// Package finmodel provides finite-domain model search infrastructure.
// This file implements the search controller: the round-based loop that
// grows the domain size until a model is found, the problem is proven to
// have no finite model, or resources run out.
//
// # How a round works
//
// For domain size n the controller rebuilds the address table from
// scratch (an overflow here is a clean give-up, not a fault), regenerates
// the full propositional clause set — ground pass-through, instances of
// every open clause, functionality and totality axioms, and the symmetry
// ledger for every position 1..n, since no SAT state survives between
// rounds — hands it to a fresh backend, and interprets the verdict:
//
//	SAT              -> extract the model, done
//	UNSAT, n >= bound -> refuted: no finite model exists at all
//	UNSAT, otherwise -> discard everything and retry at n+1
//
// The refutation case is the correctness-critical invariant of the whole
// component: it is only ever reported when a maximum-model-size bound was
// actually established at setup and reached.
//
// The search is single-threaded and synchronous. The context deadline is
// checked once per round boundary, so cancellation is coarse-grained: a
// running SAT call is only cut short if the backend itself supports it.
package finmodel

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Status is the terminal outcome of a search.
type Status int

const (
	// StatusSat means a finite model was found.
	StatusSat Status = iota

	// StatusRefuted means the problem provably has no finite model:
	// every domain size up to the established bound is unsatisfiable.
	// This is a genuine decidability result, not resource exhaustion.
	StatusRefuted

	// StatusUnknown means the search gave up (address-space overflow,
	// domain-size ceiling, or a backend that could not decide).
	StatusUnknown

	// StatusTimeLimit means the deadline expired before resolution.
	StatusTimeLimit
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "SAT"
	case StatusRefuted:
		return "REFUTED"
	case StatusUnknown:
		return "UNKNOWN"
	case StatusTimeLimit:
		return "TIME_LIMIT"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of a finite-model search.
type Result struct {
	Status Status

	// Model is the extracted interpretation; non-nil exactly when
	// Status is StatusSat.
	Model *FiniteModel

	// DomainSize is the domain size at which the search concluded or
	// stopped.
	DomainSize int

	// Reason explains a StatusUnknown outcome.
	Reason string
}

// SearchConfig configures a finite-model search.
type SearchConfig struct {
	// Backend names the SAT backend: BackendGini (the default) or
	// BackendGophersat.
	Backend string

	// StartSize is the first domain size tried. Defaults to 1.
	StartSize int

	// MaxDomainSize caps the domain-size iteration; reaching it without
	// resolution yields StatusUnknown rather than looping forever.
	MaxDomainSize int

	// Logger receives per-round progress. Defaults to a discarding
	// logger.
	Logger logrus.FieldLogger

	// OnClauses, when non-nil, observes each round's generated clause
	// set before it is handed to the backend. Used for CNF dumps.
	OnClauses func(domainSize, varCount int, clauses [][]int)
}

// DefaultSearchConfig returns the default search configuration.
func DefaultSearchConfig() *SearchConfig {
	return &SearchConfig{
		Backend:       BackendGini,
		StartSize:     1,
		MaxDomainSize: maxVariable,
	}
}

// Search drives the iterative-deepening model search for one problem.
// All setup work — clause validation, variable-bound derivation, the
// maximum-model-size bound, and the symmetry ledger order — happens once
// in NewSearch and is read-only afterwards.
type Search struct {
	problem *Problem
	config  *SearchConfig
	log     logrus.FieldLogger

	maxModelSize int // 0 when no bound is known
	constants    []*Symbol
	functions    []*Symbol
	refuted      bool
}

// NewSearch prepares a search with the default configuration.
func NewSearch(p *Problem) (*Search, error) {
	return NewSearchWithConfig(p, nil)
}

// NewSearchWithConfig prepares a search. Configuration problems (an
// unknown backend name) and clause-contract breaches surface here, before
// any round runs.
func NewSearchWithConfig(p *Problem, config *SearchConfig) (*Search, error) {
	if config == nil {
		config = DefaultSearchConfig()
	} else {
		// The search owns its configuration; defaults below must not
		// write through to the caller's struct.
		c := *config
		config = &c
	}
	if _, err := newBackend(config.Backend); err != nil {
		return nil, err
	}
	if config.StartSize < 1 {
		config.StartSize = 1
	}
	if config.MaxDomainSize < 1 {
		config.MaxDomainSize = maxVariable
	}
	log := config.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	refuted, err := p.setup()
	if err != nil {
		return nil, err
	}
	s := &Search{
		problem:   p,
		config:    config,
		log:       log,
		constants: p.sig.Constants(),
		functions: p.sig.NonConstantFunctions(),
		refuted:   refuted,
	}
	if bound, ok := p.modelSizeBound(); ok {
		s.maxModelSize = bound
		log.WithField("bound", bound).Debug("detected maximum model size")
	}
	return s, nil
}

// MaxModelSize returns the established maximum-model-size bound, or
// false when none is known.
func (s *Search) MaxModelSize() (int, bool) {
	return s.maxModelSize, s.maxModelSize > 0
}

// Run searches domain sizes StartSize, StartSize+1, ... until a terminal
// outcome is reached. The context deadline is checked at round
// boundaries only.
func (s *Search) Run(ctx context.Context) *Result {
	if s.refuted {
		// An empty ground clause was found during setup; no domain of
		// any size can satisfy it.
		return &Result{Status: StatusRefuted}
	}

	n := s.config.StartSize
	for {
		if ctx.Err() != nil {
			return &Result{Status: StatusTimeLimit, DomainSize: n}
		}

		table, err := NewAddressTable(s.problem.sig, n)
		if err != nil {
			s.log.WithField("size", n).Info("cannot represent all propositional literals")
			return &Result{
				Status:     StatusUnknown,
				DomainSize: n,
				Reason:     fmt.Sprintf("domain size %d: %v", n, err),
			}
		}

		codec := NewCodec(table)
		set := &ClauseSet{}
		inst := NewInstantiator(codec, set)
		gen := NewAxiomGenerator(codec, set)

		inst.GroundPassThrough(s.problem.ground)
		for _, c := range s.problem.open {
			inst.Instantiate(c, n)
		}
		for _, f := range s.problem.sig.Functions() {
			gen.Functionality(f, n)
		}
		for pos := 1; pos <= n; pos++ {
			gen.Symmetry(pos, n, s.constants, s.functions)
		}
		for _, f := range s.problem.sig.Functions() {
			gen.Totality(f, n)
		}

		if s.config.OnClauses != nil {
			s.config.OnClauses(n, table.VarCount(), set.Clauses())
		}

		backend, err := newBackend(s.config.Backend)
		if err != nil {
			// Validated in NewSearchWithConfig; cannot happen.
			panic(err)
		}
		backend.EnsureVarCount(table.VarCount())
		backend.AddClauses(set.Clauses())

		s.log.WithFields(logrus.Fields{
			"size":    n,
			"vars":    table.VarCount(),
			"clauses": set.Len(),
		}).Debug("trying domain size")

		verdict := backend.Solve(ctx)
		s.log.WithFields(logrus.Fields{"size": n, "verdict": verdict.String()}).Debug("round finished")

		switch verdict {
		case VerdictSat:
			model := ExtractModel(codec, backend, s.problem.sig)
			return &Result{Status: StatusSat, Model: model, DomainSize: n}

		case VerdictUnsat:
			if s.maxModelSize > 0 && n >= s.maxModelSize {
				return &Result{Status: StatusRefuted, DomainSize: n}
			}
			if n >= s.config.MaxDomainSize {
				return &Result{
					Status:     StatusUnknown,
					DomainSize: n,
					Reason:     fmt.Sprintf("domain size ceiling %d reached", s.config.MaxDomainSize),
				}
			}
			// The round's clause set and backend are garbage from here;
			// everything is rebuilt from scratch for n+1.
			n++

		default:
			if ctx.Err() != nil {
				return &Result{Status: StatusTimeLimit, DomainSize: n}
			}
			return &Result{
				Status:     StatusUnknown,
				DomainSize: n,
				Reason:     "backend could not decide",
			}
		}
	}
}
