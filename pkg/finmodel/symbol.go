// Package finmodel decides finite satisfiability of a first-order clause
// set by searching, for increasing domain sizes, a propositional encoding
// of "does a model of this size exist", delegating each decision to a
// backend SAT solver.
//
// This file defines the Symbol and Signature abstractions. A symbol is a
// predicate or a function; functions are viewed uniformly as relations of
// arity+1 relating their inputs to one output value, which lets predicates
// and functions share all enumeration and axiom machinery.
package finmodel

import "fmt"

// SymbolKind distinguishes predicate symbols from function symbols.
// Constants are function symbols of arity zero.
type SymbolKind int

const (
	// Predicate is a boolean relation over arity domain elements.
	Predicate SymbolKind = iota

	// Function relates arity input elements to one output element.
	// Its relational view has arity+1 dimensions, output last.
	Function
)

func (k SymbolKind) String() string {
	switch k {
	case Predicate:
		return "predicate"
	case Function:
		return "function"
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

// Symbol is one predicate or function symbol of a problem signature.
// Symbols carry optional per-argument (and, for functions, output) sort
// bounds supplied by an upstream sort-inference step; a bound of zero
// means "no bound known" and falls back to the full domain size.
//
// Symbols are created through a Signature and are immutable afterwards
// except for the bound setters, which are part of problem setup.
type Symbol struct {
	name      string
	kind      SymbolKind
	arity     int
	argBounds []int
	outBound  int
	index     int
}

// Name returns the symbol's name.
func (s *Symbol) Name() string { return s.name }

// Kind returns whether the symbol is a predicate or a function.
func (s *Symbol) Kind() SymbolKind { return s.kind }

// Arity returns the number of input arguments.
func (s *Symbol) Arity() int { return s.arity }

// IsConstant reports whether the symbol is a function of arity zero.
func (s *Symbol) IsConstant() bool { return s.kind == Function && s.arity == 0 }

// Dims returns the number of dimensions of the symbol's relational view:
// arity for predicates, arity+1 for functions (the output is one extra
// dimension).
func (s *Symbol) Dims() int {
	if s.kind == Function {
		return s.arity + 1
	}
	return s.arity
}

// DimBound returns the sort bound of relational dimension i, or zero if
// no bound is known. For functions the last dimension is the output.
func (s *Symbol) DimBound(i int) int {
	if s.kind == Function && i == s.arity {
		return s.outBound
	}
	return s.argBounds[i]
}

// SetArgBound records the sort bound of input argument i.
// Bounds are normally supplied by sort inference before search begins.
func (s *Symbol) SetArgBound(i, bound int) {
	s.argBounds[i] = bound
}

// SetOutBound records the sort bound of the function's output value.
// Calling this on a predicate symbol is a setup error and panics.
func (s *Symbol) SetOutBound(bound int) {
	if s.kind != Function {
		panic(fmt.Sprintf("SetOutBound on %s %q", s.kind, s.name))
	}
	s.outBound = bound
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s/%d", s.name, s.arity)
}

// Signature is the enumerable list of all symbols of a problem.
// The order in which symbols are added is the order used for address
// allocation and for the symmetry ledger, so it is part of the problem
// definition and never changes after setup.
type Signature struct {
	symbols []*Symbol
	byName  map[string]*Symbol
}

// NewSignature creates an empty signature.
func NewSignature() *Signature {
	return &Signature{byName: make(map[string]*Symbol)}
}

func (sig *Signature) add(name string, kind SymbolKind, arity int) (*Symbol, error) {
	if _, ok := sig.byName[name]; ok {
		return nil, fmt.Errorf("symbol %q declared twice", name)
	}
	if arity < 0 {
		return nil, fmt.Errorf("symbol %q has negative arity %d", name, arity)
	}
	sym := &Symbol{
		name:      name,
		kind:      kind,
		arity:     arity,
		argBounds: make([]int, arity),
		index:     len(sig.symbols),
	}
	sig.symbols = append(sig.symbols, sym)
	sig.byName[name] = sym
	return sym, nil
}

// AddPredicate declares a predicate symbol with the given arity.
func (sig *Signature) AddPredicate(name string, arity int) (*Symbol, error) {
	return sig.add(name, Predicate, arity)
}

// AddFunction declares a function symbol with the given arity.
// An arity of zero declares a constant.
func (sig *Signature) AddFunction(name string, arity int) (*Symbol, error) {
	return sig.add(name, Function, arity)
}

// Lookup returns the symbol with the given name, if declared.
func (sig *Signature) Lookup(name string) (*Symbol, bool) {
	sym, ok := sig.byName[name]
	return sym, ok
}

// Symbols returns all symbols in declaration order.
// The returned slice is shared and must not be modified.
func (sig *Signature) Symbols() []*Symbol { return sig.symbols }

// Functions returns all function symbols (constants included) in
// declaration order.
func (sig *Signature) Functions() []*Symbol {
	var fs []*Symbol
	for _, s := range sig.symbols {
		if s.kind == Function {
			fs = append(fs, s)
		}
	}
	return fs
}

// Constants returns all arity-zero function symbols in declaration order.
func (sig *Signature) Constants() []*Symbol {
	var cs []*Symbol
	for _, s := range sig.symbols {
		if s.IsConstant() {
			cs = append(cs, s)
		}
	}
	return cs
}

// NonConstantFunctions returns all function symbols of arity one or more
// in declaration order.
func (sig *Signature) NonConstantFunctions() []*Symbol {
	var fs []*Symbol
	for _, s := range sig.symbols {
		if s.kind == Function && s.arity > 0 {
			fs = append(fs, s)
		}
	}
	return fs
}
