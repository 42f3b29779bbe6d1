package finmodel

import (
	"errors"
	"strings"
	"testing"
)

func TestClause_GroundPartitioning(t *testing.T) {
	sig := NewSignature()
	p0, _ := sig.AddPredicate("p", 0)
	p1, _ := sig.AddPredicate("P", 1)

	prob := NewProblem(sig)
	prob.AddClause(NewClause(NewPredLiteral(p0, true)))
	prob.AddClause(NewClause(NewPredLiteral(p1, true, 0)))

	if got := len(prob.GroundClauses()); got != 1 {
		t.Errorf("ground clauses: %d, want 1", got)
	}
	if got := len(prob.OpenClauses()); got != 1 {
		t.Errorf("open clauses: %d, want 1", got)
	}
}

func TestClause_VarCount(t *testing.T) {
	sig := NewSignature()
	q, _ := sig.AddPredicate("Q", 2)
	f, _ := sig.AddFunction("f", 1)

	c := NewClause(
		NewPredLiteral(q, true, 0, 2),
		NewFuncLiteral(f, false, 4, 1),
	)
	if got := c.VarCount(); got != 5 {
		t.Errorf("VarCount = %d, want 5", got)
	}
	if c.IsGround() {
		t.Error("clause with variables reported ground")
	}
}

func TestClause_ValidateArityMismatch(t *testing.T) {
	sig := NewSignature()
	p, _ := sig.AddPredicate("P", 2)

	c := NewClause(NewPredLiteral(p, true, 0)) // one arg, arity two
	err := c.validate()
	if !errors.Is(err, ErrBadClause) {
		t.Fatalf("arity mismatch should fail with ErrBadClause, got %v", err)
	}
}

func TestClause_ValidateKindMismatch(t *testing.T) {
	sig := NewSignature()
	f, _ := sig.AddFunction("f", 1)
	p, _ := sig.AddPredicate("P", 1)

	if err := NewClause(NewPredLiteral(f, true, 0)).validate(); !errors.Is(err, ErrBadClause) {
		t.Errorf("function used as predicate should fail, got %v", err)
	}
	if err := NewClause(NewFuncLiteral(p, true, 1, 0)).validate(); !errors.Is(err, ErrBadClause) {
		t.Errorf("predicate used as function should fail, got %v", err)
	}
}

func TestClause_DeriveBounds(t *testing.T) {
	sig := NewSignature()
	p, _ := sig.AddPredicate("P", 1)
	f, _ := sig.AddFunction("f", 1)
	p.SetArgBound(0, 2)
	f.SetArgBound(0, 3)
	f.SetOutBound(2)

	c := NewClause(
		NewPredLiteral(p, true, 0),
		NewFuncLiteral(f, true, 2, 1),
		NewEqLiteral(true, 2, 3),
	)
	if err := c.deriveBounds(); err != nil {
		t.Fatalf("deriveBounds: %v", err)
	}
	want := []int{2, 3, 2, 0} // X3 bound only through equality: unbounded
	for i, b := range want {
		if c.bounds[i] != b {
			t.Errorf("bounds[%d] = %d, want %d", i, c.bounds[i], b)
		}
	}
}

func TestClause_ConflictingBounds(t *testing.T) {
	sig := NewSignature()
	p, _ := sig.AddPredicate("P", 1)
	q, _ := sig.AddPredicate("Q", 1)
	p.SetArgBound(0, 2)
	q.SetArgBound(0, 3)

	c := NewClause(
		NewPredLiteral(p, true, 0),
		NewPredLiteral(q, true, 0),
	)
	if err := c.deriveBounds(); !errors.Is(err, ErrBadClause) {
		t.Fatalf("conflicting bounds should fail with ErrBadClause, got %v", err)
	}
}

func TestClause_PurePositiveEqualities(t *testing.T) {
	pure := NewClause(NewEqLiteral(true, 0, 1), NewEqLiteral(true, 1, 2))
	if !pure.isPurePositiveEqualities() {
		t.Error("pure positive equality clause not recognized")
	}

	withNeg := NewClause(NewEqLiteral(true, 0, 1), NewEqLiteral(false, 1, 2))
	if withNeg.isPurePositiveEqualities() {
		t.Error("negative equality should disqualify the clause")
	}

	reflexive := NewClause(NewEqLiteral(true, 0, 0))
	if reflexive.isPurePositiveEqualities() {
		t.Error("reflexive equality should disqualify the clause")
	}

	if NewClause().isPurePositiveEqualities() {
		t.Error("empty clause should not count as a pure equality clause")
	}
}

func TestProblem_ModelSizeBound(t *testing.T) {
	t.Run("pure equality clause", func(t *testing.T) {
		sig := NewSignature()
		sig.AddFunction("f", 1) // defeats the EPR rule
		prob := NewProblem(sig)
		prob.AddClause(NewClause(NewEqLiteral(true, 0, 1), NewEqLiteral(true, 0, 2)))

		bound, ok := prob.modelSizeBound()
		if !ok || bound != 3 {
			t.Fatalf("bound = %d,%v, want 3,true", bound, ok)
		}
	})

	t.Run("epr constants", func(t *testing.T) {
		sig := NewSignature()
		sig.AddFunction("a", 0)
		sig.AddFunction("b", 0)
		sig.AddPredicate("P", 1)
		prob := NewProblem(sig)

		bound, ok := prob.modelSizeBound()
		if !ok || bound != 2 {
			t.Fatalf("bound = %d,%v, want 2,true", bound, ok)
		}
	})

	t.Run("epr without constants", func(t *testing.T) {
		sig := NewSignature()
		sig.AddPredicate("P", 1)
		prob := NewProblem(sig)

		bound, ok := prob.modelSizeBound()
		if !ok || bound != 1 {
			t.Fatalf("bound = %d,%v, want 1,true", bound, ok)
		}
	})

	t.Run("tightest source wins", func(t *testing.T) {
		sig := NewSignature()
		sig.AddFunction("a", 0)
		sig.AddFunction("b", 0)
		sig.AddFunction("c", 0)
		prob := NewProblem(sig)
		prob.AddClause(NewClause(NewEqLiteral(true, 0, 1)))

		bound, ok := prob.modelSizeBound()
		if !ok || bound != 2 {
			t.Fatalf("bound = %d,%v, want 2,true", bound, ok)
		}
	})

	t.Run("no bound", func(t *testing.T) {
		sig := NewSignature()
		sig.AddFunction("f", 1)
		prob := NewProblem(sig)

		if bound, ok := prob.modelSizeBound(); ok {
			t.Fatalf("no bound expected, got %d", bound)
		}
	})
}

func TestProblem_SetupRefutation(t *testing.T) {
	sig := NewSignature()
	prob := NewProblem(sig)
	prob.AddClause(NewClause())

	refuted, err := prob.setup()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !refuted {
		t.Fatal("empty ground clause should refute at setup")
	}
}

func TestSignature_DuplicateSymbol(t *testing.T) {
	sig := NewSignature()
	if _, err := sig.AddPredicate("P", 1); err != nil {
		t.Fatalf("first declaration: %v", err)
	}
	if _, err := sig.AddFunction("P", 0); err == nil {
		t.Fatal("duplicate name should fail")
	}
}

func TestClause_String(t *testing.T) {
	sig := NewSignature()
	p, _ := sig.AddPredicate("P", 1)
	f, _ := sig.AddFunction("f", 1)

	c := NewClause(
		NewPredLiteral(p, false, 0),
		NewFuncLiteral(f, true, 1, 0),
		NewEqLiteral(true, 0, 1),
	)
	s := c.String()
	for _, want := range []string{"~P(X0)", "f(X0)=X1", "X0=X1"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
