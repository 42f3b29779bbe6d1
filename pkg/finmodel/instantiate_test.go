package finmodel

import (
	"reflect"
	"sort"
	"testing"
)

func buildCodec(t *testing.T, sig *Signature, n int) *Codec {
	t.Helper()
	table, err := NewAddressTable(sig, n)
	if err != nil {
		t.Fatalf("NewAddressTable(n=%d): %v", n, err)
	}
	return NewCodec(table)
}

func TestClauseSet_DuplicateLiteralRemoval(t *testing.T) {
	set := &ClauseSet{}
	set.Add([]int{3, -5, 3, 7, -5})

	got := set.Clauses()
	if len(got) != 1 {
		t.Fatalf("clause count = %d, want 1", len(got))
	}
	if !reflect.DeepEqual(got[0], []int{3, -5, 7}) {
		t.Errorf("deduplicated clause = %v, want [3 -5 7]", got[0])
	}
}

func TestClauseSet_DropsEmpty(t *testing.T) {
	set := &ClauseSet{}
	set.Add(nil)
	set.Add([]int{})
	if set.Len() != 0 {
		t.Fatalf("empty clauses must be dropped, got %d clauses", set.Len())
	}
}

func TestClauseSet_CopiesBuffer(t *testing.T) {
	set := &ClauseSet{}
	buf := []int{1, 2}
	set.Add(buf)
	buf[0] = 99
	if set.Clauses()[0][0] != 1 {
		t.Error("Add must copy the caller's buffer")
	}
}

func TestInstantiator_GroundPassThrough(t *testing.T) {
	sig := NewSignature()
	p, _ := sig.AddPredicate("p", 0)
	q, _ := sig.AddPredicate("q", 0)

	codec := buildCodec(t, sig, 2)
	set := &ClauseSet{}
	in := NewInstantiator(codec, set)
	in.GroundPassThrough([]*Clause{
		NewClause(NewPredLiteral(p, true), NewPredLiteral(q, false)),
	})

	want := [][]int{{codec.Encode(p, nil, true), codec.Encode(q, nil, false)}}
	if !reflect.DeepEqual(set.Clauses(), want) {
		t.Errorf("ground translation = %v, want %v", set.Clauses(), want)
	}
}

// TestInstantiator_AllTuples: one open clause over two unbounded
// variables yields exactly n^2 instances.
func TestInstantiator_AllTuples(t *testing.T) {
	sig := NewSignature()
	q, _ := sig.AddPredicate("Q", 2)

	codec := buildCodec(t, sig, 3)
	set := &ClauseSet{}
	in := NewInstantiator(codec, set)

	c := NewClause(NewPredLiteral(q, true, 0, 1))
	if err := c.deriveBounds(); err != nil {
		t.Fatalf("deriveBounds: %v", err)
	}
	in.Instantiate(c, 3)

	if set.Len() != 9 {
		t.Fatalf("instance count = %d, want 9", set.Len())
	}
}

// TestInstantiator_RespectsBounds: a bounded argument restricts the
// grounding range of its variable.
func TestInstantiator_RespectsBounds(t *testing.T) {
	sig := NewSignature()
	p, _ := sig.AddPredicate("P", 1)
	p.SetArgBound(0, 2)

	codec := buildCodec(t, sig, 4)
	set := &ClauseSet{}
	in := NewInstantiator(codec, set)

	c := NewClause(NewPredLiteral(p, true, 0))
	if err := c.deriveBounds(); err != nil {
		t.Fatalf("deriveBounds: %v", err)
	}
	in.Instantiate(c, 4)

	if set.Len() != 2 {
		t.Fatalf("instance count = %d, want 2 (bound 2 at n=4)", set.Len())
	}
}

// TestInstantiator_EqualityShortCircuit covers both equality outcomes:
// a grounding that makes the equality true is abandoned entirely, one
// that makes it false keeps the remaining literals only.
func TestInstantiator_EqualityShortCircuit(t *testing.T) {
	sig := NewSignature()
	q, _ := sig.AddPredicate("Q", 2)

	codec := buildCodec(t, sig, 2)
	set := &ClauseSet{}
	in := NewInstantiator(codec, set)

	// Q(X0,X1) | X0=X1: groundings with X0=X1 are vacuous, the others
	// lose the equality literal.
	c := NewClause(NewPredLiteral(q, true, 0, 1), NewEqLiteral(true, 0, 1))
	if err := c.deriveBounds(); err != nil {
		t.Fatalf("deriveBounds: %v", err)
	}
	in.Instantiate(c, 2)

	got := set.Clauses()
	want := [][]int{
		{codec.Encode(q, []int{1, 2}, true)},
		{codec.Encode(q, []int{2, 1}, true)},
	}
	sortClauses(got)
	sortClauses(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("instances = %v, want %v", got, want)
	}
}

// TestInstantiator_NegatedEquality is the mirror case: X0!=X1 is true
// exactly when the grounding differs, so those groundings are vacuous.
func TestInstantiator_NegatedEquality(t *testing.T) {
	sig := NewSignature()
	q, _ := sig.AddPredicate("Q", 2)

	codec := buildCodec(t, sig, 2)
	set := &ClauseSet{}
	in := NewInstantiator(codec, set)

	c := NewClause(NewPredLiteral(q, true, 0, 1), NewEqLiteral(false, 0, 1))
	if err := c.deriveBounds(); err != nil {
		t.Fatalf("deriveBounds: %v", err)
	}
	in.Instantiate(c, 2)

	got := set.Clauses()
	want := [][]int{
		{codec.Encode(q, []int{1, 1}, true)},
		{codec.Encode(q, []int{2, 2}, true)},
	}
	sortClauses(got)
	sortClauses(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("instances = %v, want %v", got, want)
	}
}

// TestInstantiator_VacuousDropped: a clause that is a single positive
// equality produces nothing but vacuous or empty instances; under the
// drop rule nothing is emitted at all.
func TestInstantiator_VacuousDropped(t *testing.T) {
	sig := NewSignature()
	codec := buildCodec(t, sig, 3)
	set := &ClauseSet{}
	in := NewInstantiator(codec, set)

	c := NewClause(NewEqLiteral(true, 0, 1))
	if err := c.deriveBounds(); err != nil {
		t.Fatalf("deriveBounds: %v", err)
	}
	in.Instantiate(c, 3)

	if set.Len() != 0 {
		t.Fatalf("expected no instances, got %v", set.Clauses())
	}
}

// TestInstantiator_FunctionAssign checks the (args..., out) grounding
// layout of function-assignment literals.
func TestInstantiator_FunctionAssign(t *testing.T) {
	sig := NewSignature()
	f, _ := sig.AddFunction("f", 1)

	codec := buildCodec(t, sig, 2)
	set := &ClauseSet{}
	in := NewInstantiator(codec, set)

	// f(X0) = X1 as a unit clause over both variables.
	c := NewClause(NewFuncLiteral(f, true, 1, 0))
	if err := c.deriveBounds(); err != nil {
		t.Fatalf("deriveBounds: %v", err)
	}
	in.Instantiate(c, 2)

	if set.Len() != 4 {
		t.Fatalf("instance count = %d, want 4", set.Len())
	}
	// The (X0=2, X1=1) grounding must encode input 2, output 1.
	want := codec.Encode(f, []int{2, 1}, true)
	found := false
	for _, cl := range set.Clauses() {
		if len(cl) == 1 && cl[0] == want {
			found = true
		}
	}
	if !found {
		t.Errorf("no instance encodes f(2)=1 as %d: %v", want, set.Clauses())
	}
}

func sortClauses(cs [][]int) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
}
