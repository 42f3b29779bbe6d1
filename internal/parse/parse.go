// Package parse reads problem files in the flattened clause format
// consumed by the finite-model search. The format deliberately accepts
// only what the search can encode — flattening, Skolemization, and sort
// inference happen upstream and are out of scope here.
//
// The format is line-oriented:
//
//	# comment
//	pred P 1
//	func f 2
//	func a 0
//	clause P(X) | ~Q(X)
//	clause f(X,Y) = Z | X = Y
//	clause a != X | ~P(X)
//
// Identifiers beginning with an uppercase letter are variables, scoped
// to their clause; everything else in an argument or equation position
// must be a declared symbol. Arity-0 symbols may not begin with an
// uppercase letter, since they appear bare where a variable would.
// Predicate literals are negated with a leading '~', equalities and
// function assignments with '!='.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gitrdm/finmodel/pkg/finmodel"
)

// Problem reads a whole problem from r.
func Problem(r io.Reader) (*finmodel.Problem, error) {
	sig := finmodel.NewSignature()
	var clauses []*finmodel.Clause

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		keyword := fields[0]
		rest := ""
		if len(fields) == 2 {
			rest = strings.TrimSpace(fields[1])
		}
		var err error
		switch keyword {
		case "pred", "func":
			err = declaration(sig, keyword, rest)
		case "clause":
			var c *finmodel.Clause
			if c, err = clause(sig, rest); err == nil {
				clauses = append(clauses, c)
			}
		default:
			err = fmt.Errorf("unknown keyword %q", keyword)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	p := finmodel.NewProblem(sig)
	for _, c := range clauses {
		p.AddClause(c)
	}
	return p, nil
}

func declaration(sig *finmodel.Signature, keyword, rest string) error {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return fmt.Errorf("%s wants a name and an arity, got %q", keyword, rest)
	}
	name := fields[0]
	arity, err := strconv.Atoi(fields[1])
	if err != nil || arity < 0 {
		return fmt.Errorf("bad arity %q for %s %s", fields[1], keyword, name)
	}
	// Arity-0 symbols appear as bare identifiers in clause bodies, where
	// an uppercase first letter reads as a variable; higher-arity symbols
	// always carry an argument list and cannot be confused.
	if arity == 0 && isVariable(name) {
		return fmt.Errorf("arity-0 symbol %q must not begin with an uppercase letter", name)
	}
	if keyword == "pred" {
		_, err = sig.AddPredicate(name, arity)
	} else {
		_, err = sig.AddFunction(name, arity)
	}
	return err
}

// vars maps clause-local variable names to dense indices in order of
// first appearance.
type vars map[string]int

func (v vars) index(name string) int {
	if i, ok := v[name]; ok {
		return i
	}
	i := len(v)
	v[name] = i
	return i
}

func clause(sig *finmodel.Signature, rest string) (*finmodel.Clause, error) {
	v := vars{}
	var lits []finmodel.Literal
	for _, part := range strings.Split(rest, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty literal in clause %q", rest)
		}
		lit, err := literal(sig, v, part)
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)
	}
	return finmodel.NewClause(lits...), nil
}

func literal(sig *finmodel.Signature, v vars, s string) (finmodel.Literal, error) {
	var zero finmodel.Literal

	negated := strings.HasPrefix(s, "~")
	if negated {
		s = strings.TrimSpace(s[1:])
	}

	lhs, rhs, positive, isEquation := splitEquation(s)
	if isEquation {
		if negated {
			return zero, fmt.Errorf("%q: use '!=' to negate an equation, not '~'", s)
		}
		rhs = strings.TrimSpace(rhs)
		if !isVariable(rhs) {
			return zero, fmt.Errorf("%q: right-hand side %q must be a variable (flattened form)", s, rhs)
		}
		lhs = strings.TrimSpace(lhs)
		if isVariable(lhs) {
			return finmodel.NewEqLiteral(positive, v.index(lhs), v.index(rhs)), nil
		}
		name, args, err := application(lhs)
		if err != nil {
			return zero, err
		}
		sym, ok := sig.Lookup(name)
		if !ok {
			return zero, fmt.Errorf("undeclared symbol %q", name)
		}
		if sym.Kind() != finmodel.Function {
			return zero, fmt.Errorf("%q is a predicate, not a function", name)
		}
		argIdx, err := variableIndices(v, args)
		if err != nil {
			return zero, err
		}
		return finmodel.NewFuncLiteral(sym, positive, v.index(rhs), argIdx...), nil
	}

	name, args, err := application(s)
	if err != nil {
		return zero, err
	}
	sym, ok := sig.Lookup(name)
	if !ok {
		return zero, fmt.Errorf("undeclared symbol %q", name)
	}
	if sym.Kind() != finmodel.Predicate {
		return zero, fmt.Errorf("%q is a function; write %s(...) = Var", name, name)
	}
	argIdx, err := variableIndices(v, args)
	if err != nil {
		return zero, err
	}
	return finmodel.NewPredLiteral(sym, !negated, argIdx...), nil
}

// splitEquation splits "lhs = rhs" or "lhs != rhs", reporting polarity.
// The '=' inside "!=" is the only '=' the format allows per literal.
func splitEquation(s string) (lhs, rhs string, positive, ok bool) {
	if i := strings.Index(s, "!="); i >= 0 {
		return s[:i], s[i+2:], false, true
	}
	if i := strings.Index(s, "="); i >= 0 {
		return s[:i], s[i+1:], true, true
	}
	return "", "", false, false
}

// application splits "name(a,b,c)" or a bare "name" into its parts.
func application(s string) (name string, args []string, err error) {
	open := strings.Index(s, "(")
	if open < 0 {
		return s, nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("malformed application %q", s)
	}
	name = s[:open]
	inner := strings.TrimSpace(s[open+1 : len(s)-1])
	if inner == "" {
		return name, nil, nil
	}
	for _, a := range strings.Split(inner, ",") {
		args = append(args, strings.TrimSpace(a))
	}
	return name, args, nil
}

func variableIndices(v vars, args []string) ([]int, error) {
	idx := make([]int, 0, len(args))
	for _, a := range args {
		if !isVariable(a) {
			return nil, fmt.Errorf("argument %q must be a variable (flattened form)", a)
		}
		idx = append(idx, v.index(a))
	}
	return idx, nil
}

func isVariable(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
