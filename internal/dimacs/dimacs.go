// Package dimacs writes propositional clause sets in DIMACS CNF format.
// This package contains internal tooling for dumping the clause set a
// search round hands to its SAT backend, so a round can be replayed
// against external solvers when debugging.
package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Write emits a clause set as DIMACS CNF: the problem line, then one
// zero-terminated line per clause. Literals are signed integers.
func Write(w io.Writer, varCount int, clauses [][]int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", varCount, len(clauses)); err != nil {
		return err
	}
	for _, cl := range clauses {
		for _, lit := range cl {
			bw.WriteString(strconv.Itoa(lit))
			bw.WriteByte(' ')
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
