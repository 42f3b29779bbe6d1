// Command fmb decides finite satisfiability of a flattened first-order
// clause set: it searches growing domain sizes for a finite model,
// reporting the model, a refutation, or that it gave up.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/finmodel/internal/dimacs"
	"github.com/gitrdm/finmodel/internal/parse"
	"github.com/gitrdm/finmodel/pkg/finmodel"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fmb",
		Short:         "finite-domain model builder for first-order clause sets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSolveCmd())
	return root
}

func newSolveCmd() *cobra.Command {
	var (
		backend    string
		maxSize    int
		timeout    time.Duration
		dumpDir    string
		verbose    bool
		printModel bool
	)

	cmd := &cobra.Command{
		Use:   "solve <problem-file>",
		Short: "search for a finite model of the given clause set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			problem, err := parse.Problem(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			config := finmodel.DefaultSearchConfig()
			config.Backend = backend
			config.Logger = log
			if maxSize > 0 {
				config.MaxDomainSize = maxSize
			}
			if dumpDir != "" {
				if err := os.MkdirAll(dumpDir, 0o755); err != nil {
					return err
				}
				config.OnClauses = func(size, varCount int, clauses [][]int) {
					name := filepath.Join(dumpDir, fmt.Sprintf("size-%d.cnf", size))
					out, err := os.Create(name)
					if err != nil {
						log.WithError(err).Warn("cannot dump CNF")
						return
					}
					defer out.Close()
					if err := dimacs.Write(out, varCount, clauses); err != nil {
						log.WithError(err).Warn("cannot dump CNF")
					}
				}
			}

			search, err := finmodel.NewSearchWithConfig(problem, config)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			result := search.Run(ctx)
			out := cmd.OutOrStdout()
			switch result.Status {
			case finmodel.StatusSat:
				fmt.Fprintf(out, "SAT: model of size %d found\n", result.DomainSize)
				if printModel {
					fmt.Fprint(out, result.Model.String())
				}
			case finmodel.StatusRefuted:
				fmt.Fprintf(out, "REFUTED: no finite model exists (checked up to size %d)\n", result.DomainSize)
			case finmodel.StatusTimeLimit:
				fmt.Fprintf(out, "TIME_LIMIT: undecided at size %d\n", result.DomainSize)
			default:
				fmt.Fprintf(out, "UNKNOWN: %s\n", result.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", finmodel.BackendGini, "SAT backend (gini or gophersat)")
	cmd.Flags().IntVar(&maxSize, "max-size", 0, "largest domain size to try (0 = no explicit cap)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall time limit (0 = none)")
	cmd.Flags().StringVar(&dumpDir, "dump-cnf", "", "directory for per-round DIMACS dumps")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-round progress")
	cmd.Flags().BoolVar(&printModel, "model", true, "print the extracted model on SAT")

	return cmd
}
