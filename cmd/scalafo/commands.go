package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dkoosis/scalafo/internal/detect"
	"github.com/dkoosis/scalafo/internal/report"
	"github.com/dkoosis/scalafo/internal/version"
	"github.com/dkoosis/scalafo/pkg/mapper"
	"github.com/dkoosis/scalafo/pkg/pattern"
	"github.com/dkoosis/scalafo/pkg/sarif"
	"github.com/dkoosis/scalafo/pkg/scalastyle"
	"github.com/dkoosis/scalafo/pkg/source"
	"github.com/dkoosis/scalafo/pkg/xunit"
)

var errPathsRequired = errors.New("--paths is required for coverage input")

// runAuto sniffs the input and dispatches on its format.
func (a *app) runAuto(_ *cobra.Command, args []string) error {
	input, err := a.readInput(args)
	if err != nil {
		return err
	}

	format := detect.Sniff(input)
	a.log.Debug("input format detected", "format", format.String(), "bytes", len(input))

	var patterns []pattern.Pattern
	switch format {
	case detect.Scalastyle:
		patterns, err = a.lintPatterns(input)
	case detect.Cobertura:
		patterns, err = a.coveragePatterns(input)
	case detect.JUnit:
		var results []xunit.Result
		results, err = xunit.ParseBytes(input)
		patterns = mapper.FromTests(results)
	case detect.SARIF:
		var doc *sarif.Document
		if doc, err = sarif.ReadBytes(input); err == nil {
			patterns = mapper.FromSARIF(doc)
		}
	case detect.Report:
		patterns, err = a.reportPatterns(input)
	default:
		return errors.New("unrecognized input format (expected scalastyle output, Cobertura XML, JUnit XML, SARIF or a delimited report)")
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", format, err)
	}
	a.emit(patterns)
	return nil
}

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [file]",
		Short: "Render scalastyle output",
		Long: `Lint parses scalastyle batch output from a file or stdin. Syntax-error
reports carry a character offset instead of a line; the line is recovered
from the source file under --root.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			input, err := a.readInput(args)
			if err != nil {
				return err
			}
			patterns, err := a.lintPatterns(input)
			if err != nil {
				return fmt.Errorf("parsing scalastyle output: %w", err)
			}
			a.emit(patterns)
			return nil
		},
	}
}

func (a *app) lintPatterns(input []byte) ([]pattern.Pattern, error) {
	diags, err := a.parseDiagnostics(input)
	if err != nil {
		return nil, err
	}
	return mapper.FromDiagnostics(diags), nil
}

func (a *app) parseDiagnostics(input []byte) ([]scalastyle.Diagnostic, error) {
	diags, err := scalastyle.NewParser(a.fs()).Parse(bytes.NewReader(input))
	if source.IsNotExist(err) {
		return nil, fmt.Errorf("%w (is --root %q the project root?)", err, a.cfg.ProjectRoot)
	}
	if err != nil {
		return nil, err
	}
	a.log.Debug("scalastyle output parsed", "diagnostics", len(diags))
	return diags, nil
}

func newCoverageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "coverage --paths a.scala,b.scala [cobertura.xml]",
		Short: "Render per-line coverage for the files under review",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			input, err := a.readInput(args)
			if err != nil {
				return err
			}
			patterns, err := a.coveragePatterns(input)
			if err != nil {
				return err
			}
			a.emit(patterns)
			return nil
		},
	}
}

func (a *app) coveragePatterns(input []byte) ([]pattern.Pattern, error) {
	if len(a.paths) == 0 {
		return nil, errPathsRequired
	}
	cov, err := a.reconstructor().Reconstruct(input, a.pathSet())
	if err != nil {
		return nil, err
	}
	return mapper.FromCoverage(cov), nil
}

func newTestCmd(a *app) *cobra.Command {
	var coveragePath string
	cmd := &cobra.Command{
		Use:   "test [--coverage cobertura.xml --paths ...] report.xml...",
		Short: "Render JUnit test reports, optionally with coverage",
		Long: `Test parses one or more JUnit XML reports in parallel. With --coverage the
Cobertura report is reconstructed for --paths and attached to every result.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := parseReports(cmd.Context(), args)
			if err != nil {
				return err
			}
			if coveragePath != "" {
				if len(a.paths) == 0 {
					return errPathsRequired
				}
				doc, err := a.readInput([]string{coveragePath})
				if err != nil {
					return err
				}
				cov, err := a.reconstructor().Reconstruct(doc, a.pathSet())
				if err != nil {
					return fmt.Errorf("%s: %w", coveragePath, err)
				}
				xunit.AttachCoverage(results, cov)
			}
			a.log.Debug("test reports parsed", "files", len(args), "results", len(results))
			a.emit(mapper.FromTests(results))
			return nil
		},
	}
	cmd.Flags().StringVar(&coveragePath, "coverage", "", "Cobertura XML report to attach to the results")
	return cmd
}

// parseReports parses report files concurrently and returns their results
// in argument order.
func parseReports(ctx context.Context, paths []string) ([]xunit.Result, error) {
	perFile := make([][]xunit.Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(runtime.NumCPU(), len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results, err := xunit.ParseFile(path)
			if err != nil {
				return err
			}
			perFile[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []xunit.Result
	for _, rs := range perFile {
		all = append(all, rs...)
	}
	return all, nil
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report [file]",
		Short: "Render a delimited multi-tool review report",
		Long: `Report splits input on delimiter lines of the form

  --- tool:<name> format:<scalastyle|cobertura|junit|sarif> [status:<pass|fail>] ---

and renders each section. A section that fails to parse is shown as an
error without hiding the others.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			input, err := a.readInput(args)
			if err != nil {
				return err
			}
			patterns, err := a.reportPatterns(input)
			if err != nil {
				return err
			}
			a.emit(patterns)
			return nil
		},
	}
}

func (a *app) reportPatterns(input []byte) ([]pattern.Pattern, error) {
	sections, err := report.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	a.log.Debug("report split", "sections", len(sections))
	return mapper.FromReport(sections, mapper.Options{
		FS:         a.fs(),
		Paths:      a.pathSet(),
		SourceRoot: a.cfg.SourceRoot,
	}), nil
}

func newWrapCmd(a *app) *cobra.Command {
	wrap := &cobra.Command{
		Use:   "wrap <target>",
		Short: "Convert tool output to another format",
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("wrap: missing target (expected sarif)")
			}
			return fmt.Errorf("wrap: unknown target %q (expected sarif)", args[0])
		},
	}
	wrap.AddCommand(&cobra.Command{
		Use:   "sarif [file]",
		Short: "Convert scalastyle output to SARIF 2.1.0",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			input, err := a.readInput(args)
			if err != nil {
				return err
			}
			diags, err := a.parseDiagnostics(input)
			if err != nil {
				return fmt.Errorf("parsing scalastyle output: %w", err)
			}
			if _, err := sarif.FromDiagnostics(diags, version.Version).WriteTo(a.stdout); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	})
	return wrap
}
