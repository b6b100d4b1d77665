package cli

import (
	"context"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/validation"
	"github.com/matzehuels/ontoforge/pkg/workspace"
)

// validateCommand checks the active ontology and optionally applies the
// fixable suggestions.
func (c *CLI) validateCommand() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the active ontology",
		Long: `Validate the active ontology. Errors make the ontology invalid,
warnings do not. Suggestions marked with + can be applied with --fix.

The command exits with an error when the ontology is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), fix, func(ctx context.Context, ws *workspace.Workspace) error {
				report, err := runValidation(ctx, ws)
				if err != nil {
					return err
				}
				if fix {
					fixed, err := applyFixes(ctx, report)
					if err != nil {
						return err
					}
					if fixed > 0 {
						printSuccess("Applied %d fix(es)", fixed)
						if report, err = runValidation(ctx, ws); err != nil {
							return err
						}
					}
				}
				printReport(report)
				if !report.IsValid {
					return errs.New(errs.ErrCodeIntegrityViolation, "ontology is invalid")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "apply fixable suggestions and save")

	return cmd
}

func runValidation(ctx context.Context, ws *workspace.Workspace) (*validation.Report, error) {
	var report *validation.Report
	err := runWithSpinner(ctx, "Validating...", "Validation finished", func(ctx context.Context) error {
		var err error
		report, err = ws.ValidateOntology(ctx)
		return err
	})
	return report, err
}

// applyFixes runs every remediation in report and returns how many ran.
func applyFixes(ctx context.Context, report *validation.Report) (int, error) {
	fixed := 0
	for _, sg := range report.Suggestions {
		if !sg.Fixable() {
			continue
		}
		if err := sg.Remediation(ctx); err != nil {
			return fixed, err
		}
		loggerFromContext(ctx).Debug("applied suggestion", "suggestion", sg.Message)
		fixed++
	}
	return fixed, nil
}
