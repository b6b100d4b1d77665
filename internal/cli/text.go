package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoforge/pkg/dualview"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/workspace"
)

// textCommand exposes the text side of the dual view.
func (c *CLI) textCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Edit the active ontology as text",
	}

	cmd.AddCommand(c.textShowCommand())
	cmd.AddCommand(c.textApplyCommand())
	cmd.AddCommand(c.textFormatsCommand())

	return cmd
}

func (c *CLI) textShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the graph in a text format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), false, func(ctx context.Context, ws *workspace.Workspace) error {
				if err := requireActive(ws); err != nil {
					return err
				}
				dv := ws.DualView()
				if format != "" {
					if err := dv.SetTextFormat(format); err != nil {
						return err
					}
				}
				if err := dv.SetViewMode(dualview.ModeText); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), dv.State().TextContent)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "text format (default from config)")

	return cmd
}

func (c *CLI) textApplyCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "apply <file|->",
		Short: "Replace the graph with the contents of a text file",
		Long: `Parse a text document and replace the nodes, edges and custom
relationship types of the active ontology. Metadata is kept. Nothing changes
when the document does not parse or is inconsistent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				if err := requireActive(ws); err != nil {
					return err
				}
				dv := ws.DualView()
				if format != "" {
					if err := dv.SetTextFormat(format); err != nil {
						return err
					}
				}
				if err := dv.SetViewMode(dualview.ModeText); err != nil {
					return err
				}
				dv.SetTextContent(content)
				if err := dv.SyncViews(); err != nil {
					return err
				}
				printSuccess("Graph updated from %s", dv.State().TextFormat)
				printStats(ws.Active())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "text format (default from config)")

	return cmd
}

func (c *CLI) textFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List available text formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range dualview.DefaultFormats().Names() {
				marker := "  "
				if name == c.cfg.Editor.TextFormat {
					marker = StyleActive.Render("● ")
				}
				fmt.Println(marker + name)
			}
			return nil
		},
	}
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidPath, err, "read %s", path)
	}
	return string(data), nil
}
