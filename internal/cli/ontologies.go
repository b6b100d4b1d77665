package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/workspace"
)

// newCommand creates an ontology and makes it active.
func (c *CLI) newCommand() *cobra.Command {
	var description, namespace string

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new ontology and make it active",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := graphstore.MetadataPatch{}
			if len(args) == 1 {
				if err := errs.ValidateOntologyName(args[0]); err != nil {
					return err
				}
				patch.Name = &args[0]
			}
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				o := ws.CreateNewOntology()
				if description != "" {
					patch.Description = &description
				}
				if namespace != "" {
					patch.Namespace = &namespace
				}
				ws.Graph().UpdateMetadata(patch)

				printSuccess("Created %s", StyleHighlight.Render(ws.Active().Name))
				printDetail("ID: %s", o.ID)
				printNextStep("Add an entity", appName+" node add entity --label Person")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "ontology description")
	cmd.Flags().StringVar(&namespace, "namespace", "", "namespace IRI (default derived from the ID)")

	return cmd
}

// listCommand prints every ontology in the workspace.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List ontologies in the workspace",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), false, func(ctx context.Context, ws *workspace.Workspace) error {
				items := ws.Ontologies()
				if len(items) == 0 {
					printInfo("Workspace is empty")
					printNextStep("Create one", appName+" new \"My Ontology\"")
					return nil
				}
				active := ws.ActiveID()
				now := time.Now()
				for _, o := range items {
					name := o.Name
					marker := "  "
					if o.ID == active {
						name = StyleActive.Render(name)
						marker = StyleActive.Render("● ")
					}
					fmt.Printf("%s%s  %s  %s\n", marker, name,
						StyleDim.Render(o.ID),
						StyleDim.Render(fmt.Sprintf("%d nodes · %d edges · %s",
							len(o.Nodes), len(o.Edges), formatRelativeTime(o.LastModified, now))))
				}
				return nil
			})
		},
	}
}

// showCommand prints metadata and statistics of one ontology.
func (c *CLI) showCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show an ontology (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), false, func(ctx context.Context, ws *workspace.Workspace) error {
				o, err := pickOntology(ws, args)
				if err != nil {
					return err
				}
				fmt.Println(StyleTitle.Render(o.Name))
				printKeyValue("ID", o.ID)
				if o.Description != "" {
					printKeyValue("Description", o.Description)
				}
				printKeyValue("Version", o.Version)
				printKeyValue("Namespace", o.Namespace)
				if o.Author != "" {
					printKeyValue("Author", o.Author)
				}
				printKeyValue("Modified", o.LastModified.Format(time.RFC3339))
				for _, k := range o.CustomProperties.Keys() {
					printKeyValue(k, fmt.Sprint(o.CustomProperties[k]))
				}
				printStats(o)
				return nil
			})
		},
	}
	cmd.ValidArgsFunction = c.completeOntologyIDs
	return cmd
}

// openCommand activates an ontology, interactively when no ID is given.
func (c *CLI) openCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [id]",
		Short: "Make an ontology active",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				id := ""
				if len(args) == 1 {
					id = args[0]
				} else {
					picked, err := pickInteractive(ctx, ws)
					if err != nil {
						return err
					}
					if picked == nil {
						printInfo("Nothing selected")
						return nil
					}
					id = picked.ID
				}
				if err := ws.SetActive(id); err != nil {
					return err
				}
				printSuccess("Opened %s", StyleHighlight.Render(ws.Active().Name))
				return nil
			})
		},
	}
	cmd.ValidArgsFunction = c.completeOntologyIDs
	return cmd
}

// deleteCommand removes an ontology.
func (c *CLI) deleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an ontology",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				o, ok := ws.Ontology(args[0])
				if !ok || !ws.DeleteOntology(args[0]) {
					return errs.New(errs.ErrCodeOntologyNotFound, "ontology %s not found", args[0])
				}
				printSuccess("Deleted %s", o.Name)
				if ws.ActiveID() == "" {
					printDetail("No ontology is active")
				}
				return nil
			})
		},
	}
	cmd.ValidArgsFunction = c.completeOntologyIDs
	return cmd
}

// duplicateCommand copies an ontology under a new identity.
func (c *CLI) duplicateCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Duplicate an ontology and make the copy active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				o, err := ws.DuplicateOntology(args[0], name)
				if err != nil {
					return err
				}
				printSuccess("Created %s", StyleHighlight.Render(o.Name))
				printDetail("ID: %s", o.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the copy (default \"<name> (Copy)\")")
	cmd.ValidArgsFunction = c.completeOntologyIDs
	return cmd
}

// exampleCommand loads the built-in example ontology.
func (c *CLI) exampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Load the organization example ontology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				o, err := ws.LoadExample()
				if err != nil {
					return err
				}
				printSuccess("Loaded %s", StyleHighlight.Render(o.Name))
				printStats(o)
				printNextStep("Render it", appName+" export -f svg")
				return nil
			})
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

// pickOntology resolves an optional ID argument, falling back to the
// active ontology.
func pickOntology(ws *workspace.Workspace, args []string) (*ontology.Ontology, error) {
	if len(args) == 1 {
		o, ok := ws.Ontology(args[0])
		if !ok {
			return nil, errs.New(errs.ErrCodeOntologyNotFound, "ontology %s not found", args[0])
		}
		return o, nil
	}
	if err := requireActive(ws); err != nil {
		return nil, err
	}
	return ws.Active(), nil
}

// pickInteractive shows the ontology picker. It returns nil when the user
// quits without choosing.
func pickInteractive(ctx context.Context, ws *workspace.Workspace) (*ontology.Ontology, error) {
	items := ws.Ontologies()
	if len(items) == 0 {
		return nil, errs.New(errs.ErrCodeNotFound, "workspace has no ontologies")
	}
	p := tea.NewProgram(NewOntologyListModel(items, ws.ActiveID()), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("ontology picker: %w", err)
	}
	return final.(OntologyListModel).Selected, nil
}
