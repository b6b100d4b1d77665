package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/vocabulary"
	"github.com/matzehuels/ontoforge/pkg/workspace"
)

// =============================================================================
// Nodes
// =============================================================================

// nodeOpts holds the editable node fields shared by "node add" and
// "node set". Only flags the user actually passed are applied.
type nodeOpts struct {
	label       string
	entityType  string
	description string
	content     string
	noteType    string
	source      string
	x, y        float64
}

func (o *nodeOpts) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.label, "label", "l", "", "display label")
	cmd.Flags().StringVarP(&o.entityType, "type", "t", "", "entity or data type")
	cmd.Flags().StringVarP(&o.description, "description", "d", "", "description")
	cmd.Flags().StringVar(&o.content, "content", "", "note content")
	cmd.Flags().StringVar(&o.noteType, "note-type", "", "note type: general, todo, question, decision, reference")
	cmd.Flags().StringVar(&o.source, "source", "", "external reference source")
}

// patch builds a data patch from the flags that were set on cmd.
func (o *nodeOpts) patch(cmd *cobra.Command) (graphstore.NodeDataPatch, error) {
	var p graphstore.NodeDataPatch
	set := cmd.Flags().Changed
	if set("label") {
		p.Label = &o.label
	}
	if set("type") {
		p.EntityType = &o.entityType
	}
	if set("description") {
		p.Description = &o.description
	}
	if set("content") {
		p.Content = &o.content
	}
	if set("source") {
		p.Source = &o.source
	}
	if set("note-type") {
		nt, ok := ontology.ParseNoteType(o.noteType)
		if !ok {
			return p, errs.New(errs.ErrCodeInvalidInput, "unknown note type %q", o.noteType)
		}
		p.NoteType = &nt
	}
	return p, nil
}

func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Add, edit and remove nodes of the active ontology",
	}

	cmd.AddCommand(c.nodeAddCommand())
	cmd.AddCommand(c.nodeSetCommand())
	cmd.AddCommand(c.nodeRemoveCommand())
	cmd.AddCommand(c.nodeListCommand())

	return cmd
}

func (c *CLI) nodeAddCommand() *cobra.Command {
	var opts nodeOpts

	cmd := &cobra.Command{
		Use:       "add <kind>",
		Short:     "Add a node (entity, data_property, note, external_reference)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: nodeKindTokens(),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := opts.patch(cmd)
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				n, err := ws.DropNode(args[0], ontology.Position{X: opts.x, Y: opts.y})
				if err != nil {
					return err
				}
				if !patch.IsEmpty() {
					ws.Graph().UpdateNodeData(n.ID, patch)
					n, _ = ws.Graph().Node(n.ID)
				}
				printSuccess("Added %s %s", n.Kind, StyleHighlight.Render(n.DisplayLabel()))
				printDetail("ID: %s", n.ID)
				return nil
			})
		},
	}

	opts.bind(cmd)
	cmd.Flags().Float64Var(&opts.x, "x", 0, "x position")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "y position")

	return cmd
}

func (c *CLI) nodeSetCommand() *cobra.Command {
	var opts nodeOpts

	cmd := &cobra.Command{
		Use:   "set <node-id>",
		Short: "Edit node fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := opts.patch(cmd)
			if err != nil {
				return err
			}
			moved := cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				if err := requireActive(ws); err != nil {
					return err
				}
				g := ws.Graph()
				n, ok := g.Node(args[0])
				if !ok {
					return errs.New(errs.ErrCodeNotFound, "node %s not found", args[0])
				}
				if moved {
					pos := n.Position
					if cmd.Flags().Changed("x") {
						pos.X = opts.x
					}
					if cmd.Flags().Changed("y") {
						pos.Y = opts.y
					}
					g.UpdateNodePositions(map[string]ontology.Position{n.ID: pos})
				}
				// Routed through the edit scheduler; Save flushes it.
				if !patch.IsEmpty() {
					if err := ws.ScheduleNodeEdit(n.ID, patch); err != nil {
						return err
					}
				}
				printSuccess("Updated %s", n.ID)
				return nil
			})
		},
	}

	opts.bind(cmd)
	cmd.Flags().Float64Var(&opts.x, "x", 0, "x position")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "y position")

	return cmd
}

func (c *CLI) nodeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <node-id>...",
		Aliases: []string{"delete"},
		Short:   "Remove nodes and their edges",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				if err := requireActive(ws); err != nil {
					return err
				}
				before := len(ws.Active().Edges)
				n := ws.DeleteElements(args, nil)
				if n == 0 {
					return errs.New(errs.ErrCodeNotFound, "no matching nodes")
				}
				printSuccess("Removed %d node(s)", n)
				if cascaded := before - len(ws.Active().Edges); cascaded > 0 {
					printDetail("%d incident edge(s) removed", cascaded)
				}
				return nil
			})
		},
	}
}

func (c *CLI) nodeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List nodes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), false, func(ctx context.Context, ws *workspace.Workspace) error {
				if err := requireActive(ws); err != nil {
					return err
				}
				for _, n := range ws.Graph().Nodes() {
					fmt.Printf("  %-24s %-20s %s\n", n.ID, StyleDim.Render(string(n.Kind)), n.DisplayLabel())
				}
				return nil
			})
		},
	}
}

func nodeKindTokens() []string {
	out := make([]string, len(ontology.NodeKinds))
	for i, k := range ontology.NodeKinds {
		out[i] = string(k)
	}
	return out
}

// =============================================================================
// Edges
// =============================================================================

func (c *CLI) edgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Connect and disconnect nodes of the active ontology",
	}

	cmd.AddCommand(c.edgeAddCommand())
	cmd.AddCommand(c.edgeRemoveCommand())
	cmd.AddCommand(c.edgeListCommand())

	return cmd
}

func (c *CLI) edgeAddCommand() *cobra.Command {
	var relType string
	var strength float64

	cmd := &cobra.Command{
		Use:   "add <source> <target>",
		Short: "Connect two nodes",
		Long: `Connect two nodes. Connections to or from a note become note
connections. Everything else is a relationship and needs --type, which may
be a standard type (is_a, part_of, ...) or a custom one. Unknown custom
types are registered on the fly.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				res, err := ws.Connect(args[0], args[1])
				if err != nil {
					return err
				}
				e := res.Edge
				if res.Pending != nil {
					token := vocabulary.Normalize(relType)
					if token == "" {
						return errs.New(errs.ErrCodeInvalidInput, "relationship type required (--type)")
					}
					created, err := ws.CompleteConnection(*res.Pending, ontology.ParseRelationshipType(token))
					if err != nil {
						return err
					}
					e = &created
				}
				if cmd.Flags().Changed("strength") {
					ws.Graph().UpdateEdgeData(e.ID, graphstore.EdgeDataPatch{
						Strength: graphstore.Ptr(ontology.ClampStrength(strength)),
					})
				}
				printSuccess("Connected %s %s %s", args[0], StyleDim.Render(edgeLabel(*e)), args[1])
				printDetail("ID: %s", e.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&relType, "type", "t", "", "relationship type")
	cmd.Flags().Float64Var(&strength, "strength", ontology.DefaultStrength, "relationship strength in [0,1]")

	return cmd
}

func (c *CLI) edgeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <edge-id>...",
		Aliases: []string{"delete"},
		Short:   "Remove edges",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				if err := requireActive(ws); err != nil {
					return err
				}
				n := ws.DeleteElements(nil, args)
				if n == 0 {
					return errs.New(errs.ErrCodeNotFound, "no matching edges")
				}
				printSuccess("Removed %d edge(s)", n)
				return nil
			})
		},
	}
}

func (c *CLI) edgeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List edges",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), false, func(ctx context.Context, ws *workspace.Workspace) error {
				if err := requireActive(ws); err != nil {
					return err
				}
				for _, e := range ws.Graph().Edges() {
					fmt.Printf("  %-24s %s %s %s\n", e.ID, e.Source, StyleDim.Render(iconArrow+" "+edgeLabel(e)), e.Target)
				}
				return nil
			})
		},
	}
}

func edgeLabel(e ontology.Edge) string {
	if e.Kind == ontology.EdgeKindNoteConnection {
		return "annotates"
	}
	return vocabulary.Describe(e.Data.RelationshipType).Label
}

// =============================================================================
// Relationship Types
// =============================================================================

func (c *CLI) typesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List relationship types of the active ontology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), false, func(ctx context.Context, ws *workspace.Workspace) error {
				if err := requireActive(ws); err != nil {
					return err
				}
				fmt.Println(StyleTitle.Render("Standard"))
				for _, info := range vocabulary.Standards() {
					fmt.Printf("  %-16s %s\n", info.Type.Token(), StyleDim.Render(info.Description))
				}
				custom := ws.Vocabulary().Custom()
				if len(custom) > 0 {
					printNewline()
					fmt.Println(StyleTitle.Render("Custom"))
					for _, tok := range custom {
						fmt.Printf("  %s\n", tok)
					}
				}
				if orphaned := vocabulary.Orphaned(ws.Active()); len(orphaned) > 0 {
					printNewline()
					printWarning("Used but not registered: %s", strings.Join(orphaned, ", "))
				}
				return nil
			})
		},
	}

	cmd.AddCommand(c.typesAddCommand())
	cmd.AddCommand(c.typesRemoveCommand())

	return cmd
}

func (c *CLI) typesAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Register a custom relationship type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				if err := requireActive(ws); err != nil {
					return err
				}
				token, added, err := ws.Vocabulary().EnsureCustomRelationshipType(args[0])
				if err != nil {
					return err
				}
				if !added {
					printInfo("%s is already available", token)
					return nil
				}
				printSuccess("Registered %s", StyleHighlight.Render(token))
				return nil
			})
		},
	}
}

func (c *CLI) typesRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <token>",
		Short: "Unregister a custom relationship type (edges keep it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				if err := requireActive(ws); err != nil {
					return err
				}
				if !ws.Vocabulary().RemoveCustomRelationshipType(args[0]) {
					return errs.New(errs.ErrCodeNotFound, "custom type %s not registered", args[0])
				}
				printSuccess("Unregistered %s", args[0])
				return nil
			})
		},
	}
}
