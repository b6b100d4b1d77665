package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoforge/pkg/cache"
	"github.com/matzehuels/ontoforge/pkg/codec"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/ontology"
	"github.com/matzehuels/ontoforge/pkg/render"
	"github.com/matzehuels/ontoforge/pkg/workspace"
)

// Export formats.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
)

var exportFormats = []string{formatJSON, formatDOT, formatSVG, formatPDF, formatPNG}

// importCommand reads an ontology document into the workspace.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import an ontology document and make it active",
		Long: `Import an ontology JSON document. An ontology with the same ID
replaces the existing one; otherwise it is appended. The document must be
self-consistent: every edge has to reference existing nodes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), true, func(ctx context.Context, ws *workspace.Workspace) error {
				prog := newProgress(loggerFromContext(ctx))
				o, err := ws.ImportFile(ctx, args[0])
				if err != nil {
					return err
				}
				prog.done("Imported " + filepath.Base(args[0]))
				printSuccess("Imported %s", StyleHighlight.Render(o.Name))
				printStats(o)
				return nil
			})
		},
	}
}

// exportOpts holds the flags of the export command.
type exportOpts struct {
	output    string
	format    string
	detailed  bool
	positions bool
	scale     float64
	noCache   bool
}

// exportCommand writes the active ontology as a document or diagram.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{format: formatJSON, scale: 2}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the active ontology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.withSession(cmd.Context(), false, func(ctx context.Context, ws *workspace.Workspace) error {
				return runExport(ctx, ws, c.newRenderer(opts.noCache), &opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default derived from the ontology name)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(exportFormats, ", "))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include types and properties in diagram labels")
	cmd.Flags().BoolVar(&opts.positions, "positions", false, "pin diagram nodes to their canvas positions")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render diagrams without the cache")

	return cmd
}

func validateFormat(f string) error {
	for _, ok := range exportFormats {
		if f == ok {
			return nil
		}
	}
	return errs.New(errs.ErrCodeUnsupported, "unknown format %q (use: %s)", f, strings.Join(exportFormats, ", "))
}

func runExport(ctx context.Context, ws *workspace.Workspace, r *render.Renderer, opts *exportOpts) error {
	if err := requireActive(ws); err != nil {
		return err
	}
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var (
		data []byte
		name string
		err  error
	)
	if opts.format == formatJSON {
		var buf bytes.Buffer
		if name, err = ws.Export(ctx, &buf); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		ws.FlushEdits()
		o := ws.Active()
		name = strings.TrimSuffix(codec.Filename(o), ".json") + "." + opts.format
		if data, err = renderDiagram(ctx, r, o, opts); err != nil {
			return err
		}
	}

	out := opts.output
	if out == "" {
		out = name
	} else if err := errs.ValidateFilename(filepath.Base(out)); err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", out)
	}

	prog.done(fmt.Sprintf("Exported %s", opts.format))
	printSuccess("Exported %s", opts.format)
	printFile(out)
	return nil
}

func renderDiagram(ctx context.Context, r *render.Renderer, o *ontology.Ontology, opts *exportOpts) ([]byte, error) {
	dot := render.ToDOT(o, render.Options{Detailed: opts.detailed, UsePositions: opts.positions})
	if opts.format == formatDOT {
		return []byte(dot), nil
	}
	svg, cached, err := r.SVG(ctx, dot)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeSerialize, err, "render svg")
	}
	loggerFromContext(ctx).Debug("rendered diagram", "cached", cached)
	switch opts.format {
	case formatPDF:
		return render.ToPDF(svg)
	case formatPNG:
		return render.ToPNG(svg, opts.scale)
	}
	return svg, nil
}

// newRenderer returns a diagram renderer backed by the file cache, or by
// no cache when noCache is set or the cache directory is unusable.
func (c *CLI) newRenderer(noCache bool) *render.Renderer {
	if noCache {
		return render.NewRenderer(nil, c.Logger)
	}
	fc, err := openFileCache()
	if err != nil {
		c.Logger.Debug("diagram cache disabled", "error", err)
		return render.NewRenderer(nil, c.Logger)
	}
	return render.NewRenderer(fc, c.Logger)
}

func openFileCache() (*cache.FileCache, error) {
	dir, err := cache.DefaultDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}
