// Package validation checks an ontology snapshot for structural defects and
// completeness gaps.
//
// Findings come in three tiers. Errors are defects that make the ontology
// unusable (dangling edges, unlabeled entities, untyped relationships).
// Warnings flag likely mistakes (isolated entities, unregistered custom
// types). Suggestions are improvements, some of which carry a remediation
// callback.
//
// A report is data, not an error: Validate returns an error only when the
// run itself could not happen.
package validation

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/observability"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine runs the validation rules. At most one run is in flight at a
// time; a second call while one is running is rejected rather than queued.
type Engine struct {
	running atomic.Bool
	logger  *log.Logger

	// beforeRule is called before each rule runs. Tests use it to hold a
	// run open.
	beforeRule func(name string)
}

// New returns an engine.
func New(opts ...Option) *Engine {
	e := &Engine{logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsValidating reports whether a run is in flight.
func (e *Engine) IsValidating() bool { return e.running.Load() }

// Validate checks o and returns a report. o is treated as an immutable
// snapshot. fix, if non-nil, backs the remediation of suggestions that
// can be applied automatically.
//
// A concurrent call fails immediately with CONCURRENT_OPERATION. Context
// cancellation is checked between rules.
func (e *Engine) Validate(ctx context.Context, o *ontology.Ontology, fix Fixer) (*Report, error) {
	if o == nil {
		return nil, errs.New(errs.ErrCodeNoActiveOntology, "no ontology to validate")
	}
	hooks := observability.Validation()
	if !e.running.CompareAndSwap(false, true) {
		hooks.OnValidationRejected(ctx, o.ID)
		return nil, errs.New(errs.ErrCodeConcurrentOperation, "validation already in progress")
	}
	defer e.running.Store(false)

	start := time.Now()
	hooks.OnValidationStart(ctx, o.ID)

	r := &Report{}
	for _, rl := range rules {
		if err := ctx.Err(); err != nil {
			hooks.OnValidationComplete(ctx, o.ID, 0, 0, time.Since(start), err)
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "validation interrupted before %s", rl.name)
		}
		if e.beforeRule != nil {
			e.beforeRule(rl.name)
		}
		rl.check(o, r, fix)
	}
	r.IsValid = len(r.Errors) == 0

	hooks.OnValidationComplete(ctx, o.ID, len(r.Errors), len(r.Warnings), time.Since(start), nil)
	e.logger.Debug("validation finished",
		"ontology", o.ID,
		"errors", len(r.Errors),
		"warnings", len(r.Warnings),
		"suggestions", len(r.Suggestions),
		"took", time.Since(start))
	return r, nil
}
