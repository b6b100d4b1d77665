package vocabulary

import (
	"fmt"
	"slices"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/graphstore"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Registry edits the custom relationship types of the ontology held by a
// graph store.
//
// AddCustomRelationshipType appends without de-duplicating; callers that
// take free-form input should go through EnsureCustomRelationshipType,
// which normalizes and checks for an existing entry first.
type Registry struct {
	store *graphstore.Store
}

// NewRegistry returns a registry over store.
func NewRegistry(store *graphstore.Store) *Registry {
	return &Registry{store: store}
}

// AddCustomRelationshipType appends token to the custom list. Empty tokens
// and tokens from the standard vocabulary are rejected. A token that is
// already registered is appended again.
func (r *Registry) AddCustomRelationshipType(token string) error {
	if token == "" {
		return errs.New(errs.ErrCodeInvalidToken, "relationship type cannot be empty")
	}
	if ontology.IsStandardToken(token) {
		return errs.Wrap(errs.ErrCodeInvalidToken, ontology.ErrStandardTokenAsCustom, "%q", token)
	}
	return r.store.Apply(func(o *ontology.Ontology) error {
		o.CustomRelationshipTypes = append(o.CustomRelationshipTypes, token)
		return nil
	})
}

// RemoveCustomRelationshipType removes every occurrence of token. Edges that
// use it keep the token and show up as orphaned in validation. It returns
// false if token was not registered.
func (r *Registry) RemoveCustomRelationshipType(token string) bool {
	if !r.Has(token) {
		return false
	}
	err := r.store.Apply(func(o *ontology.Ontology) error {
		o.CustomRelationshipTypes = slices.DeleteFunc(o.CustomRelationshipTypes, func(t string) bool {
			return t == token
		})
		return nil
	})
	return err == nil
}

// EnsureCustomRelationshipType normalizes raw and registers it unless it is
// already present. It returns the normalized token and whether it was added.
// Standard tokens are reported as present without being added.
func (r *Registry) EnsureCustomRelationshipType(raw string) (token string, added bool, err error) {
	token = Normalize(raw)
	if err := errs.ValidateToken(token); err != nil {
		return token, false, err
	}
	if ontology.IsStandardToken(token) || r.Has(token) {
		return token, false, nil
	}
	if err := r.AddCustomRelationshipType(token); err != nil {
		return token, false, fmt.Errorf("register %q: %w", token, err)
	}
	return token, true, nil
}

// Has reports whether token is registered as custom.
func (r *Registry) Has(token string) bool {
	return slices.Contains(r.store.CustomRelationshipTypes(), token)
}

// Custom returns the registered custom tokens in insertion order, including
// any duplicates.
func (r *Registry) Custom() []string {
	return r.store.CustomRelationshipTypes()
}

// All returns the standard types followed by the distinct custom ones.
func (r *Registry) All() []ontology.RelationshipType {
	std := ontology.StandardRelationships()
	out := make([]ontology.RelationshipType, 0, len(std))
	for _, s := range std {
		out = append(out, ontology.Standard(s))
	}
	seen := make(map[string]bool)
	for _, tok := range r.store.CustomRelationshipTypes() {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, ontology.Custom(tok))
	}
	return out
}

// Orphaned returns the distinct custom tokens used by edges but not
// registered, in order of first use.
func Orphaned(o *ontology.Ontology) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range o.Edges {
		rt := e.Data.RelationshipType
		if !rt.IsCustom() {
			continue
		}
		tok := rt.Token()
		if seen[tok] || o.HasCustomRelationshipType(tok) {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
