package ontology

import (
	"slices"
)

// StandardRelationship enumerates the fixed relationship vocabulary shared by
// every ontology. The zero value is not a valid relationship.
type StandardRelationship uint8

const (
	RelIsA StandardRelationship = iota + 1
	RelPartOf
	RelHasPart
	RelHasProperty
	RelRelatesTo
	RelDependsOn
	RelInstanceOf
	RelEquivalentTo
	RelDisjointWith
	RelAnnotates
)

var standardTokens = [...]string{
	RelIsA:          "is_a",
	RelPartOf:       "part_of",
	RelHasPart:      "has_part",
	RelHasProperty:  "has_property",
	RelRelatesTo:    "relates_to",
	RelDependsOn:    "depends_on",
	RelInstanceOf:   "instance_of",
	RelEquivalentTo: "equivalent_to",
	RelDisjointWith: "disjoint_with",
	RelAnnotates:    "annotates",
}

var standardByToken = func() map[string]StandardRelationship {
	m := make(map[string]StandardRelationship, len(standardTokens))
	for i, tok := range standardTokens {
		if tok != "" {
			m[tok] = StandardRelationship(i)
		}
	}
	return m
}()

// String returns the token for s, or "" if s is not a known value.
func (s StandardRelationship) String() string {
	if !s.Valid() {
		return ""
	}
	return standardTokens[s]
}

// Valid reports whether s is one of the declared constants.
func (s StandardRelationship) Valid() bool {
	return s > 0 && int(s) < len(standardTokens)
}

// StandardRelationships returns every standard relationship in declaration order.
func StandardRelationships() []StandardRelationship {
	out := make([]StandardRelationship, 0, len(standardTokens)-1)
	for i := 1; i < len(standardTokens); i++ {
		out = append(out, StandardRelationship(i))
	}
	return out
}

// LookupStandard returns the standard relationship named by token.
func LookupStandard(token string) (StandardRelationship, bool) {
	s, ok := standardByToken[token]
	return s, ok
}

// IsStandardToken reports whether token belongs to the fixed vocabulary.
func IsStandardToken(token string) bool {
	_, ok := standardByToken[token]
	return ok
}

// RelationshipType is either a [StandardRelationship] or a custom token.
// The zero value means "no relationship type chosen yet".
type RelationshipType struct {
	standard StandardRelationship
	custom   string
}

// Standard wraps a standard relationship.
func Standard(s StandardRelationship) RelationshipType {
	return RelationshipType{standard: s}
}

// Custom wraps a custom token. Tokens that name a standard relationship are
// folded into the standard variant so the two never overlap.
func Custom(token string) RelationshipType {
	if s, ok := LookupStandard(token); ok {
		return RelationshipType{standard: s}
	}
	return RelationshipType{custom: token}
}

// ParseRelationshipType maps a token to its variant. The empty token yields
// the zero value.
func ParseRelationshipType(token string) RelationshipType {
	if token == "" {
		return RelationshipType{}
	}
	return Custom(token)
}

// IsZero reports whether no relationship type is set.
func (r RelationshipType) IsZero() bool { return r.standard == 0 && r.custom == "" }

// IsCustom reports whether r is a custom token.
func (r RelationshipType) IsCustom() bool { return r.custom != "" }

// Standard returns the standard relationship when r is one.
func (r RelationshipType) Standard() (StandardRelationship, bool) {
	return r.standard, r.standard != 0
}

// Token returns the wire token of r.
func (r RelationshipType) Token() string {
	if r.custom != "" {
		return r.custom
	}
	return r.standard.String()
}

// String implements fmt.Stringer.
func (r RelationshipType) String() string { return r.Token() }

// MarshalText implements encoding.TextMarshaler.
func (r RelationshipType) MarshalText() ([]byte, error) {
	return []byte(r.Token()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RelationshipType) UnmarshalText(text []byte) error {
	*r = ParseRelationshipType(string(text))
	return nil
}

// StandardTokens returns the standard vocabulary tokens in declaration order.
func StandardTokens() []string { return slices.Clone(standardTokens[1:]) }
