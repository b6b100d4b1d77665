package ontology

import (
	"encoding/json"
	"testing"
)

func TestParseRelationshipType(t *testing.T) {
	tests := []struct {
		token      string
		wantZero   bool
		wantCustom bool
		wantStd    StandardRelationship
	}{
		{token: "", wantZero: true},
		{token: "is_a", wantStd: RelIsA},
		{token: "annotates", wantStd: RelAnnotates},
		{token: "manages_workflow", wantCustom: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			rt := ParseRelationshipType(tt.token)
			if rt.IsZero() != tt.wantZero {
				t.Errorf("IsZero() = %v, want %v", rt.IsZero(), tt.wantZero)
			}
			if rt.IsCustom() != tt.wantCustom {
				t.Errorf("IsCustom() = %v, want %v", rt.IsCustom(), tt.wantCustom)
			}
			std, ok := rt.Standard()
			if ok != (tt.wantStd != 0) || std != tt.wantStd {
				t.Errorf("Standard() = %v, %v, want %v", std, ok, tt.wantStd)
			}
			if rt.Token() != tt.token {
				t.Errorf("Token() = %q, want %q", rt.Token(), tt.token)
			}
		})
	}
}

func TestCustomFoldsStandardTokens(t *testing.T) {
	if rt := Custom("part_of"); rt.IsCustom() || rt != Standard(RelPartOf) {
		t.Errorf("Custom(part_of) = %#v, want standard variant", rt)
	}
}

func TestStandardVocabulary(t *testing.T) {
	all := StandardRelationships()
	tokens := StandardTokens()
	if len(all) != len(tokens) || len(all) != 10 {
		t.Fatalf("vocabulary size = %d/%d, want 10", len(all), len(tokens))
	}
	for i, s := range all {
		if !s.Valid() {
			t.Errorf("%v should be valid", s)
		}
		if s.String() != tokens[i] {
			t.Errorf("String() = %q, want %q", s.String(), tokens[i])
		}
		if !IsStandardToken(tokens[i]) {
			t.Errorf("IsStandardToken(%q) = false", tokens[i])
		}
	}
	if StandardRelationship(0).Valid() || StandardRelationship(200).Valid() {
		t.Error("out-of-range values must be invalid")
	}
	if StandardRelationship(200).String() != "" {
		t.Error("invalid value should stringify to empty")
	}
}

func TestRelationshipTypeJSON(t *testing.T) {
	type wrapper struct {
		RT RelationshipType `json:"rt"`
	}
	for _, rt := range []RelationshipType{Standard(RelDependsOn), Custom("manages_workflow")} {
		data, err := json.Marshal(wrapper{RT: rt})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var back wrapper
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if back.RT != rt {
			t.Errorf("round trip = %#v, want %#v", back.RT, rt)
		}
	}
}
