package errors

import (
	"strings"
	"testing"
)

func TestValidateOntologyName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Enterprise Ontology", false},
		{"unicode", "Ontologie für Verträge", false},
		{"punctuation", "Risk (v2) - draft", false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 201), true},
		{"newline", "foo\nbar", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOntologyName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOntologyName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateOntologyName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "manages", false},
		{"snake case", "manages_workflow", false},
		{"digits", "version_2", false},

		{"empty", "", true},
		{"uppercase", "Manages", true},
		{"starts with digit", "2nd_order", true},
		{"spaces", "manages workflow", true},
		{"hyphen", "manages-workflow", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToken(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateToken(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"json", "enterprise-ontology.json", false},
		{"svg", "diagram.svg", false},

		{"empty", "", true},
		{"with path /", "path/to/file.json", true},
		{"with path \\", "path\\file.json", true},
		{"traversal", "..json", true},
		{"hidden file", ".secret.json", true},
		{"control char", "a\x01.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
