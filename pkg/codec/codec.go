package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// Extension is the file extension of exported documents.
const Extension = ".json"

// Marshal encodes o as an indented JSON document.
func Marshal(o *ontology.Ontology) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes o as an indented JSON document and writes it to w.
func Write(w io.Writer, o *ontology.Ontology) error {
	if o == nil {
		return errs.New(errs.ErrCodeInvalidInput, "no ontology to serialize")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromOntology(o)); err != nil {
		return errs.Wrap(errs.ErrCodeSerialize, err, "encode ontology %s", o.ID)
	}
	return nil
}

// ExportFile writes o to a JSON file at path.
func ExportFile(o *ontology.Ontology, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, o)
}

// Unmarshal decodes and validates a JSON document.
func Unmarshal(data []byte) (*ontology.Ontology, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a JSON document from r, validates its shape and checks
// referential integrity. On failure no ontology is returned.
func Read(r io.Reader) (*ontology.Ontology, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode ontology document")
	}
	return Decode(&doc)
}

// Decode validates doc and converts it to an ontology.
func Decode(doc *Document) (*ontology.Ontology, error) {
	if err := Validate(doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid ontology document")
	}
	o := doc.ToOntology()
	if err := o.CheckIntegrity(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeIntegrityViolation, err, "ontology %s", o.ID)
	}
	return o, nil
}

// ImportFile reads an ontology from a JSON file at path.
func ImportFile(path string) (*ontology.Ontology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Filename returns the export filename for o: its name lower-cased with
// runs of non-alphanumerics replaced by hyphens, plus [Extension]. Ontologies
// without a usable name export as "ontology.json".
func Filename(o *ontology.Ontology) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(o.Name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	slug := b.String()
	if slug == "" {
		slug = "ontology"
	}
	return slug + Extension
}
