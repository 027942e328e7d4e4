package taxonomy

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Document is the on-disk schema of a taxonomy. YAML and JSON are accepted.
type Document struct {
	SchemaVersion int                 `koanf:"schema_version"`
	Name          string              `koanf:"name"`
	Version       string              `koanf:"version"`
	Codes         []string            `koanf:"codes"`
	Keywords      map[string][]string `koanf:"keywords"`
}

// Build validates the document and returns the taxonomy it describes
func (d Document) Build() (*Taxonomy, error) {
	if d.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema_version %d", ErrInvalidTaxonomy, d.SchemaVersion)
	}
	return New(d.Name, d.Version, d.Codes, d.Keywords)
}

// Load reads and validates a taxonomy document from path
func Load(path string) (*Taxonomy, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("taxonomy file: %w", err)
	}
	return load(file.Provider(path), path)
}

// Parse validates a taxonomy document held in memory
func Parse(data []byte) (*Taxonomy, error) {
	return load(bytesProvider(data), "document")
}

func load(p koanf.Provider, source string) (*Taxonomy, error) {
	// koanf keeps key case, the codes in the keywords map are case sensitive
	k := koanf.New(".")
	if err := k.Load(p, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", source, err)
	}

	var doc Document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode taxonomy %s: %w", source, err)
	}
	return doc.Build()
}

// Encode renders t as a YAML document accepted by Load
func Encode(t *Taxonomy) ([]byte, error) {
	doc := t.Document()
	keywords := make(map[string]interface{}, len(doc.Keywords))
	for code, kws := range doc.Keywords {
		keywords[code] = kws
	}
	return yaml.Parser().Marshal(map[string]interface{}{
		"schema_version": doc.SchemaVersion,
		"name":           doc.Name,
		"version":        doc.Version,
		"codes":          doc.Codes,
		"keywords":       keywords,
	})
}

type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) {
	return b, nil
}

func (b bytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("bytes provider does not support Read")
}
