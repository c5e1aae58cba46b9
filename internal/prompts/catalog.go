package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chris/journal/internal/journal"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

var (
	ErrEmptyCategory   = errors.New("prompt category is empty")
	ErrUnknownCategory = errors.New("unknown prompt category")
)

type Prompt struct {
	Text     string
	Category journal.Category
}

// Catalog is the fixed, ordered prompt set. It is immutable once built; the
// order of each list is the rotation order.
type Catalog struct {
	selfAwareness []string
	connection    []string
}

type catalogFile struct {
	SelfAwareness []string `yaml:"self_awareness"`
	Connection    []string `yaml:"connection"`
}

// New builds a catalog from the two category lists. Both must be non-empty and
// contain no blank prompts.
func New(selfAwareness, connection []string) (*Catalog, error) {
	sa, err := clean(journal.SelfAwareness, selfAwareness)
	if err != nil {
		return nil, err
	}
	conn, err := clean(journal.Connection, connection)
	if err != nil {
		return nil, err
	}
	return &Catalog{selfAwareness: sa, connection: conn}, nil
}

func clean(cat journal.Category, list []string) ([]string, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCategory, cat)
	}
	out := make([]string, len(list))
	for i, p := range list {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%s prompt %d is blank", cat, i)
		}
		out[i] = p
	}
	return out, nil
}

// Parse decodes a YAML catalog. Unknown top-level keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing prompt catalog: %w", err)
	}
	return New(f.SelfAwareness, f.Connection)
}

// Load reads a catalog file, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Prompts returns a copy of one category's list in rotation order.
func (c *Catalog) Prompts(cat journal.Category) ([]string, error) {
	list, err := c.list(cat)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}

func (c *Catalog) Len(cat journal.Category) int {
	list, _ := c.list(cat)
	return len(list)
}

func (c *Catalog) list(cat journal.Category) ([]string, error) {
	switch cat {
	case journal.SelfAwareness:
		return c.selfAwareness, nil
	case journal.Connection:
		return c.connection, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
}
