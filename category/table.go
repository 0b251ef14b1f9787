package category

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/categories/assets"
)

// DefaultAssetPath is where the game keeps its category table.
const DefaultAssetPath = "assets/category/categories.yaml"

var (
	ErrConfigurationMissing = errors.New("category: configuration missing")
	ErrInvalidTable         = errors.New("category: invalid table")
	ErrUnknownCategory      = errors.New("category: unknown category")
)

// Table is the ordered list of category names. A name's index is its bit
// position in a Mask. Tables are immutable; the editing methods return copies.
type Table struct {
	guid  string
	names []string
	index map[string]int
}

type tableAsset struct {
	GUID       string   `yaml:"guid"`
	Categories []string `yaml:"categories"`
}

// NewTable builds a validated table with a fresh asset GUID.
func NewTable(names ...string) (*Table, error) {
	return newTable(uuid.NewString(), names)
}

func newTable(guid string, names []string) (*Table, error) {
	if len(names) > MaxCategories {
		return nil, fmt.Errorf("%w: %d categories, at most %d fit in a mask", ErrInvalidTable, len(names), MaxCategories)
	}
	t := &Table{
		guid:  guid,
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: empty name at index %d", ErrInvalidTable, i)
		}
		if prev, ok := t.index[name]; ok {
			return nil, fmt.Errorf("%w: %q appears at index %d and %d", ErrInvalidTable, name, prev, i)
		}
		t.index[name] = i
		t.names = append(t.names, name)
	}
	return t, nil
}

// LoadTable reads the category asset at path. The on-disk file wins over the
// embedded default. A missing asset is reported as ErrConfigurationMissing.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		path = DefaultAssetPath
	}
	data, err := assets.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigurationMissing, path)
		}
		return nil, fmt.Errorf("category: load %s: %w", path, err)
	}
	t, err := DecodeTable(data)
	if err != nil {
		return nil, fmt.Errorf("category: load %s: %w", path, err)
	}
	return t, nil
}

// DefaultNames returns the category names of the embedded default asset.
func DefaultNames() ([]string, error) {
	data, err := assets.LoadEmbedded(DefaultAssetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: embedded default: %w", ErrConfigurationMissing, err)
	}
	t, err := DecodeTable(data)
	if err != nil {
		return nil, err
	}
	return t.Names(), nil
}

// DecodeTable parses a YAML category asset.
func DecodeTable(data []byte) (*Table, error) {
	var asset tableAsset
	if err := yaml.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	return newTable(asset.GUID, asset.Categories)
}

// Encode renders the table in the asset format.
func (t *Table) Encode() ([]byte, error) {
	return yaml.Marshal(tableAsset{GUID: t.guid, Categories: t.Names()})
}

// Save writes the table to path, creating parent directories.
func (t *Table) Save(path string) error {
	data, err := t.Encode()
	if err != nil {
		return fmt.Errorf("category: encode table: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("category: save %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("category: save %s: %w", path, err)
	}
	return nil
}

func (t *Table) GUID() string {
	if t == nil {
		return ""
	}
	return t.guid
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Names returns a copy of the names in bit order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.names)
}

func (t *Table) Name(i int) (string, bool) {
	if t == nil || i < 0 || i >= len(t.names) {
		return "", false
	}
	return t.names[i], true
}

// Index resolves a name to its bit position.
func (t *Table) Index(name string) (int, bool) {
	if t == nil {
		return -1, false
	}
	i, ok := t.index[name]
	if !ok {
		return -1, false
	}
	return i, true
}

// MaskOf combines the bits of the named categories.
func (t *Table) MaskOf(names ...string) (Mask, error) {
	var m Mask
	for _, name := range names {
		i, ok := t.Index(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		m = m.With(i)
	}
	return m, nil
}

// NamesOf lists the names of the bits set in m. Bits past the end of the
// table have no name and are skipped.
func (t *Table) NamesOf(m Mask) []string {
	out := make([]string, 0, m.Count())
	for _, i := range m.Bits() {
		if name, ok := t.Name(i); ok {
			out = append(out, name)
		}
	}
	return out
}

// Overflow returns the bits of m that lie past the end of the table.
func (t *Table) Overflow(m Mask) Mask {
	n := t.Len()
	if n >= MaxCategories {
		return 0
	}
	return m &^ (Mask(1)<<uint(n) - 1)
}

// Add returns a copy of the table with name appended.
func (t *Table) Add(name string) (*Table, error) {
	return newTable(t.GUID(), append(t.Names(), name))
}

// Remove returns a copy of the table without name. Names after it move down
// one bit, so masks authored against the old table change meaning.
func (t *Table) Remove(name string) (*Table, error) {
	i, ok := t.Index(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	names := t.Names()
	return newTable(t.GUID(), slices.Delete(names, i, i+1))
}
