// Package labels maps raw classifier output indices to human-readable breed
// names. The table ships embedded with the binary and can be replaced at
// deploy time with the table matching the served model artifact.
package labels

import (
	"encoding/json"
	"fmt"
	"os"

	_ "embed"

	"github.com/galder-dev/dogchat/internal/domain"
)

//go:embed breeds.json
var defaultTable []byte

type Table struct {
	names []string
}

// Load returns the label table at path, or the embedded default when path is
// empty.
func Load(path string) (*Table, error) {
	data := defaultTable
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read label table: %w", err)
		}
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse label table: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("label table is empty")
	}
	return &Table{names: names}, nil
}

// Lookup translates a class index into its breed name.
func (t *Table) Lookup(index int) (string, error) {
	if index < 0 || index >= len(t.names) {
		return "", fmt.Errorf("%w: index %d, table size %d", domain.ErrUnknownClass, index, len(t.names))
	}
	return t.names[index], nil
}

// Size reports how many classes the table covers.
func (t *Table) Size() int {
	return len(t.names)
}
