package enemy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadDir reads every *.json enemy template in dir, indexed by ID. The file
// stem must equal the enemy's id.
func LoadDir(dir string) (map[string]*Enemy, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemies dir: %w", err)
	}

	loaded := make(map[string]*Enemy, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read enemy %s: %w", stem, err)
		}
		var e Enemy
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("failed to parse enemy %s: %w", stem, err)
		}
		if e.ID != "" && e.ID != stem {
			return nil, fmt.Errorf("enemy file %s declares mismatched id %q", entry.Name(), e.ID)
		}
		e.ID = stem

		if err := e.Validate(); err != nil {
			return nil, err
		}
		loaded[stem] = &e
	}
	return loaded, nil
}
