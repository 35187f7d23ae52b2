package items

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadDir reads every *.json file in dir into an item template indexed by ID.
// The file stem must equal the item's id.
func LoadDir(dir string) (map[string]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read items dir: %w", err)
	}

	loaded := make(map[string]*Item, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read item %s: %w", stem, err)
		}

		var item Item
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse item %s: %w", stem, err)
		}
		if item.ID != "" && item.ID != stem {
			return nil, fmt.Errorf("item file %s declares mismatched id %q", entry.Name(), item.ID)
		}
		item.ID = stem

		if err := item.Validate(); err != nil {
			return nil, err
		}
		loaded[stem] = &item
	}
	return loaded, nil
}
