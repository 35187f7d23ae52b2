package crafting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadRecipesDir reads every *.json recipe in dir into a registry. The file
// stem must equal the recipe's id.
func LoadRecipesDir(dir string) (*RecipeRegistry, error) {
	registry := NewRecipeRegistry()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read recipe %s: %w", stem, err)
		}
		var recipe Recipe
		if err := json.Unmarshal(data, &recipe); err != nil {
			return nil, fmt.Errorf("failed to parse recipe %s: %w", stem, err)
		}
		if recipe.ID != "" && recipe.ID != stem {
			return nil, fmt.Errorf("recipe file %s declares mismatched id %q", entry.Name(), recipe.ID)
		}
		recipe.ID = stem

		if err := recipe.Validate(); err != nil {
			return nil, err
		}
		registry.Add(&recipe)
	}
	return registry, nil
}

// LoadMaterialsDir reads every *.json material in dir, indexed by ID.
func LoadMaterialsDir(dir string) (map[string]*Material, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read materials dir: %w", err)
	}

	loaded := make(map[string]*Material, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read material %s: %w", stem, err)
		}
		var mat Material
		if err := json.Unmarshal(data, &mat); err != nil {
			return nil, fmt.Errorf("failed to parse material %s: %w", stem, err)
		}
		if mat.ID != "" && mat.ID != stem {
			return nil, fmt.Errorf("material file %s declares mismatched id %q", entry.Name(), mat.ID)
		}
		mat.ID = stem
		loaded[stem] = &mat
	}
	return loaded, nil
}
