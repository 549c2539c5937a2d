// Package presets loads card preset catalogs from YAML or JSON files
// and validates them against an embedded CUE schema before they enter
// the store. Invalid catalogs are rejected wholesale with positioned
// errors; there is no partial load.
package presets

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cardwise/internal/model"
	"github.com/roach88/cardwise/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// LoadFile reads and validates a preset catalog. YAML is the primary
// format; JSON parses fine as a YAML subset.
func LoadFile(path string) ([]model.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset catalog: %w", err)
	}
	return Load(data)
}

// Load validates catalog bytes against the schema and decodes the
// presets as card templates (IDs unset).
func Load(data []byte) ([]model.Card, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse preset catalog: %w", err)
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	// Re-encode through JSON to share the model's field tags.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode preset catalog: %w", err)
	}
	var catalog struct {
		Presets []model.Card `json:"presets"`
	}
	if err := json.Unmarshal(jsonData, &catalog); err != nil {
		return nil, fmt.Errorf("decode preset catalog: %w", err)
	}
	return catalog.Presets, nil
}

// validate unifies the catalog with the embedded schema. Uses CUE
// SDK's Go API directly (not CLI subprocess).
func validate(raw any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile preset schema: %w", err)
	}
	catalogSchema := schema.LookupPath(cue.ParsePath("#Catalog"))
	if err := catalogSchema.Err(); err != nil {
		return fmt.Errorf("lookup catalog schema: %w", err)
	}

	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode preset catalog: %w", err)
	}

	unified := catalogSchema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid preset catalog: %s", cueerrors.Details(err, nil))
	}
	return nil
}

// Install loads a catalog file and replaces the stored preset list.
func Install(ctx context.Context, st *store.Store, path string) ([]model.Card, error) {
	cards, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := st.SetPresets(ctx, cards); err != nil {
		return nil, err
	}
	return cards, nil
}
