package repository

import (
	"fmt"
	"sort"
)

// Keyed carries named arguments for a write operation. The engine resolves
// the entity's primary key from it before touching the store.
type Keyed map[string]any

// Filters narrows a listing to rows whose columns equal the given values.
type Filters map[string]any

func (f Filters) sortedColumns() []string {
	cols := make([]string, 0, len(f))
	for col := range f {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// Handlers declares how an entity type maps onto its table and schema roles.
// One Handlers value is built per entity at wiring time and shared by every
// engine and cached reader for that entity.
type Handlers[T, C, U, R any] struct {
	// Table is the entity's table name and doubles as its cache key prefix.
	Table string

	// PKColumn is the entity's primary key column. It is declared here once
	// rather than discovered per call.
	PKColumn string

	// PKValue extracts the primary key from a loaded record.
	PKValue func(*T) int64

	// FromCreate builds a fresh record from a create input, applying any
	// entity defaults.
	FromCreate func(C) *T

	// ApplyUpdate copies an update input onto a loaded record.
	ApplyUpdate func(*T, U)

	// ToRead projects a record onto its read schema.
	ToRead func(*T) R
}

func (h Handlers[T, C, U, R]) validate() error {
	if h.Table == "" {
		return fmt.Errorf("handlers: Table is required")
	}
	if h.PKColumn == "" {
		return fmt.Errorf("handlers for %s: PKColumn is required", h.Table)
	}
	if h.PKValue == nil {
		return fmt.Errorf("handlers for %s: PKValue is required", h.Table)
	}
	if h.FromCreate == nil {
		return fmt.Errorf("handlers for %s: FromCreate is required", h.Table)
	}
	if h.ApplyUpdate == nil {
		return fmt.Errorf("handlers for %s: ApplyUpdate is required", h.Table)
	}
	if h.ToRead == nil {
		return fmt.Errorf("handlers for %s: ToRead is required", h.Table)
	}
	return nil
}
