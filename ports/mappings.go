package ports

import (
	"context"

	"serialsheets/domain/pipeline"
)

// DefaultMappingKey is the fixed key the original tool used for its persisted
// column-mapping preference. Both store backends keep using it.
const DefaultMappingKey = "column-mapping"

// MappingStore persists the last-used column-header selections across
// sessions. The pipeline receives it as an explicit capability instead of
// reaching into ambient storage.
type MappingStore interface {
	// Load returns the mapping stored under key, or nil when none exists.
	Load(ctx context.Context, key string) (*pipeline.Mapping, error)
	// Save stores the mapping under key, replacing any previous value.
	Save(ctx context.Context, key string, m pipeline.Mapping) error
}
