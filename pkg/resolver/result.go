package resolver

import (
	"time"

	"github.com/agentstation/utc"
)

// Warning kinds surfaced by resolution.
const (
	// WarningResolutionGap marks an entity with no declared type and no
	// external match; it is excluded from creation, never fatal.
	WarningResolutionGap = "resolution_gap"
)

// Warning is one recoverable data-quality issue found during resolution.
type Warning struct {
	Kind    string
	Name    string
	Message string
}

// Result represents the outcome of a resolution pass.
type Result struct {
	// Map holds every name's definitive resolution.
	Map *Map

	// MultiTypeEntities lists entities whose declarations unioned to more
	// than one type, as a distinct report category.
	MultiTypeEntities []string

	// Warnings aggregates recoverable issues for one-shot reporting.
	Warnings []Warning

	// Metadata about the resolution pass.
	Metadata ResultMetadata

	// Stats about the resolution pass.
	Stats ResultStatistics
}

// ResultMetadata contains metadata about the resolution pass.
type ResultMetadata struct {
	StartTime utc.Time
	EndTime   utc.Time
	Duration  time.Duration
}

// ResultStatistics counts resolution decisions per category.
type ResultStatistics struct {
	TypesCreated      int
	TypesLinked       int
	PropertiesCreated int
	PropertiesLinked  int
	EntitiesCreated   int
	EntitiesLinked    int
}

// NewResult creates an empty result.
func NewResult() *Result {
	return &Result{}
}

// finalize stamps timing metadata.
func (r *Result) finalize(start utc.Time) {
	r.Metadata.StartTime = start
	r.Metadata.EndTime = utc.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(start)
}
