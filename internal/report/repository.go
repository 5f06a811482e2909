package report

import (
	"context"
	"errors"
	"time"

	"gsr-report/internal/mapping"
)

// ErrNoRepository is returned by Build when the aggregator has no repository.
var ErrNoRepository = errors.New("report: no repository configured")

// Query selects the associations a report covers.
type Query struct {
	// From and To bound the working date, both inclusive. A zero bound is open.
	From time.Time
	To   time.Time
	// LodgeID restricts the report to one lodge when non-empty.
	LodgeID string
}

// Contains reports whether t falls inside the query window.
func (q Query) Contains(t time.Time) bool {
	if !q.From.IsZero() && t.Before(q.From) {
		return false
	}

	if !q.To.IsZero() && t.After(q.To) {
		return false
	}

	return true
}

// AssociationRecord is one candidate/working association together with its
// related candidate, working and the working's lodge.
type AssociationRecord struct {
	Association Record
	Candidate   Record
	Working     Record
	Lodge       Record
}

// Repository is the data boundary consumed by the aggregator. Models and
// fields are addressed by the names held in the mapping.
type Repository interface {
	// FindAssociations returns the associations whose working date lies in the
	// query window, restricted to q.LodgeID when set.
	FindAssociations(ctx context.Context, m *mapping.Mapping, q Query) ([]AssociationRecord, error)
	// FindLodge returns the lodge with the given id, or nil when none exists.
	FindLodge(ctx context.Context, m *mapping.Mapping, id string) (Record, error)
}
