package repository

import (
	"context"
	"sync"

	"gsr-report/internal/catalog"
	"gsr-report/internal/mapping"
	"gsr-report/internal/report"
)

// Memory is an in-memory repository holding rows per model. It is safe for
// concurrent use.
type Memory struct {
	catalog *catalog.Catalog

	mu     sync.RWMutex
	tables map[string][]report.Record
}

var _ report.Repository = (*Memory)(nil)

// NewMemory returns an empty repository for the catalog's models.
func NewMemory(cat *catalog.Catalog) *Memory {
	return &Memory{catalog: cat, tables: map[string][]report.Record{}}
}

// Insert appends rows to the model's table.
func (r *Memory) Insert(model string, rows ...report.Record) error {
	if _, err := lookupModel(r.catalog, model); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables[model] = append(r.tables[model], rows...)

	return nil
}

// FindAssociations implements report.Repository.
func (r *Memory) FindAssociations(ctx context.Context, m *mapping.Mapping, q report.Query) ([]report.AssociationRecord, error) {
	p, err := newPlan(r.catalog, m)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []report.AssociationRecord

	for _, assoc := range r.tables[p.association.Name] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		working := r.follow(p.toWorking, assoc)

		date, ok := working.Time(m.Working.Date)
		if !ok || !q.Contains(date) {
			continue
		}

		lodge := r.follow(p.toLodge, working)
		if q.LodgeID != "" && lodge.ID(m.Lodge.ID) != q.LodgeID {
			continue
		}

		out = append(out, report.AssociationRecord{
			Association: assoc,
			Candidate:   r.follow(p.toCandidate, assoc),
			Working:     working,
			Lodge:       lodge,
		})
	}

	return out, nil
}

// FindLodge implements report.Repository.
func (r *Memory) FindLodge(_ context.Context, m *mapping.Mapping, id string) (report.Record, error) {
	model, err := lookupModel(r.catalog, m.Lodge.Model)
	if err != nil {
		return nil, err
	}

	if err := requireFields(model, m.Lodge.ID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.tables[model.Name] {
		if row.ID(m.Lodge.ID) == id {
			return row, nil
		}
	}

	return nil, nil
}

// follow returns the row of j.to whose key fields equal the row's foreign key.
func (r *Memory) follow(j join, row report.Record) report.Record {
	if row == nil {
		return nil
	}

	keys := make([]string, len(j.fromFields))

	for i, f := range j.fromFields {
		if !row.Has(f) {
			return nil
		}

		keys[i] = row.String(f)
	}

	for _, target := range r.tables[j.to.Name] {
		if keysEqual(target, j.toFields, keys) {
			return target
		}
	}

	return nil
}

func keysEqual(row report.Record, fields, keys []string) bool {
	for i, f := range fields {
		if row.String(f) != keys[i] {
			return false
		}
	}

	return true
}
