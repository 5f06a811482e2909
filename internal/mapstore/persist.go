package mapstore

import (
	"context"
	"fmt"

	"gsr-report/internal/catalog"
	"gsr-report/internal/mapping"
)

// Persister reads and writes the stored mapping.
type Persister interface {
	// Read returns the stored mapping. An error wrapping fs.ErrNotExist means
	// nothing has been stored yet.
	Read(ctx context.Context) (*mapping.Mapping, error)
	Write(ctx context.Context, m *mapping.Mapping) error
	// Location names where the mapping is stored, for logs and errors.
	Location() string
}

// FilePersister stores the mapping as a pretty-printed JSON file.
type FilePersister struct {
	Path string
}

// Read implements Persister.
func (p FilePersister) Read(context.Context) (*mapping.Mapping, error) {
	return mapping.LoadFile(p.Path)
}

// Write implements Persister.
func (p FilePersister) Write(_ context.Context, m *mapping.Mapping) error {
	return mapping.WriteFile(m, p.Path)
}

// Location implements Persister.
func (p FilePersister) Location() string { return p.Path }

// PersistenceWriteError reports that a mapping could not be stored. The
// in-memory mapping is left unchanged when it occurs.
type PersistenceWriteError struct {
	Path string
	Err  error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("persist mapping to %s: %v", e.Path, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Err }

// CatalogSource supplies the current schema catalog.
type CatalogSource interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}

// CatalogFunc adapts a function to CatalogSource.
type CatalogFunc func(ctx context.Context) (*catalog.Catalog, error)

// Catalog implements CatalogSource.
func (f CatalogFunc) Catalog(ctx context.Context) (*catalog.Catalog, error) { return f(ctx) }

// StaticCatalog returns a source that always yields c.
func StaticCatalog(c *catalog.Catalog) CatalogSource {
	return CatalogFunc(func(context.Context) (*catalog.Catalog, error) { return c, nil })
}
