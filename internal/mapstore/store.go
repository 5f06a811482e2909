package mapstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"gsr-report/internal/catalog"
	"gsr-report/internal/diagnostic"
	"gsr-report/internal/infer"
	"gsr-report/internal/mapping"
)

const loadKey = "mapping"

// InferFunc derives a mapping from a catalog.
type InferFunc func(c *catalog.Catalog) (*mapping.Mapping, error)

// Store is the process-wide mapping holder. It is safe for concurrent use.
type Store struct {
	catalogs  CatalogSource
	persister Persister
	infer     InferFunc
	logger    *zap.Logger

	group singleflight.Group

	// writeMu serializes persistence with cache replacement.
	writeMu sync.Mutex

	mu         sync.RWMutex
	cached     *mapping.Mapping
	generation uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithInferFunc replaces infer.Infer.
func WithInferFunc(f InferFunc) Option {
	return func(s *Store) {
		if f != nil {
			s.infer = f
		}
	}
}

// New returns a store reading the catalog from catalogs and storing the
// mapping through persister.
func New(catalogs CatalogSource, persister Persister, opts ...Option) *Store {
	s := &Store{
		catalogs:  catalogs,
		persister: persister,
		infer:     infer.Infer,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load returns the current mapping, resolving it on first use. Callers that
// give up (ctx done) return early; the shared resolution still completes.
func (s *Store) Load(ctx context.Context) (*mapping.Mapping, error) {
	if m := s.current(); m != nil {
		return m.Clone(), nil
	}

	ch := s.group.DoChan(loadKey, func() (any, error) {
		return s.resolve(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(*mapping.Mapping).Clone(), nil
	}
}

// Save stores m and makes it the current mapping. Only the mapping's shape
// is checked; the catalog is not consulted.
func (s *Store) Save(ctx context.Context, m *mapping.Mapping) (*mapping.Mapping, error) {
	if err := mapping.ValidateShape(m); err != nil {
		return nil, err
	}

	m = m.Clone()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.persist(ctx, m); err != nil {
		return nil, err
	}

	s.replace(m)
	s.logger.Info("mapping saved", zap.String("path", s.persister.Location()))

	return m.Clone(), nil
}

// Reset re-infers the mapping from the current catalog regardless of what
// is stored, persists it and makes it current.
func (s *Store) Reset(ctx context.Context) (*mapping.Mapping, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.infer(cat)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.persist(ctx, m); err != nil {
		return nil, err
	}

	s.replace(m)
	s.logger.Info("mapping reset", zap.String("path", s.persister.Location()))

	return m.Clone(), nil
}

func (s *Store) current() *mapping.Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cached
}

func (s *Store) snapshot() (*mapping.Mapping, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cached, s.generation
}

// replace swaps the cache. Callers hold writeMu.
func (s *Store) replace(m *mapping.Mapping) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = m
	s.generation++
}

// resolve runs once per group of concurrent first loads.
func (s *Store) resolve(ctx context.Context) (*mapping.Mapping, error) {
	cached, gen := s.snapshot()
	if cached != nil {
		return cached, nil
	}

	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	if m := s.readPersisted(ctx); m != nil {
		res := mapping.Validate(m, cat)
		if res.IsValid() {
			s.logger.Debug("using persisted mapping", zap.String("path", s.persister.Location()))
			return s.commit(ctx, m, gen, false)
		}

		s.logger.Warn("persisted mapping is stale, re-inferring",
			zap.String("path", s.persister.Location()),
			zap.Strings("diagnostics", diagnosticLines(res)),
		)
	}

	m, err := s.infer(cat)
	if err != nil {
		return nil, err
	}

	return s.commit(ctx, m, gen, true)
}

// commit persists m when asked and caches it, unless a Save or Reset replaced
// the cache since gen was read. In that case the newer mapping wins and is
// returned instead.
func (s *Store) commit(ctx context.Context, m *mapping.Mapping, gen uint64, write bool) (*mapping.Mapping, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if cached, current := s.snapshot(); current != gen && cached != nil {
		s.logger.Debug("mapping replaced during load, keeping newer one")
		return cached, nil
	}

	if write {
		if err := s.persist(ctx, m); err != nil {
			return nil, err
		}

		s.logger.Info("mapping inferred", zap.String("path", s.persister.Location()))
	}

	s.replace(m)

	return m, nil
}

func (s *Store) catalog(ctx context.Context) (*catalog.Catalog, error) {
	if s.catalogs == nil {
		return nil, errors.New("mapstore: no catalog source")
	}

	cat, err := s.catalogs.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return cat, nil
}

// readPersisted returns the stored mapping, or nil when there is none or it
// cannot be read.
func (s *Store) readPersisted(ctx context.Context) *mapping.Mapping {
	m, err := s.persister.Read(ctx)

	switch {
	case err == nil:
		return m
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("no persisted mapping", zap.String("path", s.persister.Location()))
	default:
		s.logger.Warn("ignoring unreadable persisted mapping",
			zap.String("path", s.persister.Location()), zap.Error(err))
	}

	return nil
}

func (s *Store) persist(ctx context.Context, m *mapping.Mapping) error {
	if err := s.persister.Write(ctx, m); err != nil {
		return &PersistenceWriteError{Path: s.persister.Location(), Err: err}
	}

	return nil
}

func diagnosticLines(res *diagnostic.Diagnostics) []string {
	all := res.All()
	out := make([]string, len(all))

	for i, d := range all {
		out[i] = d.String()
	}

	return out
}
