package mapstore

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gsr-report/internal/catalog"
	"gsr-report/internal/catalog/catalogtest"
	"gsr-report/internal/infer"
	"gsr-report/internal/mapping"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// countingPersister wraps a FilePersister and counts calls.
type countingPersister struct {
	FilePersister

	reads, writes atomic.Int32
	readErr       error
	writeErr      error
}

func (p *countingPersister) Read(ctx context.Context) (*mapping.Mapping, error) {
	p.reads.Add(1)

	if p.readErr != nil {
		return nil, p.readErr
	}

	return p.FilePersister.Read(ctx)
}

func (p *countingPersister) Write(ctx context.Context, m *mapping.Mapping) error {
	p.writes.Add(1)

	if p.writeErr != nil {
		return p.writeErr
	}

	return p.FilePersister.Write(ctx, m)
}

type countingInfer struct {
	calls atomic.Int32
}

func (c *countingInfer) infer(cat *catalog.Catalog) (*mapping.Mapping, error) {
	c.calls.Add(1)
	return infer.Infer(cat)
}

func newPersister(t *testing.T) *countingPersister {
	t.Helper()

	return &countingPersister{FilePersister: FilePersister{Path: filepath.Join(t.TempDir(), "config", "gsr-mapping.json")}}
}

func TestLoad_InfersAndPersistsWhenAbsent(t *testing.T) {
	p := newPersister(t)
	inf := &countingInfer{}
	s := New(StaticCatalog(catalogtest.GSR()), p, WithInferFunc(inf.infer))
	ctx := context.Background()

	m, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Candidate", m.Candidate.Model)
	assert.EqualValues(t, 1, inf.calls.Load())
	assert.EqualValues(t, 1, p.writes.Load())

	stored, err := mapping.LoadFile(p.Path)
	require.NoError(t, err)
	assert.Equal(t, m, stored)

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, m, again)
	assert.EqualValues(t, 1, inf.calls.Load(), "second load is served from cache")
	assert.EqualValues(t, 1, p.reads.Load())
}

func TestLoad_UsesValidPersistedMapping(t *testing.T) {
	p := newPersister(t)

	saved, err := infer.Infer(catalogtest.GSR())
	require.NoError(t, err)
	saved.Working.Notes = ""
	require.NoError(t, mapping.WriteFile(saved, p.Path))

	inf := &countingInfer{}
	s := New(StaticCatalog(catalogtest.GSR()), p, WithInferFunc(inf.infer))

	m, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved, m)
	assert.Zero(t, inf.calls.Load())
	assert.Zero(t, p.writes.Load())
}

func TestLoad_StaleMappingSelfHeals(t *testing.T) {
	p := newPersister(t)

	old, err := infer.Infer(catalogtest.GSR())
	require.NoError(t, err)
	require.NoError(t, mapping.WriteFile(old, p.Path))

	changed := catalogtest.WithoutField(catalogtest.GSR(), "Working", "notes")

	core, logs := observer.New(zapcore.WarnLevel)
	s := New(StaticCatalog(changed), p, WithLogger(zap.New(core)))

	m, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m.Working.Notes)
	assert.True(t, mapping.IsValid(m, changed))

	stored, err := mapping.LoadFile(p.Path)
	require.NoError(t, err)
	assert.Equal(t, m, stored, "re-inferred mapping is persisted")

	stale := logs.FilterMessage("persisted mapping is stale, re-inferring").All()
	require.Len(t, stale, 1)
	assert.Contains(t, stale[0].ContextMap()["diagnostics"], `[working] notes: [field_not_found] field "notes" not found on "Working"`)
}

func TestLoad_SingleFlight(t *testing.T) {
	const callers = 16

	p := newPersister(t)
	release := make(chan struct{})
	started := make(chan struct{}, callers)

	var calls atomic.Int32

	s := New(StaticCatalog(catalogtest.GSR()), p, WithInferFunc(func(c *catalog.Catalog) (*mapping.Mapping, error) {
		calls.Add(1)
		started <- struct{}{}
		<-release

		return infer.Infer(c)
	}))

	var (
		wg      sync.WaitGroup
		results = make([]*mapping.Mapping, callers)
		errs    = make([]error, callers)
	)

	for i := range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()
			results[i], errs[i] = s.Load(context.Background())
		}()
	}

	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	assert.EqualValues(t, 1, p.writes.Load())

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestLoad_ReadErrorFallsThroughToInference(t *testing.T) {
	p := newPersister(t)
	p.readErr = errors.New("disk on fire")

	core, logs := observer.New(zapcore.WarnLevel)
	s := New(StaticCatalog(catalogtest.GSR()), p, WithLogger(zap.New(core)))

	m, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CandidateWorking", m.CandidateWorking.Model)
	assert.Equal(t, 1, logs.FilterMessage("ignoring unreadable persisted mapping").Len())
}

func TestLoad_NotExistIsQuiet(t *testing.T) {
	p := newPersister(t)
	p.readErr = fs.ErrNotExist

	core, logs := observer.New(zapcore.WarnLevel)
	s := New(StaticCatalog(catalogtest.GSR()), p, WithLogger(zap.New(core)))

	_, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestLoad_WriteErrorIsFatal(t *testing.T) {
	p := newPersister(t)
	p.writeErr = errors.New("read-only file system")
	inf := &countingInfer{}
	s := New(StaticCatalog(catalogtest.GSR()), p, WithInferFunc(inf.infer))

	m, err := s.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, m)

	var pwe *PersistenceWriteError
	require.True(t, errors.As(err, &pwe))
	assert.Equal(t, p.Path, pwe.Path)
	assert.ErrorIs(t, err, p.writeErr)

	p.writeErr = nil

	m, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.EqualValues(t, 2, inf.calls.Load(), "failed load was not cached")
}

func TestLoad_InferenceErrorPropagates(t *testing.T) {
	s := New(StaticCatalog(&catalog.Catalog{}), newPersister(t))

	_, err := s.Load(context.Background())

	var ie *infer.InferenceError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, mapping.RoleCandidate, ie.Role)
}

func TestLoad_CatalogErrorPropagates(t *testing.T) {
	boom := errors.New("schema unavailable")
	s := New(CatalogFunc(func(context.Context) (*catalog.Catalog, error) { return nil, boom }), newPersister(t))

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestLoad_CallerCancellation(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	s := New(StaticCatalog(catalogtest.GSR()), newPersister(t), WithInferFunc(func(c *catalog.Catalog) (*mapping.Mapping, error) {
		close(started)
		<-release

		return infer.Infer(c)
	}))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := s.Load(ctx)
		done <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)

	m, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Candidate", m.Candidate.Model)
}

func TestLoad_ReturnsCopies(t *testing.T) {
	s := New(StaticCatalog(catalogtest.GSR()), newPersister(t))
	ctx := context.Background()

	m, err := s.Load(ctx)
	require.NoError(t, err)

	m.Candidate.NameFields[0] = "mutated"
	m.CeremonyEnum.Values[0] = "mutated"

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "firstName", again.Candidate.NameFields[0])
	assert.Equal(t, "INITIATION", again.CeremonyEnum.Values[0])
}

func TestSave(t *testing.T) {
	p := newPersister(t)
	inf := &countingInfer{}
	s := New(StaticCatalog(catalogtest.GSR()), p, WithInferFunc(inf.infer))
	ctx := context.Background()

	edited, err := infer.Infer(catalogtest.GSR())
	require.NoError(t, err)
	edited.Candidate.NameFields = []string{"lastName"}

	saved, err := s.Save(ctx, edited)
	require.NoError(t, err)
	assert.Equal(t, edited, saved)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"lastName"}, loaded.Candidate.NameFields)
	assert.Zero(t, inf.calls.Load())

	stored, err := mapping.LoadFile(p.Path)
	require.NoError(t, err)
	assert.Equal(t, edited, stored)
}

func TestSave_RejectsBadShape(t *testing.T) {
	p := newPersister(t)
	s := New(StaticCatalog(catalogtest.GSR()), p)

	_, err := s.Save(context.Background(), &mapping.Mapping{})
	assert.ErrorIs(t, err, mapping.ErrInvalidShape)
	assert.Zero(t, p.writes.Load())
}

func TestSave_WriteErrorKeepsCache(t *testing.T) {
	p := newPersister(t)
	s := New(StaticCatalog(catalogtest.GSR()), p)
	ctx := context.Background()

	before, err := s.Load(ctx)
	require.NoError(t, err)

	edited := before.Clone()
	edited.Lodge.Number = ""
	p.writeErr = errors.New("quota exceeded")

	_, err = s.Save(ctx, edited)

	var pwe *PersistenceWriteError
	require.True(t, errors.As(err, &pwe))

	after, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReset(t *testing.T) {
	p := newPersister(t)
	inf := &countingInfer{}
	s := New(StaticCatalog(catalogtest.GSR()), p, WithInferFunc(inf.infer))
	ctx := context.Background()

	edited, err := infer.Infer(catalogtest.GSR())
	require.NoError(t, err)
	edited.Candidate.NameFields = []string{"lastName"}

	_, err = s.Save(ctx, edited)
	require.NoError(t, err)

	m, err := s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"firstName", "lastName"}, m.Candidate.NameFields)
	assert.EqualValues(t, 1, inf.calls.Load())

	stored, err := mapping.LoadFile(p.Path)
	require.NoError(t, err)
	assert.Equal(t, m, stored)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
}

func TestSaveDuringLoadWins(t *testing.T) {
	p := newPersister(t)
	release := make(chan struct{})
	started := make(chan struct{})

	s := New(StaticCatalog(catalogtest.GSR()), p, WithInferFunc(func(c *catalog.Catalog) (*mapping.Mapping, error) {
		close(started)
		<-release

		return infer.Infer(c)
	}))
	ctx := context.Background()

	type result struct {
		m   *mapping.Mapping
		err error
	}

	done := make(chan result, 1)
	go func() {
		m, err := s.Load(ctx)
		done <- result{m, err}
	}()

	<-started

	edited, err := infer.Infer(catalogtest.GSR())
	require.NoError(t, err)
	edited.Candidate.NameFields = []string{"lastName"}

	_, err = s.Save(ctx, edited)
	require.NoError(t, err)

	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, []string{"lastName"}, res.m.Candidate.NameFields)

	stored, err := mapping.LoadFile(p.Path)
	require.NoError(t, err)
	assert.Equal(t, []string{"lastName"}, stored.Candidate.NameFields, "in-flight load does not overwrite the saved file")
	assert.EqualValues(t, 1, p.writes.Load())
}
