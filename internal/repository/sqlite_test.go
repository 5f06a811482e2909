package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gsr-report/internal/catalog"
	"gsr-report/internal/catalog/catalogtest"
	"gsr-report/internal/infer"
	"gsr-report/internal/report"
)

const gsrTables = `
CREATE TABLE Lodge (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	number INTEGER,
	wmName TEXT,
	wmPostNominals TEXT
);
CREATE TABLE Candidate (
	id INTEGER PRIMARY KEY,
	firstName TEXT NOT NULL,
	lastName TEXT NOT NULL,
	membershipNumber TEXT UNIQUE
);
CREATE TABLE Working (
	id INTEGER PRIMARY KEY,
	date DATETIME NOT NULL,
	type TEXT,
	notes TEXT,
	lodgeId INTEGER NOT NULL REFERENCES Lodge(id)
);
CREATE TABLE CandidateWorking (
	id INTEGER PRIMARY KEY,
	candidateId INTEGER NOT NULL REFERENCES Candidate(id),
	workingId INTEGER NOT NULL REFERENCES Working(id),
	ceremony TEXT NOT NULL,
	result TEXT,
	remarks TEXT
);
INSERT INTO Lodge VALUES (1, 'Lodge of Harmony', 255, 'Alan Grey', 'PPrGW'), (2, 'St John''s Lodge', 80, NULL, NULL);
INSERT INTO Candidate VALUES (10, 'John', 'Smith', 'M-10'), (11, 'Jane', 'Doe', NULL);
INSERT INTO Working VALUES
	(100, '2024-01-10 19:00:00', 'REGULAR', 'Festive board', 1),
	(101, '2024-03-05 19:00:00', 'REGULAR', NULL, 2),
	(102, '2025-06-01 19:00:00', 'EMERGENCY', NULL, 1);
INSERT INTO CandidateWorking VALUES
	(1000, 10, 100, 'INITIATION', 'COMPLETED', NULL),
	(1001, 11, 101, 'INITIATION', 'COMPLETED', 'Proposed by W. Bro. Grey'),
	(1002, 10, 102, 'PASSING', 'POSTPONED', NULL);
`

func openSeeded(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(gsrTables)
	require.NoError(t, err)

	return db
}

func TestSQLite_FindAssociations(t *testing.T) {
	db := openSeeded(t)
	m := gsrMapping(t)
	r := NewSQLite(db, catalogtest.GSR(), zap.NewNop())
	ctx := context.Background()

	all, err := r.FindAssociations(ctx, m, report.Query{})
	require.NoError(t, err)
	require.Equal(t, []string{"1000", "1001", "1002"}, associationIDs(all))

	first := all[0]
	assert.Equal(t, "Smith", first.Candidate.String("lastName"))
	assert.Equal(t, "COMPLETED", first.Association.String("result"))
	assert.Equal(t, "Festive board", first.Working.String("notes"))
	assert.Equal(t, "Lodge of Harmony", first.Lodge.String("name"))
	assert.Equal(t, "255", first.Lodge.String("number"))

	date, ok := first.Working.Time("date")
	require.True(t, ok)
	assert.Equal(t, "2024-01-10", date.Format("2006-01-02"))

	window := report.Query{
		From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	in2024, err := r.FindAssociations(ctx, m, window)
	require.NoError(t, err)
	assert.Equal(t, []string{"1000", "1001"}, associationIDs(in2024))

	window.LodgeID = "1"
	lodge1, err := r.FindAssociations(ctx, m, window)
	require.NoError(t, err)
	assert.Equal(t, []string{"1000"}, associationIDs(lodge1))
}

func TestSQLite_FindLodge(t *testing.T) {
	r := NewSQLite(openSeeded(t), catalogtest.GSR(), nil)
	m := gsrMapping(t)

	lodge, err := r.FindLodge(context.Background(), m, "1")
	require.NoError(t, err)
	assert.Equal(t, "Alan Grey", lodge.String("wmName"))

	missing, err := r.FindLodge(context.Background(), m, "42")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLite_UnknownField(t *testing.T) {
	r := NewSQLite(openSeeded(t), catalogtest.GSR(), nil)
	m := gsrMapping(t)
	m.CandidateWorking.Ceremony = "degree"

	_, err := r.FindAssociations(context.Background(), m, report.Query{})
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestSQLite_IntrospectedCatalog(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE chapter (id INTEGER PRIMARY KEY, title TEXT NOT NULL);
CREATE TABLE brother (id INTEGER PRIMARY KEY, given_name TEXT, family_name TEXT);
CREATE TABLE meeting (id INTEGER PRIMARY KEY, held_on DATE NOT NULL, chapter_id INTEGER REFERENCES chapter);
CREATE TABLE attendance (
	id INTEGER PRIMARY KEY,
	brother_id INTEGER REFERENCES brother(id),
	meeting_id INTEGER REFERENCES meeting(id),
	degree TEXT
);
INSERT INTO chapter VALUES (7, 'Chapter of Concord');
INSERT INTO brother VALUES (1, 'Michael', 'Lee');
INSERT INTO meeting VALUES (3, '2024-04-18', 7);
INSERT INTO attendance VALUES (9, 1, 3, 'Passed');
`)
	require.NoError(t, err)

	ctx := context.Background()

	cat, err := catalog.FromSQLite(ctx, db)
	require.NoError(t, err)

	m, err := infer.Infer(cat)
	require.NoError(t, err)
	assert.Equal(t, "attendance", m.CandidateWorking.Model)
	assert.Equal(t, "chapter", m.Working.LodgeRel)

	got, err := NewSQLite(db, cat, nil).FindAssociations(ctx, m, report.Query{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Michael", got[0].Candidate.String("given_name"))
	assert.Equal(t, "Chapter of Concord", got[0].Lodge.String("title"), "relation without target column joins on the id")
}
