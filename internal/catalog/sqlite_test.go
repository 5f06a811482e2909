package catalog

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE Lodge (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	number INTEGER
);
CREATE TABLE Candidate (
	id INTEGER PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	membership_number TEXT UNIQUE
);
CREATE TABLE Working (
	id INTEGER PRIMARY KEY,
	date DATETIME NOT NULL,
	lodge_id INTEGER NOT NULL REFERENCES Lodge(id),
	notes TEXT
);
CREATE TABLE CandidateWorking (
	id INTEGER PRIMARY KEY,
	candidate_id INTEGER NOT NULL REFERENCES Candidate(id),
	working_id INTEGER NOT NULL REFERENCES Working(id),
	ceremony TEXT NOT NULL,
	is_complete BOOLEAN
);
`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return db
}

func TestFromSQLite(t *testing.T) {
	db := openTestDB(t)

	c, err := FromSQLite(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, []string{"Lodge", "Candidate", "Working", "CandidateWorking"}, c.ModelNames())

	candidate := c.Model("Candidate")
	require.NotNil(t, candidate)
	assert.True(t, candidate.Field("id").IsID)
	assert.True(t, candidate.Field("first_name").IsString())
	assert.True(t, candidate.Field("first_name").IsRequired)
	assert.True(t, candidate.Field("membership_number").IsUnique)

	working := c.Model("Working")
	require.NotNil(t, working)
	assert.True(t, working.Field("date").IsDateTime())

	lodge := working.Field("lodge")
	require.NotNil(t, lodge, "foreign key yields an object field")
	assert.Equal(t, KindObject, lodge.Kind)
	assert.Equal(t, "Lodge", lodge.Type)
	assert.Equal(t, []string{"lodge_id"}, lodge.RelationFromFields)
	assert.Equal(t, []string{"id"}, lodge.RelationToFields)
	assert.True(t, lodge.IsRequired)

	join := c.Model("CandidateWorking")
	require.NotNil(t, join)
	assert.Equal(t, "Candidate", join.Field("candidate").Type)
	assert.Equal(t, "Working", join.Field("working").Type)
	assert.Equal(t, TypeBoolean, join.Field("is_complete").Type)
}

func TestScalarTypeFor(t *testing.T) {
	tests := map[string]string{
		"INTEGER":      TypeInt,
		"varchar(255)": TypeString,
		"":             TypeString,
		"DATETIME":     TypeDateTime,
		"TIMESTAMP":    TypeDateTime,
		"BOOLEAN":      TypeBoolean,
		"REAL":         TypeFloat,
		"DECIMAL(8,2)": TypeFloat,
	}

	for decl, want := range tests {
		assert.Equal(t, want, scalarTypeFor(decl), decl)
	}
}

func TestRelationName(t *testing.T) {
	taken := map[string]struct{}{"lodge": {}}

	assert.Equal(t, "candidate", relationName("candidate_id", taken))
	assert.Equal(t, "working", relationName("workingId", taken))
	assert.Equal(t, "lodgeRef", relationName("lodge", taken))
}
