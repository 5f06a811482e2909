package repository

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"gsr-report/internal/catalog"
	"gsr-report/internal/mapping"
	"gsr-report/internal/report"
)

// Table aliases used in association queries.
const (
	aliasAssociation = "a"
	aliasCandidate   = "c"
	aliasWorking     = "w"
	aliasLodge       = "l"
)

// SQLite reads report data from a SQLite database whose tables and columns
// are the catalog's models and fields.
type SQLite struct {
	db      *sql.DB
	catalog *catalog.Catalog
	logger  *zap.Logger
}

var _ report.Repository = (*SQLite)(nil)

// OpenDB opens a SQLite database file. ":memory:" opens a private in-memory
// database limited to one connection.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// NewSQLite returns a repository over db described by cat.
func NewSQLite(db *sql.DB, cat *catalog.Catalog, logger *zap.Logger) *SQLite {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SQLite{db: db, catalog: cat, logger: logger}
}

// FindAssociations implements report.Repository. The lodge filter is applied
// in SQL; the date window is applied after scanning because DateTime columns
// may hold any of several text encodings.
func (s *SQLite) FindAssociations(ctx context.Context, m *mapping.Mapping, q report.Query) ([]report.AssociationRecord, error) {
	p, err := newPlan(s.catalog, m)
	if err != nil {
		return nil, err
	}

	var (
		b    strings.Builder
		args []any
	)

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(slices.Concat(
		selectList(aliasAssociation, p.association),
		selectList(aliasCandidate, p.candidate),
		selectList(aliasWorking, p.working),
		selectList(aliasLodge, p.lodge),
	), ", "))
	fmt.Fprintf(&b, " FROM %s AS %s", catalog.QuoteIdent(p.association.Name), aliasAssociation)
	fmt.Fprintf(&b, " JOIN %s AS %s ON %s", catalog.QuoteIdent(p.candidate.Name), aliasCandidate,
		onClause(aliasAssociation, aliasCandidate, p.toCandidate))
	fmt.Fprintf(&b, " JOIN %s AS %s ON %s", catalog.QuoteIdent(p.working.Name), aliasWorking,
		onClause(aliasAssociation, aliasWorking, p.toWorking))
	fmt.Fprintf(&b, " LEFT JOIN %s AS %s ON %s", catalog.QuoteIdent(p.lodge.Name), aliasLodge,
		onClause(aliasWorking, aliasLodge, p.toLodge))

	if q.LodgeID != "" {
		fmt.Fprintf(&b, " WHERE %s.%s = ?", aliasLodge, catalog.QuoteIdent(m.Lodge.ID))
		args = append(args, q.LodgeID)
	}

	fmt.Fprintf(&b, " ORDER BY %s.%s", aliasAssociation, catalog.QuoteIdent(m.CandidateWorking.ID))

	query := b.String()
	s.logger.Debug("query associations", zap.String("sql", query), zap.Any("args", args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query associations: %w", err)
	}
	defer rows.Close()

	var out []report.AssociationRecord

	for rows.Next() {
		parts, err := scanAliased(rows)
		if err != nil {
			return nil, err
		}

		working := parts[aliasWorking]

		date, ok := working.Time(m.Working.Date)
		if !ok {
			s.logger.Warn("skipping association with unreadable working date",
				zap.String("model", p.working.Name),
				zap.String("field", m.Working.Date),
				zap.Any("value", working.Value(m.Working.Date)),
			)

			continue
		}

		if !q.Contains(date) {
			continue
		}

		lodge := parts[aliasLodge]
		if allNil(lodge) {
			lodge = nil
		}

		out = append(out, report.AssociationRecord{
			Association: parts[aliasAssociation],
			Candidate:   parts[aliasCandidate],
			Working:     working,
			Lodge:       lodge,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read associations: %w", err)
	}

	return out, nil
}

// FindLodge implements report.Repository.
func (s *SQLite) FindLodge(ctx context.Context, m *mapping.Mapping, id string) (report.Record, error) {
	model, err := lookupModel(s.catalog, m.Lodge.Model)
	if err != nil {
		return nil, err
	}

	if err := requireFields(model, m.Lodge.ID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s AS %s WHERE %s.%s = ? LIMIT 1",
		strings.Join(selectList(aliasLodge, model), ", "),
		catalog.QuoteIdent(model.Name), aliasLodge,
		aliasLodge, catalog.QuoteIdent(m.Lodge.ID))

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query lodge: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	parts, err := scanAliased(rows)
	if err != nil {
		return nil, err
	}

	return parts[aliasLodge], nil
}

// selectList renders `alias."col" AS "alias.col"` for every stored column.
func selectList(alias string, m *catalog.Model) []string {
	cols := scalarColumns(m)
	out := make([]string, len(cols))

	for i, c := range cols {
		out[i] = fmt.Sprintf("%s.%s AS %s", alias, catalog.QuoteIdent(c), catalog.QuoteIdent(alias+"."+c))
	}

	return out
}

func onClause(fromAlias, toAlias string, j join) string {
	conds := make([]string, len(j.fromFields))
	for i := range j.fromFields {
		conds[i] = fmt.Sprintf("%s.%s = %s.%s",
			fromAlias, catalog.QuoteIdent(j.fromFields[i]), toAlias, catalog.QuoteIdent(j.toFields[i]))
	}

	return strings.Join(conds, " AND ")
}

// scanAliased scans the current row and splits its "alias.column" values into
// one record per alias.
func scanAliased(rows *sql.Rows) (map[string]report.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))

	for i := range values {
		ptrs[i] = &values[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	out := map[string]report.Record{}

	for i, col := range cols {
		alias, name, ok := strings.Cut(col, ".")
		if !ok {
			continue
		}

		if out[alias] == nil {
			out[alias] = report.Record{}
		}

		out[alias][name] = values[i]
	}

	return out, nil
}

func allNil(r report.Record) bool {
	for _, v := range r {
		if v != nil {
			return false
		}
	}

	return true
}
