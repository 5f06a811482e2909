package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Queryer is the subset of *sql.DB used for introspection.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// FromSQLite builds a Catalog from a SQLite database's own schema.
//
// Tables become models in creation order. Every column becomes a scalar field
// and every foreign key additionally yields an object field named after the
// foreign-key column with its id suffix removed (lodge_id -> lodge), typed as
// the referenced table.
func FromSQLite(ctx context.Context, db Queryer) (*Catalog, error) {
	tables, err := listTables(ctx, db)
	if err != nil {
		return nil, err
	}

	c := &Catalog{}

	for _, table := range tables {
		m, err := introspectTable(ctx, db, table)
		if err != nil {
			return nil, fmt.Errorf("introspect table %s: %w", table, err)
		}

		c.Models = append(c.Models, m)
	}

	return c, nil
}

func listTables(ctx context.Context, db Queryer) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}

		tables = append(tables, name)
	}

	return tables, rows.Err()
}

func introspectTable(ctx context.Context, db Queryer, table string) (Model, error) {
	m := Model{Name: table}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdent(table)))
	if err != nil {
		return m, err
	}

	for rows.Next() {
		var (
			cid      int
			name     string
			declType string
			notNull  int
			dflt     sql.NullString
			pk       int
		)

		if err := rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			rows.Close()
			return m, err
		}

		m.Fields = append(m.Fields, Field{
			Name:       name,
			Kind:       KindScalar,
			Type:       scalarTypeFor(declType),
			IsRequired: notNull == 1 || pk > 0,
			IsID:       pk > 0,
		})
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return m, err
	}

	rows.Close()

	if err := markUnique(ctx, db, &m); err != nil {
		return m, err
	}

	relations, err := foreignKeys(ctx, db, &m)
	if err != nil {
		return m, err
	}

	m.Fields = append(m.Fields, relations...)

	return m, nil
}

func markUnique(ctx context.Context, db Queryer, m *Model) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", QuoteIdent(m.Name)))
	if err != nil {
		return err
	}

	var uniqueIndexes []string

	for rows.Next() {
		var (
			seq     int
			name    string
			unique  int
			origin  string
			partial int
		)

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return err
		}

		if unique == 1 && partial == 0 {
			uniqueIndexes = append(uniqueIndexes, name)
		}
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}

	rows.Close()

	for _, idx := range uniqueIndexes {
		cols, err := indexColumns(ctx, db, idx)
		if err != nil {
			return err
		}

		if len(cols) != 1 {
			continue
		}

		if f := m.Field(cols[0]); f != nil {
			f.IsUnique = true
		}
	}

	return nil
}

func indexColumns(ctx context.Context, db Queryer, index string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", QuoteIdent(index)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string

	for rows.Next() {
		var (
			seqno int
			cid   int
			name  sql.NullString
		)

		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}

		cols = append(cols, name.String)
	}

	return cols, rows.Err()
}

func foreignKeys(ctx context.Context, db Queryer, m *Model) ([]Field, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", QuoteIdent(m.Name)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out   []Field
		byID  = map[int]int{}
		taken = map[string]struct{}{}
	)

	for i := range m.Fields {
		taken[m.Fields[i].Name] = struct{}{}
	}

	for rows.Next() {
		var (
			id, seq                   int
			table, from               string
			to                        sql.NullString
			onUpdate, onDelete, match string
		)

		if err := rows.Scan(&id, &seq, &table, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		idx, ok := byID[id]
		if !ok {
			name := relationName(from, taken)
			taken[name] = struct{}{}

			required := false
			if f := m.Field(from); f != nil {
				required = f.IsRequired
			}

			out = append(out, Field{
				Name:       name,
				Kind:       KindObject,
				Type:       table,
				IsRequired: required,
			})
			idx = len(out) - 1
			byID[id] = idx
		}

		out[idx].RelationFromFields = append(out[idx].RelationFromFields, from)
		if to.Valid && to.String != "" {
			out[idx].RelationToFields = append(out[idx].RelationToFields, to.String)
		}
	}

	return out, rows.Err()
}

// relationName derives an object field name from a foreign-key column.
func relationName(column string, taken map[string]struct{}) string {
	name := column

	for _, suffix := range []string{"_id", "Id", "ID", "_ID"} {
		if len(name) > len(suffix) && strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}

	for hasKey(taken, name) {
		name += "Ref"
	}

	return name
}

// scalarTypeFor maps a declared SQLite column type onto a scalar type name
// following SQLite's affinity rules, with date/time and boolean split out.
func scalarTypeFor(declType string) string {
	t := strings.ToUpper(declType)

	switch {
	case strings.Contains(t, "BOOL"):
		return TypeBoolean
	case strings.Contains(t, "DATE"), strings.Contains(t, "TIME"):
		return TypeDateTime
	case strings.Contains(t, "INT"):
		return TypeInt
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"), t == "":
		return TypeString
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"),
		strings.Contains(t, "NUM"), strings.Contains(t, "DEC"):
		return TypeFloat
	default:
		return TypeString
	}
}

// QuoteIdent quotes a SQLite identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
