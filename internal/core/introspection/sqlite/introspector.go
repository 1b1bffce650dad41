// Package sqlite implements SQLite database introspection.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/dbchat/dbchat/internal/core/introspection/domain"
)

// Introspector implements domain.Introspector for SQLite.
type Introspector struct{}

// NewIntrospector creates a new SQLite introspector.
func NewIntrospector() *Introspector {
	return &Introspector{}
}

// ListTables returns all user tables.
func (i *Introspector) ListTables(ctx context.Context, db *sql.DB) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// IntrospectTable introspects a single table.
func (i *Introspector) IntrospectTable(ctx context.Context, db *sql.DB, tableName string) (*domain.Table, error) {
	columns, err := i.introspectColumns(ctx, db, tableName)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", tableName)
	}

	fks, err := i.introspectForeignKeys(ctx, db, tableName)
	if err != nil {
		return nil, err
	}

	cols := make([]domain.Column, len(columns))
	for n, col := range columns {
		cols[n] = col.Column
	}

	return &domain.Table{
		Name:        tableName,
		Columns:     cols,
		PrimaryKey:  extractPrimaryKey(columns),
		ForeignKeys: fks,
	}, nil
}

type pragmaColumn struct {
	domain.Column
	pk int
}

// introspectColumns gets all columns using PRAGMA table_info.
func (i *Introspector) introspectColumns(ctx context.Context, db *sql.DB, tableName string) ([]pragmaColumn, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quote(tableName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []pragmaColumn
	for rows.Next() {
		var cid, notNull int
		var col pragmaColumn
		var defaultVal sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultVal, &col.pk); err != nil {
			return nil, err
		}

		col.IsNullable = notNull == 0 && col.pk == 0
		col.OrdinalPosition = cid + 1
		if defaultVal.Valid {
			col.DefaultValue = &defaultVal.String
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// introspectForeignKeys gets all foreign keys using PRAGMA foreign_key_list.
func (i *Introspector) introspectForeignKeys(ctx context.Context, db *sql.DB, tableName string) ([]domain.ForeignKey, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quote(tableName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fkMap := make(map[int]*domain.ForeignKey)
	var ids []int

	for rows.Next() {
		var id, seq int
		var table, from string
		var to, onUpdate, onDelete, match sql.NullString

		if err := rows.Scan(&id, &seq, &table, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		fk, exists := fkMap[id]
		if !exists {
			fk = &domain.ForeignKey{
				Name:            fmt.Sprintf("fk_%s_%d", tableName, id),
				ReferencedTable: table,
				OnDelete:        domain.ParseReferentialAction(onDelete.String),
			}
			fkMap[id] = fk
			ids = append(ids, id)
		}
		fk.ColumnNames = append(fk.ColumnNames, from)
		fk.ReferencedColumns = append(fk.ReferencedColumns, to.String)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Ints(ids)
	fks := make([]domain.ForeignKey, 0, len(ids))
	for _, id := range ids {
		fks = append(fks, *fkMap[id])
	}
	return fks, nil
}

// GetDatabaseVersion returns the SQLite version.
func (i *Introspector) GetDatabaseVersion(ctx context.Context, db *sql.DB) (string, error) {
	var version string
	err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version)
	return version, err
}

func extractPrimaryKey(columns []pragmaColumn) *domain.PrimaryKey {
	pk := make([]pragmaColumn, 0, 1)
	for _, col := range columns {
		if col.pk > 0 {
			pk = append(pk, col)
		}
	}
	if len(pk) == 0 {
		return nil
	}
	sort.Slice(pk, func(a, b int) bool { return pk[a].pk < pk[b].pk })

	names := make([]string, len(pk))
	for i, col := range pk {
		names[i] = col.Name
	}
	return &domain.PrimaryKey{Name: "PRIMARY", Columns: names}
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
