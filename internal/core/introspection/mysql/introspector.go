// Package mysql implements MySQL database introspection.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dbchat/dbchat/internal/core/introspection/domain"
)

// Introspector implements domain.Introspector for MySQL. The schema is the
// database selected by the connection.
type Introspector struct{}

// NewIntrospector creates a new MySQL introspector.
func NewIntrospector() *Introspector {
	return &Introspector{}
}

// ListTables returns base tables and views of the current database.
func (i *Introspector) ListTables(ctx context.Context, db *sql.DB) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type IN ('BASE TABLE', 'VIEW')
		ORDER BY table_name
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
	table := &domain.Table{Name: tableName}

	pkColumns, err := i.introspectColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("table %s not found", tableName)
	}
	if len(pkColumns) > 0 {
		table.PrimaryKey = &domain.PrimaryKey{Name: "PRIMARY", Columns: pkColumns}
	}

	fks, err := i.introspectForeignKeys(ctx, db, tableName)
	if err != nil {
		return nil, err
	}
	table.ForeignKeys = fks

	return table, nil
}

// introspectColumns fills table.Columns and returns the primary key columns
// in key order.
func (i *Introspector) introspectColumns(ctx context.Context, db *sql.DB, table *domain.Table) ([]string, error) {
	query := `
		SELECT
			column_name,
			column_type,
			is_nullable,
			column_default,
			ordinal_position,
			column_key
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := db.QueryContext(ctx, query, table.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var col domain.Column
		var isNullable, columnKey string
		var defaultVal sql.NullString

		if err := rows.Scan(&col.Name, &col.Type, &isNullable, &defaultVal, &col.OrdinalPosition, &columnKey); err != nil {
			return nil, err
		}

		col.Type = strings.ToUpper(col.Type)
		col.IsNullable = isNullable == "YES"
		if defaultVal.Valid {
			col.DefaultValue = &defaultVal.String
		}
		if columnKey == "PRI" {
			pk = append(pk, col.Name)
		}
		table.Columns = append(table.Columns, col)
	}

	return pk, rows.Err()
}

// introspectForeignKeys gets all foreign keys for a table.
func (i *Introspector) introspectForeignKeys(ctx context.Context, db *sql.DB, tableName string) ([]domain.ForeignKey, error) {
	query := `
		SELECT
			kcu.constraint_name,
			kcu.column_name,
			kcu.referenced_table_name,
			kcu.referenced_column_name,
			rc.delete_rule
		FROM information_schema.key_column_usage AS kcu
		JOIN information_schema.referential_constraints AS rc
		  ON rc.constraint_name = kcu.constraint_name
		 AND rc.constraint_schema = kcu.table_schema
		WHERE kcu.table_schema = DATABASE()
		  AND kcu.table_name = ?
		  AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.constraint_name, kcu.ordinal_position
	`

	rows, err := db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []domain.ForeignKey
	index := make(map[string]int)

	for rows.Next() {
		var name, column, refTable, refColumn, deleteRule string
		if err := rows.Scan(&name, &column, &refTable, &refColumn, &deleteRule); err != nil {
			return nil, err
		}

		n, exists := index[name]
		if !exists {
			fks = append(fks, domain.ForeignKey{
				Name:            name,
				ReferencedTable: refTable,
				OnDelete:        domain.ParseReferentialAction(deleteRule),
			})
			n = len(fks) - 1
			index[name] = n
		}
		fks[n].ColumnNames = append(fks[n].ColumnNames, column)
		fks[n].ReferencedColumns = append(fks[n].ReferencedColumns, refColumn)
	}

	return fks, rows.Err()
}

// GetDatabaseVersion returns the MySQL server version without the
// distribution suffix ("8.0.36-0ubuntu0.22.04.1" becomes "8.0.36").
func (i *Introspector) GetDatabaseVersion(ctx context.Context, db *sql.DB) (string, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return "", err
	}
	version, _, _ = strings.Cut(version, "-")
	return version, nil
}
