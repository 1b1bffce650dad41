// Package postgresql implements PostgreSQL database introspection.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dbchat/dbchat/internal/core/introspection/domain"
)

// Introspector implements domain.Introspector for PostgreSQL. Only the
// current schema is inspected.
type Introspector struct{}

// NewIntrospector creates a new PostgreSQL introspector.
func NewIntrospector() *Introspector {
	return &Introspector{}
}

// ListTables returns base tables and views of the current schema.
func (i *Introspector) ListTables(ctx context.Context, db *sql.DB) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
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
	columns, err := i.introspectColumns(ctx, db, tableName)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", tableName)
	}

	pk, err := i.introspectPrimaryKey(ctx, db, tableName)
	if err != nil {
		return nil, err
	}

	fks, err := i.introspectForeignKeys(ctx, db, tableName)
	if err != nil {
		return nil, err
	}

	return &domain.Table{
		Name:        tableName,
		Columns:     columns,
		PrimaryKey:  pk,
		ForeignKeys: fks,
	}, nil
}

// introspectColumns gets all columns for a table.
func (i *Introspector) introspectColumns(ctx context.Context, db *sql.DB, tableName string) ([]domain.Column, error) {
	query := `
		SELECT
			column_name,
			data_type,
			is_nullable,
			column_default,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []domain.Column
	for rows.Next() {
		var col domain.Column
		var isNullable string
		var defaultVal sql.NullString

		if err := rows.Scan(&col.Name, &col.Type, &isNullable, &defaultVal, &col.OrdinalPosition); err != nil {
			return nil, err
		}

		col.IsNullable = isNullable == "YES"
		if defaultVal.Valid {
			col.DefaultValue = &defaultVal.String
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// introspectPrimaryKey gets the primary key for a table.
func (i *Introspector) introspectPrimaryKey(ctx context.Context, db *sql.DB, tableName string) (*domain.PrimaryKey, error) {
	query := `
		SELECT tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = current_schema()
		  AND tc.table_name = $1
		  AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`

	rows, err := db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pkName string
	var columns []string
	for rows.Next() {
		var colName string
		if err := rows.Scan(&pkName, &colName); err != nil {
			return nil, err
		}
		columns = append(columns, colName)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, nil
	}
	return &domain.PrimaryKey{Name: pkName, Columns: columns}, nil
}

// introspectForeignKeys gets all foreign keys for a table.
func (i *Introspector) introspectForeignKeys(ctx context.Context, db *sql.DB, tableName string) ([]domain.ForeignKey, error) {
	query := `
		SELECT
			tc.constraint_name,
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name,
			rc.delete_rule
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
		  ON ccu.constraint_name = tc.constraint_name
		JOIN information_schema.referential_constraints AS rc
		  ON rc.constraint_name = tc.constraint_name
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema = current_schema()
		  AND tc.table_name = $1
		ORDER BY tc.constraint_name, kcu.ordinal_position
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

// GetDatabaseVersion returns the PostgreSQL server version without the
// build suffix.
func (i *Introspector) GetDatabaseVersion(ctx context.Context, db *sql.DB) (string, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SHOW server_version").Scan(&version); err != nil {
		return "", err
	}
	if fields := strings.Fields(version); len(fields) > 0 {
		version = fields[0]
	}
	return version, nil
}
