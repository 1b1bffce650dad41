// Package domain contains domain models for database introspection.
package domain

import (
	"fmt"
	"strings"
)

// Table represents a database table.
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  *PrimaryKey
	ForeignKeys []ForeignKey
}

// Column represents a table column.
type Column struct {
	Name            string
	Type            string // Database-specific type (e.g., "VARCHAR", "INTEGER")
	IsNullable      bool
	DefaultValue    *string
	OrdinalPosition int
}

// PrimaryKey represents a primary key constraint.
type PrimaryKey struct {
	Name    string
	Columns []string
}

// ForeignKey represents a foreign key constraint.
type ForeignKey struct {
	Name              string
	ColumnNames       []string
	ReferencedTable   string
	ReferencedColumns []string
	OnDelete          ReferentialAction
}

// ReferentialAction represents a foreign key action.
type ReferentialAction string

const (
	// NoAction does nothing on delete/update.
	NoAction ReferentialAction = "NO ACTION"
	// Cascade deletes/updates related records.
	Cascade ReferentialAction = "CASCADE"
	// Restrict prevents deletion/update if related records exist.
	Restrict ReferentialAction = "RESTRICT"
	// SetNull sets the foreign key to NULL.
	SetNull ReferentialAction = "SET NULL"
	// SetDefault sets the foreign key to its default value.
	SetDefault ReferentialAction = "SET DEFAULT"
)

// ParseReferentialAction maps a rule as reported by the catalog.
func ParseReferentialAction(action string) ReferentialAction {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case "CASCADE":
		return Cascade
	case "RESTRICT":
		return Restrict
	case "SET NULL":
		return SetNull
	case "SET DEFAULT":
		return SetDefault
	default:
		return NoAction
	}
}

// CreateStatement renders the table as a CREATE TABLE statement. quote is
// applied to every identifier.
func (t *Table) CreateStatement(quote func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", quote(t.Name))

	lines := make([]string, 0, len(t.Columns)+len(t.ForeignKeys)+1)
	for _, col := range t.Columns {
		line := "\t" + quote(col.Name) + " " + col.Type
		if !col.IsNullable {
			line += " NOT NULL"
		}
		if col.DefaultValue != nil {
			line += " DEFAULT " + *col.DefaultValue
		}
		lines = append(lines, line)
	}

	if t.PrimaryKey != nil && len(t.PrimaryKey.Columns) > 0 {
		lines = append(lines, "\tPRIMARY KEY ("+quoteAll(t.PrimaryKey.Columns, quote)+")")
	}

	for _, fk := range t.ForeignKeys {
		line := fmt.Sprintf("\tFOREIGN KEY(%s) REFERENCES %s (%s)",
			quoteAll(fk.ColumnNames, quote), quote(fk.ReferencedTable), quoteAll(fk.ReferencedColumns, quote))
		if fk.OnDelete != "" && fk.OnDelete != NoAction {
			line += " ON DELETE " + string(fk.OnDelete)
		}
		lines = append(lines, line)
	}

	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	return b.String()
}

func quoteAll(names []string, quote func(string) string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	return strings.Join(quoted, ", ")
}
