package database

import (
	"fmt"
	"strings"
)

// Kind is the database kind a user picks in the configuration panel.
type Kind string

const (
	// KindPostgres selects PostgreSQL.
	KindPostgres Kind = "PostgreSQL"
	// KindMySQL selects MySQL.
	KindMySQL Kind = "MySQL"
	// KindSQLite selects SQLite.
	KindSQLite Kind = "SQLite"
)

// Kinds returns the supported kinds in display order.
func Kinds() []Kind {
	return []Kind{KindPostgres, KindMySQL, KindSQLite}
}

// ParseKind accepts display names and common aliases, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgresql", "postgres", "pg":
		return KindPostgres, nil
	case "mysql":
		return KindMySQL, nil
	case "sqlite", "sqlite3":
		return KindSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database kind %q", s)
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}
