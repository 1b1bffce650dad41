package sqltools

import (
	"fmt"
	"strings"

	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/hashicorp/go-version"
)

type featureGate struct {
	dialect    database.SQLDialect
	constraint version.Constraints
	hint       string
}

var featureGates = []featureGate{
	{database.MySQL, version.MustConstraints(version.NewConstraint("< 8.0")),
		"Window functions and common table expressions (WITH) are not available; use subqueries and joins."},
	{database.SQLite, version.MustConstraints(version.NewConstraint("< 3.25")),
		"Window functions are not available."},
	{database.SQLite, version.MustConstraints(version.NewConstraint("< 3.8.3")),
		"Common table expressions (WITH) are not available."},
}

// DialectHints returns prompt guidance for features the server version
// lacks. Unparseable versions yield no hints.
func DialectHints(dialect database.SQLDialect, serverVersion string) string {
	if serverVersion == "" {
		return ""
	}
	v, err := version.NewVersion(serverVersion)
	if err != nil {
		return ""
	}
	core := v.Core()

	var hints []string
	for _, gate := range featureGates {
		if gate.dialect == dialect && gate.constraint.Check(core) {
			hints = append(hints, gate.hint)
		}
	}
	if len(hints) == 0 {
		return ""
	}
	return fmt.Sprintf("The server runs %s %s. %s", DialectName(dialect), serverVersion, strings.Join(hints, " "))
}

// DialectName returns the human name of a dialect.
func DialectName(dialect database.SQLDialect) string {
	switch dialect {
	case database.PostgreSQL:
		return "PostgreSQL"
	case database.MySQL:
		return "MySQL"
	case database.SQLite:
		return "SQLite"
	default:
		return string(dialect)
	}
}
