// Package introspection selects the introspector for a SQL dialect.
package introspection

import (
	"fmt"

	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/dbchat/dbchat/internal/core/introspection/domain"
	"github.com/dbchat/dbchat/internal/core/introspection/mysql"
	"github.com/dbchat/dbchat/internal/core/introspection/postgresql"
	"github.com/dbchat/dbchat/internal/core/introspection/sqlite"
)

// For returns the introspector for dialect.
func For(dialect database.SQLDialect) (domain.Introspector, error) {
	switch dialect {
	case database.PostgreSQL:
		return postgresql.NewIntrospector(), nil
	case database.MySQL:
		return mysql.NewIntrospector(), nil
	case database.SQLite:
		return sqlite.NewIntrospector(), nil
	default:
		return nil, fmt.Errorf("no introspector for dialect %q", dialect)
	}
}
