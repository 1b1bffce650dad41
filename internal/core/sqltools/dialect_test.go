package sqltools

import (
	"testing"

	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/stretchr/testify/assert"
)

func TestDialectHints(t *testing.T) {
	tests := []struct {
		name     string
		dialect  database.SQLDialect
		version  string
		contains []string
		empty    bool
	}{
		{name: "mysql 5.7", dialect: database.MySQL, version: "5.7.44", contains: []string{"MySQL 5.7.44", "Window functions"}},
		{name: "mysql 8", dialect: database.MySQL, version: "8.0.36", empty: true},
		{name: "sqlite old", dialect: database.SQLite, version: "3.22.0", contains: []string{"Window functions are not available."}},
		{name: "sqlite ancient", dialect: database.SQLite, version: "3.7.17", contains: []string{"Window functions", "Common table expressions"}},
		{name: "sqlite new", dialect: database.SQLite, version: "3.45.1", empty: true},
		{name: "postgres", dialect: database.PostgreSQL, version: "9.6", empty: true},
		{name: "prerelease", dialect: database.MySQL, version: "8.0.0-rc1", empty: true},
		{name: "garbage", dialect: database.MySQL, version: "MariaDB", empty: true},
		{name: "empty", dialect: database.MySQL, version: "", empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DialectHints(tt.dialect, tt.version)
			if tt.empty {
				assert.Empty(t, got)
				return
			}
			for _, c := range tt.contains {
				assert.Contains(t, got, c)
			}
		})
	}
}

func TestDialectName(t *testing.T) {
	assert.Equal(t, "PostgreSQL", DialectName(database.PostgreSQL))
	assert.Equal(t, "oracle", DialectName("oracle"))
}
