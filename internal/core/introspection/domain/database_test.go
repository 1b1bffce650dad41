package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateStatement(t *testing.T) {
	def := "0"
	table := &Table{
		Name: "orders",
		Columns: []Column{
			{Name: "id", Type: "INTEGER", OrdinalPosition: 1},
			{Name: "customer_id", Type: "INTEGER", IsNullable: true, OrdinalPosition: 2},
			{Name: "total", Type: "REAL", DefaultValue: &def, OrdinalPosition: 3},
		},
		PrimaryKey: &PrimaryKey{Name: "PRIMARY", Columns: []string{"id"}},
		ForeignKeys: []ForeignKey{{
			Name:              "fk_orders_0",
			ColumnNames:       []string{"customer_id"},
			ReferencedTable:   "customers",
			ReferencedColumns: []string{"id"},
			OnDelete:          Cascade,
		}},
	}

	quote := func(s string) string { return `"` + s + `"` }

	want := "CREATE TABLE \"orders\" (\n" +
		"\t\"id\" INTEGER NOT NULL,\n" +
		"\t\"customer_id\" INTEGER,\n" +
		"\t\"total\" REAL NOT NULL DEFAULT 0,\n" +
		"\tPRIMARY KEY (\"id\"),\n" +
		"\tFOREIGN KEY(\"customer_id\") REFERENCES \"customers\" (\"id\") ON DELETE CASCADE\n" +
		")"
	assert.Equal(t, want, table.CreateStatement(quote))
}

func TestParseReferentialAction(t *testing.T) {
	assert.Equal(t, Cascade, ParseReferentialAction("cascade"))
	assert.Equal(t, SetNull, ParseReferentialAction("SET NULL"))
	assert.Equal(t, NoAction, ParseReferentialAction(""))
}
