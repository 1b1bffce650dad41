// Package sqltools exposes the database-facing tools the SQL agent and the
// MCP server call: table listing, table description and query execution.
package sqltools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/dbchat/dbchat/internal/core/introspection"
	"github.com/dbchat/dbchat/internal/core/introspection/domain"
)

const (
	// DefaultSampleRows is the number of sample rows shown per table.
	DefaultSampleRows = 3
	// maxValueLength caps each rendered value in sample rows and results.
	maxValueLength = 100
)

// Toolkit runs tool calls against one database handle.
type Toolkit struct {
	adapter      database.Adapter
	introspector domain.Introspector
	sampleRows   int
}

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithSampleRows sets how many rows TableInfo samples per table. Zero
// disables sampling.
func WithSampleRows(n int) Option {
	return func(t *Toolkit) {
		if n >= 0 {
			t.sampleRows = n
		}
	}
}

// New creates a toolkit for a connected adapter.
func New(adapter database.Adapter, opts ...Option) (*Toolkit, error) {
	in, err := introspection.For(adapter.GetDialect())
	if err != nil {
		return nil, err
	}

	t := &Toolkit{
		adapter:      adapter,
		introspector: in,
		sampleRows:   DefaultSampleRows,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Dialect returns the dialect of the underlying handle.
func (t *Toolkit) Dialect() database.SQLDialect {
	return t.adapter.GetDialect()
}

// TableNames returns the usable table names.
func (t *Toolkit) TableNames(ctx context.Context) ([]string, error) {
	db := t.adapter.DB()
	if db == nil {
		return nil, database.ErrNotConnected
	}
	names, err := t.introspector.ListTables(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return names, nil
}

// ListTables returns the table names as a comma separated list.
func (t *Toolkit) ListTables(ctx context.Context) (string, error) {
	names, err := t.TableNames(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(names, ", "), nil
}

// TableInfo describes the comma separated tables in names: a CREATE TABLE
// statement per table followed by a few sample rows.
func (t *Toolkit) TableInfo(ctx context.Context, names string) (string, error) {
	requested := splitNames(names)
	if len(requested) == 0 {
		return "", fmt.Errorf("no table names given")
	}

	known, err := t.TableNames(ctx)
	if err != nil {
		return "", err
	}
	existing := make(map[string]bool, len(known))
	for _, n := range known {
		existing[n] = true
	}

	var missing []string
	for _, n := range requested {
		if !existing[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("table names %s not found in database", strings.Join(missing, ", "))
	}

	db := t.adapter.DB()
	quote := t.quoteIdent
	parts := make([]string, 0, len(requested))
	for _, name := range requested {
		table, err := t.introspector.IntrospectTable(ctx, db, name)
		if err != nil {
			return "", fmt.Errorf("failed to describe table %s: %w", name, err)
		}

		info := table.CreateStatement(quote)
		if t.sampleRows > 0 {
			sample, err := t.sample(ctx, name)
			if err != nil {
				return "", err
			}
			info += "\n\n" + sample
		}
		parts = append(parts, info)
	}

	return strings.Join(parts, "\n\n"), nil
}

func (t *Toolkit) sample(ctx context.Context, table string) (string, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", t.quoteIdent(table), t.sampleRows)
	rows, err := t.adapter.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to sample table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "/*\n%d rows from %s table:\n", t.sampleRows, table)
	b.WriteString(strings.Join(columns, "\t"))
	b.WriteString("\n")

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatValue(v)
		}
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteString("\n")
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	b.WriteString("*/")
	return b.String(), nil
}

// RunQuery executes query. Reads return their rows as a list of tuples,
// other statements report the number of affected rows.
func (t *Toolkit) RunQuery(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("empty query")
	}

	if !isReadQuery(query) {
		res, err := t.adapter.Execute(ctx, query)
		if err != nil {
			return "", err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return "Statement executed.", nil
		}
		return fmt.Sprintf("%d rows affected", affected), nil
	}

	rows, err := t.adapter.Query(ctx, query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var tuples []string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatLiteral(v)
		}
		tuples = append(tuples, "("+strings.Join(cells, ", ")+")")
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return "[" + strings.Join(tuples, ", ") + "]", nil
}

// ServerVersion returns the bare server version.
func (t *Toolkit) ServerVersion(ctx context.Context) (string, error) {
	db := t.adapter.DB()
	if db == nil {
		return "", database.ErrNotConnected
	}
	return t.introspector.GetDatabaseVersion(ctx, db)
}

func (t *Toolkit) quoteIdent(name string) string {
	if t.adapter.GetDialect() == database.MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// isReadQuery detects if a query returns rows.
func isReadQuery(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "WITH", "SHOW", "DESCRIBE", "EXPLAIN", "PRAGMA", "VALUES"} {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return false
}

func splitNames(names string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, n := range strings.Split(names, ",") {
		n = strings.Trim(strings.TrimSpace(n), "`\"")
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// formatValue renders a value for the sample block.
func formatValue(v any) string {
	var s string
	switch val := v.(type) {
	case nil:
		s = "NULL"
	case []byte:
		s = string(val)
	case time.Time:
		s = val.Format(time.RFC3339)
	default:
		s = fmt.Sprint(val)
	}
	return truncate(s)
}

// formatLiteral renders a value inside a result tuple; text is quoted.
func formatLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return "'" + truncate(string(val)) + "'"
	case string:
		return "'" + truncate(val) + "'"
	case time.Time:
		return "'" + val.Format(time.RFC3339) + "'"
	default:
		return truncate(fmt.Sprint(val))
	}
}

// truncate caps s at maxValueLength characters.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxValueLength {
		return s
	}
	return string([]rune(s)[:maxValueLength]) + "..."
}
