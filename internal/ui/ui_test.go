package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrinter(t *testing.T) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out, errOut bytes.Buffer
	return New(&out, &errOut, true), &out, &errOut
}

func TestMessage(t *testing.T) {
	p, out, _ := newTestPrinter(t)

	p.Message("user", "how many rows in customers?")
	p.Message("assistant", "There are **42** rows.")

	got := out.String()
	assert.Contains(t, got, "user ›")
	assert.Contains(t, got, "how many rows in customers?")
	assert.Contains(t, got, "assistant ›")
	assert.Contains(t, got, "42")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("user ›")), bytes.Index(out.Bytes(), []byte("assistant ›")))
}

func TestMarkdownPlain(t *testing.T) {
	p, _, _ := newTestPrinter(t)

	rendered, err := p.Markdown("# Orders\n\n- one\n- two")
	require.NoError(t, err)
	assert.Contains(t, rendered, "Orders")
	assert.Contains(t, rendered, "one")
	assert.NotContains(t, rendered, "\x1b[")
}

func TestStatusLines(t *testing.T) {
	p, out, errOut := newTestPrinter(t)

	p.Success("Connected to %s!", "shop")
	p.Warning("careful")
	p.Info("hint")
	p.Error("boom: %v", "bad")
	p.List([]string{"customers", "orders"})

	assert.Contains(t, out.String(), "✓ Connected to shop!")
	assert.Contains(t, out.String(), "⚠ careful")
	assert.Contains(t, out.String(), "ℹ hint")
	assert.Contains(t, out.String(), "  • orders\n")
	assert.Contains(t, errOut.String(), "✗ boom: bad")
	assert.NotContains(t, out.String(), "boom")
}

func TestTable(t *testing.T) {
	p, out, _ := newTestPrinter(t)

	require.NoError(t, p.Table([]string{"#", "Table"}, [][]string{{"1", "customers"}}))
	assert.Contains(t, out.String(), "customers")
}

func TestHeaderAndSection(t *testing.T) {
	p, out, _ := newTestPrinter(t)

	p.Header("dbchat", "Chat with your SQL database")
	p.Section("History")

	assert.Contains(t, out.String(), "dbchat")
	assert.Contains(t, out.String(), "Chat with your SQL database")
	assert.Contains(t, out.String(), "History")
}
