// Package ui renders dbchat output in the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	// Role label colors
	userLabel      = color.New(color.FgGreen, color.Bold)
	assistantLabel = color.New(color.FgCyan, color.Bold)
)

// Printer writes styled output. The zero value is not usable; use New.
type Printer struct {
	out   io.Writer
	err   io.Writer
	plain bool
}

// New returns a printer writing to out and errOut. A plain printer renders
// markdown without terminal styling.
func New(out, errOut io.Writer, plain bool) *Printer {
	return &Printer{out: out, err: errOut, plain: plain}
}

// Default prints to the process stdout and stderr.
var Default = New(os.Stdout, os.Stderr, false)

func (p *Printer) width() int {
	if p.plain {
		return 80
	}
	if w := pterm.GetTerminalWidth(); w > 0 {
		return w
	}
	return 80
}

// Header prints a boxed title.
func (p *Printer) Header(title, subtitle string) {
	header := lipgloss.NewStyle().
		Width(p.width()-2).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render(title),
				SecondaryStyle.Render(subtitle),
			),
		)

	fmt.Fprintln(p.out, header)
}

// Success prints a success message
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintln(p.out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Error prints an error message to the error stream.
func (p *Printer) Error(format string, args ...interface{}) {
	fmt.Fprintln(p.err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...interface{}) {
	fmt.Fprintln(p.out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Info prints an info message
func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintln(p.out, InfoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// Section prints an underlined section title.
func (p *Printer) Section(title string) {
	section := lipgloss.NewStyle().
		Width(p.width()).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(title)

	fmt.Fprintln(p.out, section)
}

// List prints a bulleted list
func (p *Printer) List(items []string) {
	for _, item := range items {
		fmt.Fprintf(p.out, "  • %s\n", item)
	}
}

// Table prints a table with a header row.
func (p *Printer) Table(headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, table)
	return nil
}

// Markdown renders content as terminal markdown.
func (p *Printer) Markdown(content string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(p.width() - 4)}
	if p.plain {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// Message prints one conversation entry: a colored role label followed by
// the content rendered as markdown.
func (p *Printer) Message(role, content string) {
	label := assistantLabel
	if role == "user" {
		label = userLabel
	}
	label.Fprintf(p.out, "%s ›\n", role)

	rendered, err := p.Markdown(content)
	if err != nil {
		fmt.Fprintln(p.out, content)
		return
	}
	fmt.Fprint(p.out, strings.TrimLeft(rendered, "\n"))
}

// Spinner starts a spinner with text. Stop it with Success, Fail or Stop.
func (p *Printer) Spinner(text string) (*pterm.SpinnerPrinter, error) {
	return pterm.DefaultSpinner.WithWriter(p.out).WithRemoveWhenDone(true).Start(text)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) { Default.Success(format, args...) }

// PrintError prints an error message
func PrintError(format string, args ...interface{}) { Default.Error(format, args...) }

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) { Default.Warning(format, args...) }

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) { Default.Info(format, args...) }
