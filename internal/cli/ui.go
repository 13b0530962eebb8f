package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette & Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings and the browse title bar.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for the breadcrumb and emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// mark is a status icon with its color.
type mark struct {
	icon  string
	style lipgloss.Style
}

var (
	markSuccess = mark{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = mark{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarning = mark{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo    = mark{"›", lipgloss.NewStyle().Foreground(colorGray)}
	markSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

func (m mark) render() string { return m.style.Render(m.icon) }

const (
	iconArrow = "→"
	iconCrumb = "›"
)

// =============================================================================
// printer - styled status lines
// =============================================================================

// printer writes the human-facing lines of a command. Commands build it from
// cmd.OutOrStdout() so tests can capture what is printed.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (o printer) line(s string) { fmt.Fprintln(o.w, s) }

func (o printer) status(m mark, format string, args ...any) {
	o.line(m.render() + " " + fmt.Sprintf(format, args...))
}

func (o printer) success(format string, args ...any) { o.status(markSuccess, format, args...) }

func (o printer) errorf(format string, args ...any) { o.status(markError, format, args...) }

func (o printer) info(format string, args ...any) { o.status(markInfo, format, args...) }

func (o printer) warning(format string, args ...any) {
	o.line(markWarning.render() + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// detail prints an indented, dimmed line.
func (o printer) detail(format string, args ...any) {
	o.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (o printer) file(path string) {
	o.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func (o printer) keyValue(key, value string) {
	o.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// stats prints node count, zoom depth and formats on one dimmed line.
func (o printer) stats(nodeCount, depth int, formats []string) {
	parts := []string{fmt.Sprintf("%d nodes", nodeCount)}
	if depth > 0 {
		parts = append(parts, fmt.Sprintf("depth %d", depth))
	}
	if len(formats) > 0 {
		parts = append(parts, strings.Join(formats, ", "))
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	o.line("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// nextStep suggests a follow-up command.
func (o printer) nextStep(description, command string) {
	o.line(StyleDim.Render(description+":") + " " + styleCommand.Render(command))
}

func (o printer) newline() { o.line("") }

// breadcrumb joins labels root first, naming an unlabeled root "root".
func breadcrumb(labels []string) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		if l == "" && i == 0 {
			l = "root"
		}
		parts[i] = l
	}
	return strings.Join(parts, " "+iconCrumb+" ")
}
