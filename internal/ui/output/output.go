// Package output creates termenv outputs with consistent color handling
// and renders diagnostics for the terminal.
package output

import (
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/ui/style"
)

// ColorProfile returns Ascii when NO_COLOR is set and the detected terminal profile otherwise.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a termenv.Output for w. A nil writer means os.Stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// WriteDiagnostics renders diagnostics one per line in compiler format:
//
//	src/fileA.ts:1:21 - error TS1479: message
//
// A trailing summary line reports the error count, or a check mark when there are none.
func WriteDiagnostics(out *termenv.Output, diagnostics []domain.Diagnostic) error {
	errorCount := 0
	for _, d := range diagnostics {
		if d.Category == domain.CategoryError {
			errorCount++
		}
		if _, err := out.WriteString(formatDiagnostic(out, d) + "\n"); err != nil {
			return err
		}
	}

	var summary string
	switch errorCount {
	case 0:
		summary = out.String(style.Check + " no problems found").Foreground(color(style.Green)).String()
	case 1:
		summary = out.String(style.Cross + " found 1 error").Foreground(color(style.Red)).String()
	default:
		summary = out.String(style.Cross + " found " + strconv.Itoa(errorCount) + " errors").
			Foreground(color(style.Red)).String()
	}
	_, err := out.WriteString(summary + "\n")
	return err
}

// WriteDiagnosticsJSON writes one JSON object per diagnostic and line, with sorted keys.
func WriteDiagnosticsJSON(w io.Writer, diagnostics []domain.Diagnostic) error {
	opts := &ojg.Options{Sort: true}
	for _, d := range diagnostics {
		line := oj.JSON(map[string]any{
			"file":     d.File,
			"line":     d.Line,
			"column":   d.Column,
			"code":     d.Code,
			"category": d.Category.String(),
			"message":  d.Message,
		}, opts)
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func formatDiagnostic(out *termenv.Output, d domain.Diagnostic) string {
	location := out.String(d.File + ":" + strconv.Itoa(d.Line) + ":" + strconv.Itoa(d.Column)).
		Foreground(color(style.Iris)).String()

	categoryColor := style.Red
	if d.Category == domain.CategoryWarning {
		categoryColor = style.Yellow
	}
	category := out.String(d.Category.String()).Foreground(color(categoryColor)).String()
	code := out.String("TS" + strconv.Itoa(d.Code)).Foreground(color(style.Slate)).String()

	return location + " - " + category + " " + code + ": " + d.Message
}

func color(c lipgloss.Color) termenv.Color {
	return termenv.RGBColor(string(c))
}
