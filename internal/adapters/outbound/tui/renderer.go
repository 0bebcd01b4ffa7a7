package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pydoclens/pydoclens/internal/domain"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Bold(true).Foreground(fg)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderDiagnostics renders annotation sets grouped by file. Positions are
// shown 1-based, the way compilers print them. Paths under root are shown
// relative to it.
func RenderDiagnostics(sets []domain.AnnotationSet, root string) string {
	var b strings.Builder

	files, total := 0, 0
	for _, set := range sets {
		if len(set.Annotations) == 0 {
			continue
		}
		files++
		total += len(set.Annotations)

		b.WriteString(fileStyle.Render(displayPath(set.Target, root)))
		b.WriteString("\n")
		for _, a := range set.Annotations {
			pos := fmt.Sprintf("%d:%d", a.Range.StartLine+1, a.Range.StartColumn+1)
			fmt.Fprintf(&b, "  %s  %s  %s\n",
				dimStyle.Render(padRight(pos, 8)),
				severityTag(a.Severity),
				a.Message,
			)
		}
		b.WriteString("\n")
	}

	if total == 0 {
		b.WriteString(passStyle.Render("No docstring problems found."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(separatorLine)
	b.WriteString("\n")
	b.WriteString(failStyle.Render(fmt.Sprintf("%s in %s", plural(total, "problem"), plural(files, "file"))))
	b.WriteString("\n")
	return b.String()
}

// RenderProblemMatcher renders one `file:line:col: severity: message` line
// per annotation, the format editor problem matchers and CI log scrapers
// expect. No styling.
func RenderProblemMatcher(sets []domain.AnnotationSet, root string) string {
	var b strings.Builder
	for _, set := range sets {
		path := displayPath(set.Target, root)
		for _, a := range set.Annotations {
			fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n",
				path, a.Range.StartLine+1, a.Range.StartColumn+1, a.Severity, a.Message)
		}
	}
	return b.String()
}

func severityTag(severity domain.Severity) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func displayPath(target, root string) string {
	if root == "" || !filepath.IsAbs(target) {
		return target
	}
	rel, err := filepath.Rel(root, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return target
	}
	return rel
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats run history for terminal output.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 60)) + "\n\n")

	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		scope := string(e.Scope.Kind)
		if e.Scope.Path != "" {
			scope = filepath.Base(e.Scope.Path)
		}

		status := passStyle.Render(padRight(e.Status, 8))
		switch {
		case e.Error != "":
			status = errorTagStyle.Render(padRight("ERROR", 8))
		case e.Annotations > 0:
			status = failStyle.Render(padRight(e.Status, 8))
		}

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(e.Time.Local().Format("2006-01-02 15:04:05")),
			faintStyle.Render(hash),
			padRight(string(e.Trigger), 8),
			status,
			padRight(scope, 24),
		)
		if e.Error != "" {
			line += "  " + dimStyle.Render(e.Error)
		} else {
			line += "  " + dimStyle.Render(plural(e.Annotations, "problem"))
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderProbe renders the availability checks.
func RenderProbe(p domain.ProbeReport) string {
	var b strings.Builder
	if p.InterpreterChecked {
		fmt.Fprintf(&b, "  %s interpreter  %s\n", mark(p.InterpreterFound), dimStyle.Render(p.Interpreter))
	}
	fmt.Fprintf(&b, "  %s pydoctest    %s\n", mark(p.ToolFound), dimStyle.Render(p.ToolCommand))
	return b.String()
}

func mark(ok bool) string {
	if ok {
		return passStyle.Render("●")
	}
	return failStyle.Render("●")
}
