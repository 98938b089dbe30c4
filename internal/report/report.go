package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/profile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
)

type styles struct {
	title   lipgloss.Style
	rule    lipgloss.Style
	heading lipgloss.Style
	total   lipgloss.Style
	project lipgloss.Style
	bullet  lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		rule:    r.NewStyle().Faint(true),
		heading: r.NewStyle().Bold(true),
		total:   r.NewStyle().Foreground(lipgloss.Color("2")),
		project: r.NewStyle().Foreground(lipgloss.Color("3")),
		bullet:  r.NewStyle().Foreground(lipgloss.Color("2")),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		border:  r.NewStyle().Faint(true),
	}
}

type Renderer struct {
	w      io.Writer
	format Format
	styles styles
	// TopN is only used for the slowest tasks heading.
	TopN int
}

// New returns a renderer for w. FormatAuto resolves to the terminal format
// when w is a colour capable TTY and to plain text otherwise.
func New(w io.Writer, format Format) *Renderer {
	if format == FormatAuto {
		format = FormatText
		if f, ok := w.(*os.File); ok {
			format = DetectFormat(f)
		}
	}
	lr := lipgloss.NewRenderer(w)
	if format == FormatTerminal {
		lr.SetColorProfile(termenv.ANSI256)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		w:      w,
		format: format,
		styles: newStyles(lr),
		TopN:   10,
	}
}

func (r *Renderer) Format() Format {
	return r.format
}

func (r *Renderer) Render(a *profile.Analysis) error {
	if r.format == FormatJSON {
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\n", r.styles.title.Render("📊 Gradle Build Profile Analysis"))
	fmt.Fprintf(&sb, "%s\n", r.styles.rule.Render(strings.Repeat("=", 60)))
	r.writeSummary(&sb, a)
	r.writeSlowestTasks(&sb, a.SlowestTasks)
	r.writeProjectSummary(&sb, a.ProjectSummary)
	r.writeTips(&sb, a.OptimizationTips)
	_, err := io.WriteString(r.w, sb.String())
	return err
}

func (r *Renderer) writeSummary(sb *strings.Builder, a *profile.Analysis) {
	fmt.Fprintf(sb, "\n%s\n", r.styles.heading.Render("Build Summary"))
	fmt.Fprintf(sb, "Total build time: %s\n\n", r.styles.total.Render(FormatDuration(a.TotalTime)))
}

func (r *Renderer) writeSlowestTasks(sb *strings.Builder, tasks []profile.TaskSummary) {
	fmt.Fprintf(sb, "%s\n", r.styles.heading.Render(fmt.Sprintf("🐌 Top %d Slowest Tasks", r.TopN)))

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.Name, FormatDuration(t.Duration), fmt.Sprintf("%.1f%%", t.Percentage)})
	}
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.styles.border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.header
			}
			return r.styles.cell
		}).
		Headers("Task", "Duration", "% of Total").
		Rows(rows...)
	fmt.Fprintf(sb, "%s\n\n", tbl.String())
}

func (r *Renderer) writeProjectSummary(sb *strings.Builder, projects []profile.ProjectSummary) {
	fmt.Fprintf(sb, "%s\n", r.styles.heading.Render("📦 Project Summary"))
	for _, p := range projects {
		fmt.Fprintf(sb, "  %s - %s (%d tasks)\n", r.styles.project.Render(p.Name), FormatDuration(p.TotalDuration), p.TaskCount)
	}
	sb.WriteString("\n")
}

func (r *Renderer) writeTips(sb *strings.Builder, tips []string) {
	fmt.Fprintf(sb, "%s\n", r.styles.heading.Render("💡 Optimization Tips"))
	for _, tip := range tips {
		fmt.Fprintf(sb, "  %s %s\n", r.styles.bullet.Render("•"), tip)
	}
	sb.WriteString("\n")
}
