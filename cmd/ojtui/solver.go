package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/planglist"
	"github.com/programme-lv/ojclient/submctl"
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle = tabStyle.Bold(true).Underline(true)
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// solver is the problem page: a description or verdict panel above the
// code editor.
type solver struct {
	ctl    *submctl.Controller
	editor textarea.Model
	detail judgeapi.ProblemDetail
	width  int
}

func newSolver(ctl *submctl.Controller) solver {
	ed := textarea.New()
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.ShowLineNumbers = true
	ed.SetValue(ctl.Code())
	return solver{ctl: ctl, editor: ed}
}

func (s *solver) setSize(w, h int) {
	s.width = w
	s.editor.SetWidth(w)
	// half for the editor, the rest for header, panel and help
	s.editor.SetHeight(max(h/2, 5))
}

func (s *solver) open(detail judgeapi.ProblemDetail) tea.Cmd {
	s.detail = detail
	s.ctl.SetProblem(submctl.Problem{ID: detail.ID, Slug: detail.Slug, Title: detail.Title})
	s.editor.SetValue(s.ctl.Code())
	return s.editor.Focus()
}

func (s solver) update(msg tea.Msg) (solver, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyTab:
			next := planglist.Next(s.ctl.Language())
			if err := s.ctl.SetLanguage(string(next)); err == nil {
				s.editor.SetValue(s.ctl.Code())
			}
			return s, nil
		case tea.KeyCtrlD:
			if s.ctl.View() == submctl.ViewDescription {
				s.ctl.SetView(submctl.ViewSubmissions)
			} else {
				s.ctl.SetView(submctl.ViewDescription)
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return s, cmd
}

func (s solver) view(spinnerView string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(s.detail.Title))
	lang, err := planglist.Get(string(s.ctl.Language()))
	if err == nil {
		b.WriteString(dimStyle.Render("  " + lang.FullName))
	}
	b.WriteString("\n")
	b.WriteString(s.tabs() + "\n")

	var panel string
	if s.ctl.View() == submctl.ViewSubmissions {
		panel = s.verdictPanel(spinnerView)
	} else {
		panel = s.descriptionPanel()
	}
	if s.width > 2 {
		panel = panelStyle.Width(s.width - 2).Render(panel)
	} else {
		panel = panelStyle.Render(panel)
	}
	b.WriteString(panel + "\n")

	b.WriteString(s.editor.View() + "\n")
	b.WriteString(dimStyle.Render("ctrl+s submit, tab language, ctrl+d tab, esc back") + "\n")
	return b.String()
}

func (s solver) tabs() string {
	desc, subs := tabStyle, tabStyle
	if s.ctl.View() == submctl.ViewSubmissions {
		subs = activeTabStyle
	} else {
		desc = activeTabStyle
	}
	return desc.Render("Description") + subs.Render("Submissions")
}

func (s solver) descriptionPanel() string {
	var b strings.Builder
	b.WriteString(s.detail.Description + "\n")
	if s.detail.TimeLimitMs > 0 || s.detail.MemoryLimitMB > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\ntime limit: %d ms, memory limit: %d MB", s.detail.TimeLimitMs, s.detail.MemoryLimitMB)) + "\n")
	}
	for i, ex := range s.detail.Examples {
		fmt.Fprintf(&b, "\nExample %d\ninput:  %s\noutput: %s\n", i+1, ex.Input, ex.Output)
		if ex.Explanation != "" {
			b.WriteString(dimStyle.Render(ex.Explanation) + "\n")
		}
	}
	return b.String()
}

func (s solver) verdictPanel(spinnerView string) string {
	if s.ctl.IsLoading() {
		return spinnerView + " judging..."
	}

	res := s.ctl.Result()
	switch {
	case res.Error != "":
		return errStyle.Render(res.Error)
	case res.Verdict != nil:
		v := res.Verdict
		return fmt.Sprintf("%s\n%s\ntime: %.0f ms, memory: %.1f MB",
			submctl.VerdictStyle(v.Status).Render(v.Status),
			v.Message,
			v.ExecutionTimeMs,
			v.MemoryUsedBytes/(1<<20),
		)
	default:
		return dimStyle.Render("no submissions yet")
	}
}
