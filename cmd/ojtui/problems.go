package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/programme-lv/ojclient/judgeapi"
)

type problemItem struct {
	p judgeapi.ProblemSummary
}

func (i problemItem) Title() string       { return i.p.Title }
func (i problemItem) Description() string { return fmt.Sprintf("%s, %s", i.p.Slug, i.p.Difficulty) }
func (i problemItem) FilterValue() string { return i.p.Title + " " + i.p.Slug }

type problemList struct {
	list list.Model
}

func newProblemList() problemList {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Problems"
	l.SetShowHelp(false)
	return problemList{list: l}
}

func (p *problemList) setSize(w, h int) {
	p.list.SetSize(w, h)
}

func (p *problemList) setItems(problems []judgeapi.ProblemSummary) tea.Cmd {
	items := make([]list.Item, 0, len(problems))
	for _, pr := range problems {
		items = append(items, problemItem{p: pr})
	}
	return p.list.SetItems(items)
}

// filtering reports whether keys belong to the filter input.
func (p problemList) filtering() bool {
	return p.list.FilterState() == list.Filtering
}

func (p problemList) selected() (judgeapi.ProblemSummary, bool) {
	item, ok := p.list.SelectedItem().(problemItem)
	if !ok {
		return judgeapi.ProblemSummary{}, false
	}
	return item.p, true
}

func (p problemList) update(msg tea.Msg) (problemList, tea.Cmd) {
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p problemList) view() string {
	return p.list.View() + "\n" + dimStyle.Render("/ filter, enter open, esc back") + "\n"
}
