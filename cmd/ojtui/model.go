package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/problems"
	"github.com/programme-lv/ojclient/session"
	"github.com/programme-lv/ojclient/submctl"
)

type deps struct {
	ctx      context.Context
	session  *session.Manager
	problems *problems.Service
	submit   *submctl.Controller
	routes   <-chan session.Route
}

type screen int

const (
	screenMenu screen = iota
	screenLogin
	screenRegister
	screenProblems
	screenSolver
	screenCreate
)

type (
	routeMsg    struct{ route session.Route }
	initDoneMsg struct{}
	authDoneMsg struct{ err error }
	problemsMsg struct {
		items []judgeapi.ProblemSummary
		err   error
	}
	problemMsg struct {
		detail *judgeapi.ProblemDetail
		err    error
	}
	submitDoneMsg struct{ err error }
	createDoneMsg struct {
		created *judgeapi.ProblemDetail
		err     error
	}
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3498db"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e056fd"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

type model struct {
	deps   deps
	screen screen

	login    form
	register form
	create   form
	list     problemList
	solver   solver
	spinner  spinner.Model

	status string
	info   string
	width  int
	height int
}

func initialModel(d deps) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		deps:     d,
		screen:   screenMenu,
		login:    newLoginForm(),
		register: newRegisterForm(),
		create:   newDraftForm(),
		list:     newProblemList(),
		solver:   newSolver(d.submit),
		spinner:  sp,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.initSession(),
		waitForRoute(m.deps.routes),
		m.spinner.Tick,
	)
}

func (m model) initSession() tea.Cmd {
	return func() tea.Msg {
		m.deps.session.Init(m.deps.ctx)
		return initDoneMsg{}
	}
}

func waitForRoute(routes <-chan session.Route) tea.Cmd {
	if routes == nil {
		return nil
	}
	return func() tea.Msg {
		route, ok := <-routes
		if !ok {
			return nil
		}
		return routeMsg{route: route}
	}
}

func (m model) loadProblems() tea.Cmd {
	return func() tea.Msg {
		items, err := m.deps.problems.List(m.deps.ctx)
		return problemsMsg{items: items, err: err}
	}
}

func (m model) loadProblem(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.deps.problems.Get(m.deps.ctx, id)
		return problemMsg{detail: detail, err: err}
	}
}

func (m model) busy() bool {
	return m.deps.session.IsLoading() || !m.deps.submit.CanSubmit()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.setSize(msg.Width, msg.Height-4)
		m.solver.setSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case routeMsg:
		return m.navigate(msg.route)

	case initDoneMsg:
		if m.deps.session.IsLoggedIn() {
			return m.navigate(session.RouteProblems)
		}
		return m, nil

	case authDoneMsg:
		if msg.err != nil {
			if m.screen == screenRegister {
				m.register.err = m.deps.session.LastError()
			} else {
				m.login.err = m.deps.session.LastError()
			}
		}
		return m, nil

	case problemsMsg:
		if msg.err != nil {
			m.status = apierror.Render(msg.err, "failed to load problems")
			return m, nil
		}
		m.status = ""
		return m, m.list.setItems(msg.items)

	case problemMsg:
		if msg.err != nil {
			m.status = apierror.Render(msg.err, "failed to load problem")
			return m, nil
		}
		m.status = ""
		m.screen = screenSolver
		return m, m.solver.open(*msg.detail)

	case createDoneMsg:
		var draftErr *problems.DraftError
		switch {
		case errors.As(msg.err, &draftErr):
			m.create.reject(msg.err)
			return m, nil
		case msg.err != nil:
			m.create.err = apierror.Render(msg.err, "failed to create problem")
			return m, nil
		}
		m.create.reset()
		m.info = fmt.Sprintf("created %s", msg.created.Slug)
		m.screen = screenProblems
		return m, m.loadProblems()

	case submitDoneMsg:
		// the verdict panel reads the controller on render
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenRegister:
		return m.updateRegister(msg)
	case screenProblems:
		return m.updateProblems(msg)
	case screenSolver:
		return m.updateSolver(msg)
	case screenCreate:
		return m.updateCreate(msg)
	default:
		return m.updateMenu(msg)
	}
}

// navigate applies a session navigation intent and keeps listening for
// the next one.
func (m model) navigate(route session.Route) (tea.Model, tea.Cmd) {
	next := waitForRoute(m.deps.routes)
	switch route {
	case session.RouteProblems:
		m.screen = screenProblems
		m.login.reset()
		m.register.reset()
		return m, tea.Batch(next, m.loadProblems())
	default:
		m.screen = screenMenu
		return m, next
	}
}

func (m model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "l":
		m.screen = screenLogin
		return m, m.login.focus(0)
	case "r":
		m.screen = screenRegister
		return m, m.register.focus(0)
	case "p":
		if m.deps.session.IsLoggedIn() {
			m.screen = screenProblems
			return m, m.loadProblems()
		}
		m.status = "log in to browse problems"
	case "c":
		if m.deps.session.IsTeacher() {
			m.screen = screenCreate
			return m, m.create.focus(0)
		}
	case "o":
		if m.deps.session.IsLoggedIn() {
			sess, ctx := m.deps.session, m.deps.ctx
			return m, func() tea.Msg {
				sess.Logout(ctx)
				return nil
			}
		}
	}
	return m, nil
}

func (m model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			m.screen = screenMenu
			return m, nil
		case tea.KeyEnter:
			if !m.login.onLastField() {
				return m, m.login.focus(m.login.focused + 1)
			}
			if m.deps.session.IsLoading() {
				return m, nil
			}
			m.login.clearErrors()
			email, password, err := m.login.credentials()
			if err != nil {
				m.login.reject(err)
				return m, nil
			}
			sess, ctx := m.deps.session, m.deps.ctx
			return m, func() tea.Msg {
				return authDoneMsg{err: sess.Login(ctx, email, password)}
			}
		}
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

func (m model) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			m.screen = screenMenu
			return m, nil
		case tea.KeyEnter:
			if !m.register.onLastField() {
				return m, m.register.focus(m.register.focused + 1)
			}
			if m.deps.session.IsLoading() {
				return m, nil
			}
			m.register.clearErrors()
			in, err := m.register.registerInput()
			if err != nil {
				m.register.reject(err)
				return m, nil
			}
			sess, ctx := m.deps.session, m.deps.ctx
			return m, func() tea.Msg {
				return authDoneMsg{err: sess.Register(ctx, in)}
			}
		}
	}

	var cmd tea.Cmd
	m.register, cmd = m.register.update(msg)
	return m, cmd
}

// updateCreate drives the teacher's create problem form. An invalid draft
// is refused here, before any request.
func (m model) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.deps.session.IsTeacher() {
		m.screen = screenMenu
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			m.screen = screenMenu
			return m, nil
		case tea.KeyEnter:
			if !m.create.onLastField() {
				return m, m.create.focus(m.create.focused + 1)
			}
			m.create.clearErrors()
			draft, err := m.create.draft()
			if err != nil {
				m.create.reject(err)
				return m, nil
			}
			svc, ctx := m.deps.problems, m.deps.ctx
			return m, func() tea.Msg {
				created, err := svc.Create(ctx, draft)
				return createDoneMsg{created: created, err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.create, cmd = m.create.update(msg)
	return m, cmd
}

func (m model) updateProblems(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.list.filtering() {
		switch key.Type {
		case tea.KeyEsc:
			m.screen = screenMenu
			m.info = ""
			return m, nil
		case tea.KeyEnter:
			if p, ok := m.list.selected(); ok {
				return m, m.loadProblem(p.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.update(msg)
	return m, cmd
}

func (m model) updateSolver(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			m.screen = screenProblems
			return m, nil
		case tea.KeyCtrlS:
			if !m.deps.submit.CanSubmit() {
				return m, nil
			}
			ctl, ctx := m.deps.submit, m.deps.ctx
			ctl.SetCode(m.solver.editor.Value())
			return m, func() tea.Msg {
				_, err := ctl.Submit(ctx)
				return submitDoneMsg{err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.solver, cmd = m.solver.update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("online judge"))
	if u := m.deps.session.User(); u != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s (%s)", u.Username, u.Role)))
	}
	if m.busy() {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n\n")

	switch m.screen {
	case screenLogin:
		b.WriteString(m.login.view("Log in"))
	case screenRegister:
		b.WriteString(m.register.view("Register"))
	case screenProblems:
		if m.info != "" {
			b.WriteString(dimStyle.Render(m.info) + "\n")
		}
		b.WriteString(m.list.view())
	case screenSolver:
		b.WriteString(m.solver.view(m.spinner.View()))
	case screenCreate:
		b.WriteString(m.create.view("New problem"))
	default:
		b.WriteString(m.menuView())
	}

	if m.status != "" {
		b.WriteString("\n" + errStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m model) menuView() string {
	k := keyStyle.Render
	if m.deps.session.IsTeacher() {
		return fmt.Sprintf("%s problems  %s new problem  %s log out  %s quit\n", k("[p]"), k("[c]"), k("[o]"), k("[q]"))
	}
	if m.deps.session.IsLoggedIn() {
		return fmt.Sprintf("%s problems  %s log out  %s quit\n", k("[p]"), k("[o]"), k("[q]"))
	}
	return fmt.Sprintf("%s log in  %s register  %s quit\n", k("[l]"), k("[r]"), k("[q]"))
}
