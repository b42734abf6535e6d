package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/problems"
	"github.com/programme-lv/ojclient/session"
)

type field struct {
	// key names the field in validation errors
	key   string
	label string
	input textinput.Model
	// keep survives reset
	keep bool
}

// form is a column of text inputs with one focused at a time.
type form struct {
	fields    []field
	focused   int
	err       string
	fieldErrs map[string]string
}

func newField(key, label, placeholder string, secret bool) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 156
	ti.Width = 40
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return field{key: key, label: label, input: ti}
}

const (
	loginEmail = iota
	loginPassword
)

func newLoginForm() form {
	return form{fields: []field{
		loginEmail:    newField(session.FieldEmail, "Email", "you@example.com", false),
		loginPassword: newField(session.FieldPassword, "Password", "", true),
	}}
}

const (
	regUsername = iota
	regEmail
	regFullName
	regPassword
	regConfirm
	regRole
)

func newRegisterForm() form {
	role := newField(session.FieldRole, "Role", "student or teacher", false)
	role.input.SetValue(string(judgeapi.RoleStudent))
	role.keep = true

	minLen := fmt.Sprintf("at least %d characters", session.MinPasswordLen)
	return form{fields: []field{
		regUsername: newField(session.FieldUsername, "Username", "", false),
		regEmail:    newField(session.FieldEmail, "Email", "you@example.com", false),
		regFullName: newField(session.FieldFullName, "Full name", "", false),
		regPassword: newField(session.FieldPassword, "Password", minLen, true),
		regConfirm:  newField(session.FieldConfirmPassword, "Confirm password", "", true),
		regRole:     role,
	}}
}

func (f *form) focus(i int) tea.Cmd {
	if i < 0 || i >= len(f.fields) {
		return nil
	}
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focused = i
	return f.fields[i].input.Focus()
}

func (f form) onLastField() bool {
	return f.focused == len(f.fields)-1
}

func (f form) value(i int) string {
	return f.fields[i].input.Value()
}

func (f *form) reset() {
	for i := range f.fields {
		if !f.fields[i].keep {
			f.fields[i].input.SetValue("")
		}
	}
	f.clearErrors()
	f.focus(0)
}

func (f *form) clearErrors() {
	f.err = ""
	f.fieldErrs = nil
}

// reject records per-field messages from a validation error. Other errors
// go to the form-wide line.
func (f *form) reject(err error) {
	var formErr *session.FormError
	var draftErr *problems.DraftError
	switch {
	case errors.As(err, &formErr):
		f.fieldErrs = formErr.Fields
	case errors.As(err, &draftErr):
		f.fieldErrs = draftErr.Fields
	default:
		f.err = err.Error()
	}
}

func (f form) credentials() (email, password string, err error) {
	email, password = f.value(loginEmail), f.value(loginPassword)
	return email, password, session.ValidateLogin(email, password)
}

func (f form) registerInput() (session.RegisterInput, error) {
	in := session.RegisterInput{
		Username: f.value(regUsername),
		Email:    f.value(regEmail),
		FullName: f.value(regFullName),
		Password: f.value(regPassword),
		Role:     judgeapi.Role(strings.ToLower(strings.TrimSpace(f.value(regRole)))),
	}
	if in.Role == "" {
		in.Role = judgeapi.RoleStudent
	}
	return in, session.ValidateRegister(in, f.value(regConfirm))
}

const (
	draftTitle = iota
	draftSlug
	draftDescription
	draftExampleIn
	draftExampleOut
	draftTestIn
	draftTestOut
	draftTimeLimit
)

// newDraftForm is the teacher's create problem form with one example and
// at most one hidden test.
func newDraftForm() form {
	return form{fields: []field{
		draftTitle:       newField("title", "Title", "", false),
		draftSlug:        newField("slug", "Slug", "generated from the title", false),
		draftDescription: newField("description", "Description", "", false),
		draftExampleIn:   newField("examples", "Example input", "", false),
		draftExampleOut:  newField("example_output", "Example output", "", false),
		draftTestIn:      newField("tests", "Hidden test input", "optional", false),
		draftTestOut:     newField("test_output", "Hidden test output", "optional", false),
		draftTimeLimit:   newField("time_limit", "Time limit (s)", fmt.Sprint(problems.DefaultTimeLimitSec), false),
	}}
}

// draft builds a validated draft, or returns a *problems.DraftError.
func (f form) draft() (problems.Draft, error) {
	d := problems.NewDraft()
	d.SetTitle(f.value(draftTitle))
	if s := strings.TrimSpace(f.value(draftSlug)); s != "" {
		d.Slug = s
	}
	d.Description = f.value(draftDescription)
	d.Examples = []problems.Example{{Input: f.value(draftExampleIn), Output: f.value(draftExampleOut)}}
	if in, out := f.value(draftTestIn), f.value(draftTestOut); in != "" || out != "" {
		d.HiddenTests = []problems.Test{{Input: in, Output: out}}
	}

	if tl := strings.TrimSpace(f.value(draftTimeLimit)); tl != "" {
		sec, err := strconv.Atoi(tl)
		if err != nil {
			return d, &problems.DraftError{Fields: map[string]string{
				"time_limit": "time limit must be a whole number of seconds",
			}}
		}
		d.TimeLimitSec = sec
	}

	d.FillDefaults()
	return d, d.Validate()
}

// orphanErrors are messages for keys no field shows, in key order.
func (f form) orphanErrors() []string {
	shown := map[string]bool{}
	for _, fl := range f.fields {
		shown[fl.key] = true
	}
	var keys []string
	for k := range f.fieldErrs {
		if !shown[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, f.fieldErrs[k]))
	}
	return msgs
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyTab, tea.KeyDown:
			cmd := f.focus((f.focused + 1) % len(f.fields))
			return f, cmd
		case tea.KeyShiftTab, tea.KeyUp:
			cmd := f.focus((f.focused - 1 + len(f.fields)) % len(f.fields))
			return f, cmd
		}
	}

	var cmd tea.Cmd
	f.fields[f.focused].input, cmd = f.fields[f.focused].input.Update(msg)
	return f, cmd
}

func (f form) view(title string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	for i, fl := range f.fields {
		label := fl.label
		if i == f.focused {
			label = keyStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s\n%s\n", label, fl.input.View())
		if msg := f.fieldErrs[fl.key]; msg != "" {
			b.WriteString(errStyle.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}
	for _, msg := range f.orphanErrors() {
		b.WriteString(errStyle.Render(msg) + "\n\n")
	}
	if f.err != "" {
		b.WriteString(errStyle.Render(f.err) + "\n\n")
	}
	b.WriteString(dimStyle.Render("tab to move, enter to continue, esc to go back") + "\n")
	return b.String()
}
