package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/programme-lv/ojclient/judgeapi"
)

var ErrInvalidForm = errors.New("invalid form")

// MinPasswordLen is the client-side floor. The backend may demand more.
const MinPasswordLen = 6

// Form field keys reported in FormError.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldFullName        = "full_name"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldRole            = "role"
)

// FormError maps form fields to what is wrong with them. Forms that fail
// these checks are not sent.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

func (e *FormError) Unwrap() error {
	return ErrInvalidForm
}

// ValidateLogin returns nil or a *FormError.
func ValidateLogin(email, password string) error {
	fields := map[string]string{}
	if strings.TrimSpace(email) == "" {
		fields[FieldEmail] = "email is required"
	}
	if strings.TrimSpace(password) == "" {
		fields[FieldPassword] = "password is required"
	}
	return formErr(fields)
}

// ValidateRegister checks the registration form, confirm being the repeated
// password. It returns nil or a *FormError.
func ValidateRegister(in RegisterInput, confirm string) error {
	fields := map[string]string{}

	if strings.TrimSpace(in.Username) == "" {
		fields[FieldUsername] = "username is required"
	}
	switch email := strings.TrimSpace(in.Email); {
	case email == "":
		fields[FieldEmail] = "email is required"
	case !strings.Contains(email, "@"):
		fields[FieldEmail] = "email must contain @"
	}
	if strings.TrimSpace(in.FullName) == "" {
		fields[FieldFullName] = "full name is required"
	}
	if len([]rune(in.Password)) < MinPasswordLen {
		fields[FieldPassword] = fmt.Sprintf("password must be at least %d characters", MinPasswordLen)
	}
	if in.Password != confirm {
		fields[FieldConfirmPassword] = "passwords do not match"
	}
	if in.Role != "" && !in.Role.Valid() {
		fields[FieldRole] = fmt.Sprintf("role must be %q or %q", judgeapi.RoleStudent, judgeapi.RoleTeacher)
	}

	return formErr(fields)
}

func formErr(fields map[string]string) error {
	if len(fields) > 0 {
		return &FormError{Fields: fields}
	}
	return nil
}
