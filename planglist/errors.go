package planglist

import "errors"

var ErrInvalidProgLang = errors.New("invalid programming language")
