package planglist

import (
	"fmt"
	"path/filepath"
	"strings"
)

type ID string

const (
	Python     ID = "python"
	Cpp        ID = "cpp"
	Java       ID = "java"
	JavaScript ID = "javascript"
)

// ProgrammingLang describes a language the judge accepts.
type ProgrammingLang struct {
	ID           ID
	FullName     string
	CodeFilename string
	Extensions   []string
}

// getHardcodedLanguageList returns the languages in the order the editor
// cycles through them.
func getHardcodedLanguageList() []ProgrammingLang {
	return []ProgrammingLang{
		{
			ID:           Python,
			FullName:     "Python",
			CodeFilename: "main.py",
			Extensions:   []string{".py"},
		},
		{
			ID:           JavaScript,
			FullName:     "JavaScript",
			CodeFilename: "main.js",
			Extensions:   []string{".js", ".mjs"},
		},
		{
			ID:           Java,
			FullName:     "Java",
			CodeFilename: "Solution.java",
			Extensions:   []string{".java"},
		},
		{
			ID:           Cpp,
			FullName:     "C++",
			CodeFilename: "main.cpp",
			Extensions:   []string{".cpp", ".cc", ".cxx", ".hpp"},
		},
	}
}

func List() []ProgrammingLang {
	return getHardcodedLanguageList()
}

func Get(id string) (ProgrammingLang, error) {
	needle := ID(strings.ToLower(strings.TrimSpace(id)))
	for _, lang := range getHardcodedLanguageList() {
		if lang.ID == needle {
			return lang, nil
		}
	}
	return ProgrammingLang{}, fmt.Errorf("%w: %q", ErrInvalidProgLang, id)
}

// FromFilename picks the language by file extension.
func FromFilename(path string) (ProgrammingLang, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, lang := range getHardcodedLanguageList() {
		for _, e := range lang.Extensions {
			if e == ext {
				return lang, nil
			}
		}
	}
	return ProgrammingLang{}, fmt.Errorf("%w: no language for extension %q", ErrInvalidProgLang, ext)
}

// Next returns the language after id in list order, wrapping around.
func Next(id ID) ID {
	langs := getHardcodedLanguageList()
	for i, lang := range langs {
		if lang.ID == id {
			return langs[(i+1)%len(langs)].ID
		}
	}
	return langs[0].ID
}
