// Package codetmpl generates the starter code a problem's editor is seeded
// with. Output depends only on the language and the problem slug.
package codetmpl

import (
	"fmt"
	"strings"

	"github.com/programme-lv/ojclient/planglist"
)

const DefaultSlug = "solve"

// Generate returns the starter code for lang. An empty slug means DefaultSlug.
func Generate(lang planglist.ID, slug string) (string, error) {
	if strings.TrimSpace(slug) == "" {
		slug = DefaultSlug
	}

	switch lang {
	case planglist.Python:
		return fmt.Sprintf(pythonTmpl, slug, SnakeCase(slug)), nil
	case planglist.JavaScript:
		return fmt.Sprintf(javascriptTmpl, slug, CamelCase(slug)), nil
	case planglist.Java:
		fn := CamelCase(slug)
		return fmt.Sprintf(javaTmpl, slug, fn, fn), nil
	case planglist.Cpp:
		fn := SnakeCase(slug)
		return fmt.Sprintf(cppTmpl, slug, fn, fn), nil
	default:
		return "", fmt.Errorf("%w: %q", planglist.ErrInvalidProgLang, lang)
	}
}

const pythonTmpl = `# %s

def %s():
    # write your code here
    pass
`

const javascriptTmpl = `/**
 * %s
 */
function %s() {
    // write your code here
}
`

const javaTmpl = `// %s
public class Solution {
    public static void %s() {
        // write your code here
    }

    public static void main(String[] args) {
        %s();
    }
}
`

const cppTmpl = `// %s
#include <bits/stdc++.h>
using namespace std;

void %s() {
    // write your code here
}

int main() {
    %s();
    return 0;
}
`

// SnakeCase maps "two-sum" to "two_sum".
func SnakeCase(slug string) string {
	return strings.Join(identWords(slug), "_")
}

// CamelCase maps "two-sum" to "twoSum".
func CamelCase(slug string) string {
	words := identWords(slug)
	var sb strings.Builder
	sb.WriteString(words[0])
	for _, w := range words[1:] {
		sb.WriteString(strings.ToUpper(w[:1]))
		sb.WriteString(w[1:])
	}
	return sb.String()
}

// identWords splits a slug into lower-case [a-z0-9] words usable in an
// identifier. The result is never empty and never starts with a digit.
func identWords(slug string) []string {
	fields := strings.FieldsFunc(strings.ToLower(slug), func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		var sb strings.Builder
		for _, r := range f {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				sb.WriteRune(r)
			}
		}
		if sb.Len() > 0 {
			words = append(words, sb.String())
		}
	}

	if len(words) == 0 {
		return []string{DefaultSlug}
	}
	if c := words[0][0]; c >= '0' && c <= '9' {
		words = append([]string{DefaultSlug}, words...)
	}
	return words
}
