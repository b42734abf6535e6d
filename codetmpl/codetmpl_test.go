package codetmpl_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/programme-lv/ojclient/codetmpl"
	"github.com/programme-lv/ojclient/planglist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifiers(t *testing.T) {
	testCases := []struct {
		slug  string
		snake string
		camel string
	}{
		{"two-sum", "two_sum", "twoSum"},
		{"", "solve", "solve"},
		{"   ", "solve", "solve"},
		{"longest-common-sub-sequence", "longest_common_sub_sequence", "longestCommonSubSequence"},
		{"3sum", "solve_3sum", "solve3sum"},
		{"Valid-Parentheses!", "valid_parentheses", "validParentheses"},
		{"a--b", "a_b", "aB"},
		{"задача", "solve", "solve"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.snake, codetmpl.SnakeCase(tc.slug), "snake %q", tc.slug)
		assert.Equal(t, tc.camel, codetmpl.CamelCase(tc.slug), "camel %q", tc.slug)
	}
}

func TestGeneratePython(t *testing.T) {
	got, err := codetmpl.Generate(planglist.Python, "two-sum")
	require.NoError(t, err)

	want := "# two-sum\n\ndef two_sum():\n    # write your code here\n    pass\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("python template mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateJava(t *testing.T) {
	got, err := codetmpl.Generate(planglist.Java, "two-sum")
	require.NoError(t, err)

	want := `// two-sum
public class Solution {
    public static void twoSum() {
        // write your code here
    }

    public static void main(String[] args) {
        twoSum();
    }
}
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("java template mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateDefaultSlug(t *testing.T) {
	for _, lang := range planglist.List() {
		got, err := codetmpl.Generate(lang.ID, "")
		require.NoError(t, err)
		assert.Contains(t, got, "solve", lang.ID)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, lang := range planglist.List() {
		a, err := codetmpl.Generate(lang.ID, "binary-search")
		require.NoError(t, err)
		b, err := codetmpl.Generate(lang.ID, "binary-search")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestGenerateUnknownLang(t *testing.T) {
	_, err := codetmpl.Generate("brainfuck", "x")
	require.ErrorIs(t, err, planglist.ErrInvalidProgLang)
}
