package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/codetmpl"
	"github.com/programme-lv/ojclient/planglist"
	"github.com/programme-lv/ojclient/problems"
	"github.com/spf13/cobra"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

func newProblemsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "problems",
		Short: "List published problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			list, err := a.problems.List(cmd.Context())
			if err != nil {
				return errors.New(apierror.Render(err, "failed to load problems"))
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "no problems published yet")
				return nil
			}

			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{p.ID, p.Slug, p.Title, p.Difficulty})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "SLUG", "TITLE", "DIFFICULTY").
				Rows(rows...)
			fmt.Fprintln(a.out, t.String())
			return nil
		},
	}
}

func newProblemCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "problem <id>",
		Short: "Show a problem statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			p, err := a.problems.Get(cmd.Context(), args[0])
			if err != nil {
				return errors.New(apierror.Render(err, "failed to load problem"))
			}

			fmt.Fprintln(a.out, headingStyle.Render(p.Title))
			fmt.Fprintf(a.out, "slug: %s, difficulty: %s", p.Slug, p.Difficulty)
			if p.TimeLimitMs > 0 {
				fmt.Fprintf(a.out, ", time limit: %s s", strconv.FormatFloat(float64(p.TimeLimitMs)/1000, 'f', -1, 64))
			}
			if p.MemoryLimitMB > 0 {
				fmt.Fprintf(a.out, ", memory limit: %d MB", p.MemoryLimitMB)
			}
			fmt.Fprint(a.out, "\n\n", p.Description, "\n")

			for i, ex := range p.Examples {
				fmt.Fprintf(a.out, "\n%s\ninput:\n%s\noutput:\n%s\n", headingStyle.Render(fmt.Sprintf("Example %d", i+1)), ex.Input, ex.Output)
				if ex.Explanation != "" {
					fmt.Fprintf(a.out, "explanation: %s\n", ex.Explanation)
				}
			}
			return nil
		},
	}
}

func newTemplateCmd(a *app) *cobra.Command {
	var lang, slug string

	var templateCmd = &cobra.Command{
		Use:   "template",
		Short: "Print starter code for a language",
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := planglist.Get(lang)
			if err != nil {
				return fmt.Errorf("%w, choose one of %v", err, languageIDs())
			}
			code, err := codetmpl.Generate(pl.ID, slug)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, code)
			return nil
		},
	}

	templateCmd.Flags().StringVarP(&lang, "lang", "l", string(planglist.Python), "language id")
	templateCmd.Flags().StringVarP(&slug, "slug", "s", codetmpl.DefaultSlug, "problem slug")
	return templateCmd
}

func languageIDs() []string {
	var ids []string
	for _, l := range planglist.List() {
		ids = append(ids, string(l.ID))
	}
	return ids
}

func newCreateProblemCmd(a *app) *cobra.Command {
	var file string

	var createCmd = &cobra.Command{
		Use:   "create-problem",
		Short: "Publish a problem from a TOML draft (teachers only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if !a.session.IsTeacher() {
				return errors.New("only teachers can create problems")
			}

			content, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("error reading draft: %w", err)
			}
			draft := problems.NewDraft()
			draft.Examples = nil
			if err := toml.Unmarshal(content, &draft); err != nil {
				return fmt.Errorf("failed to parse draft %s: %w", file, err)
			}

			created, err := a.problems.Create(cmd.Context(), draft)
			if err != nil {
				var draftErr *problems.DraftError
				if errors.As(err, &draftErr) {
					printDraftErrors(a, draftErr)
					return problems.ErrInvalidDraft
				}
				return errors.New(apierror.Render(err, "failed to create problem"))
			}

			fmt.Fprintf(a.out, "created %s (%s)\n", created.Slug, created.ID)
			return nil
		},
	}

	createCmd.Flags().StringVarP(&file, "file", "f", "", "draft file (required)")
	createCmd.MarkFlagRequired("file")
	return createCmd
}

func printDraftErrors(a *app, err *problems.DraftError) {
	fields := make([]string, 0, len(err.Fields))
	for f := range err.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(a.out, "%s: %s\n", f, err.Fields[f])
	}
}
