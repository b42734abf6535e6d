package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/programme-lv/ojclient/apierror"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/planglist"
	"github.com/programme-lv/ojclient/submctl"
	"github.com/spf13/cobra"
	"github.com/wailsapp/mimetype"
)

func isText(content []byte) bool {
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func newSubmitCmd(a *app) *cobra.Command {
	var file, lang string

	var submitCmd = &cobra.Command{
		Use:   "submit <problem-id>",
		Short: "Submit a solution and wait for the verdict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			code, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("error reading solution: %w", err)
			}
			if !isText(code) {
				return fmt.Errorf("%s is not a text file (detected %s)", file, mimetype.Detect(code).String())
			}

			if lang == "" {
				pl, err := planglist.FromFilename(file)
				if err != nil {
					return fmt.Errorf("cannot infer language from %s, pass --lang", file)
				}
				lang = string(pl.ID)
			}

			p, err := a.problems.Get(cmd.Context(), args[0])
			if err != nil {
				return errors.New(apierror.Render(err, "failed to load problem"))
			}

			ctl := submctl.New(a.client, a.session, submctl.WithLogger(a.logger))
			ctl.SetProblem(submctl.Problem{ID: p.ID, Slug: p.Slug, Title: p.Title})
			if err := ctl.SetLanguage(lang); err != nil {
				return fmt.Errorf("%w, choose one of %v", err, languageIDs())
			}
			ctl.SetCode(string(code))

			fmt.Fprintf(a.out, "submitting %s solution for %s...\n", ctl.Language(), p.Title)
			if _, err := ctl.Submit(cmd.Context()); err != nil {
				return errors.New(ctl.Result().Error)
			}
			printVerdict(a, ctl.Result().Verdict)
			return nil
		},
	}

	submitCmd.Flags().StringVarP(&file, "file", "f", "", "source file (required)")
	submitCmd.Flags().StringVarP(&lang, "lang", "l", "", "language id, inferred from the file extension when omitted")
	submitCmd.MarkFlagRequired("file")
	return submitCmd
}

func printVerdict(a *app, v *judgeapi.Verdict) {
	fmt.Fprintln(a.out, submctl.VerdictStyle(v.Status).Render(v.Status))
	if v.Message != "" {
		fmt.Fprintln(a.out, v.Message)
	}
	fmt.Fprintf(a.out, "time: %.0f ms, memory: %.1f MB\n", v.ExecutionTimeMs, v.MemoryUsedBytes/(1<<20))
	fmt.Fprintf(a.out, "submission: %s\n", v.SubmissionID)
}
