package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	a := &app{}
	if err := execute(newRootCmd(a), a); err != nil {
		os.Exit(1)
	}
}

// execute runs the command tree and releases what setup opened, also when
// the command fails.
func execute(cmd *cobra.Command, a *app) error {
	defer a.close()
	return cmd.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:          "oj",
		Short:        "Command line client for the online judge",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.flags.apiURL, "api-url", "", "judge API base URL (overrides OJ_API_URL)")
	rootCmd.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error (overrides OJ_LOG_LEVEL)")

	rootCmd.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProblemsCmd(a),
		newProblemCmd(a),
		newTemplateCmd(a),
		newSubmitCmd(a),
		newCreateProblemCmd(a),
	)
	return rootCmd
}
