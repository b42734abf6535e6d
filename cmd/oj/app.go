package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/programme-lv/ojclient/conf"
	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/logger"
	"github.com/programme-lv/ojclient/problems"
	"github.com/programme-lv/ojclient/session"
	"github.com/programme-lv/ojclient/tokenstore"
	"github.com/spf13/cobra"
)

// app holds what every page shares. One session manager per process.
type app struct {
	flags struct {
		apiURL   string
		logLevel string
	}

	cfg      *conf.Config
	logger   *slog.Logger
	logFile  *os.File
	client   *judgeapi.Client
	session  *session.Manager
	problems *problems.Service
	out      io.Writer
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := conf.Load()
	if err != nil {
		return err
	}
	if a.flags.apiURL != "" {
		cfg.ApiURL = a.flags.apiURL
	}
	if a.flags.logLevel != "" {
		cfg.LogLevel = a.flags.logLevel
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()

	logOut := cmd.ErrOrStderr()
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		logOut = f
	}
	a.logger, err = logger.New(cfg.LogLevel, logOut)
	if err != nil {
		return err
	}

	a.client = judgeapi.NewClient(cfg.ApiURL,
		judgeapi.WithLogger(a.logger),
		judgeapi.WithTimeout(cfg.RequestTimeout),
	)
	a.session = session.New(a.client, tokenstore.NewFileStore(cfg.TokenFile),
		session.WithNavigator(session.NavigatorFunc(a.navigate)),
		session.WithLogoutTimeout(cfg.LogoutTimeout),
		session.WithLogger(a.logger),
	)
	a.problems = problems.New(a.client, a.session).WithLogger(a.logger)

	cmd.SetContext(logger.With(logger.WithLogger(cmd.Context(), a.logger), "command", cmd.Name()))
	a.session.Init(cmd.Context())
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// navigate prints the intent; the next page is the next command the user runs.
func (a *app) navigate(route session.Route) {
	fmt.Fprintf(a.out, "→ %s\n", route)
}

func (a *app) requireLogin() error {
	if !a.session.IsLoggedIn() {
		return fmt.Errorf("you are not logged in, run `oj login` first")
	}
	return nil
}
