package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/programme-lv/ojclient/judgeapi"
	"github.com/programme-lv/ojclient/session"
	"github.com/programme-lv/ojclient/tokenstore"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword takes the password from the flag. Otherwise a terminal is
// read without echo, and piped input gives its first line.
func readPassword(flag string, in io.Reader, out io.Writer) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(out, "Password: ")
	defer fmt.Fprintln(out)

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pwd, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pwd), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	var loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := readPassword(password, cmd.InOrStdin(), a.out)
			if err != nil {
				return err
			}
			if err := session.ValidateLogin(email, pwd); err != nil {
				return err
			}
			if err := a.session.Login(cmd.Context(), email, pwd); err != nil {
				return errors.New(a.session.LastError())
			}
			return printProfile(a, "logged in as")
		},
	}

	loginCmd.Flags().StringVarP(&email, "email", "e", "", "account email (required)")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "password, read from stdin when omitted")
	loginCmd.MarkFlagRequired("email")
	return loginCmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var in session.RegisterInput
	var role string

	var registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Role = judgeapi.Role(strings.ToLower(strings.TrimSpace(role)))

			pwd, err := readPassword(in.Password, cmd.InOrStdin(), a.out)
			if err != nil {
				return err
			}
			in.Password = pwd

			// the password is entered once here, so it is its own confirmation
			if err := session.ValidateRegister(in, pwd); err != nil {
				return err
			}

			if err := a.session.Register(cmd.Context(), in); err != nil {
				return errors.New(a.session.LastError())
			}
			return printProfile(a, "registered and logged in as")
		},
	}

	registerCmd.Flags().StringVarP(&in.Username, "username", "u", "", "user name (required)")
	registerCmd.Flags().StringVarP(&in.Email, "email", "e", "", "account email (required)")
	registerCmd.Flags().StringVar(&in.FullName, "full-name", "", "full name (required)")
	registerCmd.Flags().StringVarP(&in.Password, "password", "p", "", "password, read from stdin when omitted")
	registerCmd.Flags().StringVar(&role, "role", string(judgeapi.RoleStudent), "student or teacher")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")
	return registerCmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		Run: func(cmd *cobra.Command, args []string) {
			a.session.Logout(cmd.Context())
			fmt.Fprintln(a.out, "logged out")
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if err := printProfile(a, "user"); err != nil {
				return err
			}
			if exp, ok := tokenstore.PeekExpiry(a.session.Token()); ok {
				fmt.Fprintf(a.out, "token expires %s\n", exp.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}

func printProfile(a *app, heading string) error {
	u := a.session.User()
	if u == nil {
		return errors.New("profile could not be loaded")
	}
	fmt.Fprintf(a.out, "%s %s <%s>\n", heading, u.Username, u.Email)
	if u.FullName != "" {
		fmt.Fprintf(a.out, "name: %s\n", u.FullName)
	}
	fmt.Fprintf(a.out, "role: %s, rating: %d\n", u.Role, u.Rating)
	return nil
}
