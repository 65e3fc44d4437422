package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mayan-kumar1/pdfchat/internal/session"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in and persist the session for future runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}

			var username string
			if len(args) == 1 {
				username = args[0]
			} else {
				fmt.Print("Username: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read username: %w", err)
				}
				username = strings.TrimSpace(line)
			}
			if username == "" {
				return fmt.Errorf("username is required")
			}

			fmt.Print("Password: ")
			pw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			e.sessions.Rehydrate()
			if err := e.sessions.Login(cmd.Context(), username, string(pw)); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s.\n", username)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			e.sessions.Rehydrate()
			if e.sessions.Current() == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			e.sessions.Logout()
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			e.sessions.Rehydrate()
			s := e.sessions.Current()
			if s == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("Logged in as %s.\n", s.Username)
			if exp := session.TokenExpiry(s.Token); !exp.IsZero() {
				fmt.Printf("Session expires %s.\n", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
