package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mayan-kumar1/pdfchat/internal/config"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config and backend reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}

			fmt.Println("pdfchat doctor")
			fmt.Println()

			fmt.Println("Config:")
			fmt.Printf("  state dir:  %s\n", e.stateDir)
			fmt.Printf("  config:     %s\n", config.ConfigPath(e.stateDir))
			fmt.Printf("  server_url: %s\n", e.cfg.ServerURL)
			fmt.Printf("  timeout:    %s\n", e.cfg.RequestTimeout())
			fmt.Printf("  log_level:  %s\n", e.cfg.LogLevel)
			fmt.Println()

			fmt.Println("Backend:")
			if e.client.Reachable() {
				fmt.Printf("  reachable at %s\n", e.client.BaseURL())
			} else {
				fmt.Printf("  not reachable at %s\n", e.client.BaseURL())
			}
			fmt.Println()

			fmt.Println("Session:")
			e.sessions.Rehydrate()
			if s := e.sessions.Current(); s != nil {
				fmt.Printf("  logged in as %s\n", s.Username)
			} else {
				fmt.Println("  not logged in")
			}

			return nil
		},
	}
}
