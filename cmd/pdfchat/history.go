package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mayan-kumar1/pdfchat/internal/chat"
	"github.com/mayan-kumar1/pdfchat/internal/config"
	"github.com/mayan-kumar1/pdfchat/internal/history"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List archived conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			stateDir, err := config.StateDir()
			if err != nil {
				return fmt.Errorf("resolve state dir: %w", err)
			}

			store := history.NewStore(config.HistoryDir(stateDir))
			convs, err := store.List()
			if err != nil {
				return err
			}
			if len(convs) == 0 {
				fmt.Println("No archived conversations.")
				return nil
			}

			for _, conv := range convs {
				questions := 0
				for _, m := range conv.Messages {
					if m.Role == chat.RoleUser {
						questions++
					}
				}
				fmt.Printf("%s  %-30s  %d question(s)  %s\n",
					conv.Started.Local().Format("2006-01-02 15:04"),
					conv.Document, questions, conv.ID)
			}
			return nil
		},
	}
}
