package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mayan-kumar1/pdfchat/internal/api"
	"github.com/mayan-kumar1/pdfchat/internal/chat"
	"github.com/mayan-kumar1/pdfchat/internal/config"
	"github.com/mayan-kumar1/pdfchat/internal/document"
	"github.com/mayan-kumar1/pdfchat/internal/history"
	"github.com/mayan-kumar1/pdfchat/internal/logger"
	"github.com/mayan-kumar1/pdfchat/internal/nav"
	"github.com/mayan-kumar1/pdfchat/internal/session"
	"github.com/mayan-kumar1/pdfchat/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:   "pdfchat",
		Short: "pdfchat — chat with your PDF documents from the terminal",
		Long:  "A terminal client for the PDF Chat backend. Sign in, upload a PDF, and ask questions about it.",
		RunE:  runTUI,
	}

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		historyCmd(),
		doctorCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env bundles everything a command needs: resolved state dir, config,
// backend client and the session manager (not yet rehydrated).
type env struct {
	stateDir string
	cfg      *config.Config
	client   *api.Client
	sessions *session.Manager
}

func setup() (*env, error) {
	stateDir, err := config.StateDir()
	if err != nil {
		return nil, fmt.Errorf("resolve state dir: %w", err)
	}
	if err := config.EnsureStateDir(stateDir); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	cfg, err := config.Load(config.ConfigPath(stateDir))
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.ServerURL, cfg.RequestTimeout())
	store := session.NewFileStore(stateDir)
	return &env{
		stateDir: stateDir,
		cfg:      cfg,
		client:   client,
		sessions: session.NewManager(client, store),
	}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	if err := logger.Init(e.cfg.LogLevel, config.LogPath(e.stateDir)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pipeline := chat.NewPipeline(e.client, e.sessions, nil)
	documents := document.NewSession(e.client, e.sessions, pipeline)
	pipeline.SetDocumentSource(documents)
	archive := history.NewStore(config.HistoryDir(e.stateDir))
	documents.SetArchiver(archive)
	navc := nav.NewController(e.sessions)

	model := ui.NewModel(e.sessions, navc, documents, pipeline, archive)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
