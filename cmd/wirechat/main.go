package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirechat-client/internal/chat"
	"github.com/vovakirdan/wirechat-client/internal/config"
	"github.com/vovakirdan/wirechat-client/internal/log"
	"github.com/vovakirdan/wirechat-client/internal/tui"
)

var (
	configPath string
	overrides  config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wirechat",
	Short: "Terminal chat client for a wirechat server",
	Long: `Connects to the configured WebSocket endpoint and shows every message
the server relays.

Keys:
  enter        send
  alt+enter    new line
  ctrl+s       send
  pgup/pgdown  scroll history
  esc, ctrl+c  quit`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&overrides.Client.BaseURL, "base-url", "", "WebSocket base address, e.g. ws://localhost:8080")
	rootCmd.Flags().StringVar(&overrides.Client.Path, "path", "", "WebSocket path appended to the base address")
	rootCmd.Flags().StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&overrides.Client.LogFile, "log-file", "", `log file path ("-" disables logging)`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// The terminal belongs to the UI, so nothing is logged before the file is open.
	cfg, _, err := config.Load(nil, configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.UpdateFrom(overrides)

	logger, closer, err := log.NewFile(cfg.LogLevel, cfg.Client.LogFile)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closer.Close()

	url := cfg.Client.URL()
	logger.Info().Str("url", url).Msg("connecting")

	conn := chat.Open(url, chat.WebSocketDialer, logger)
	defer conn.Close()

	p := tea.NewProgram(
		tui.New(conn, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("ui exited with error")
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
