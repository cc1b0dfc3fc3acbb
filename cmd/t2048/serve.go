package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the 2048 SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH user gets their own saved game and score history, kept in the
SQLite database under the data directory. A user can have one session
open at a time. The server always uses the sqlite backend.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses server.host_key from the config, generated on first start

Examples:
  t2048 serve                       # Listen on :2048
  t2048 serve --ssh :2222           # Listen on port 2222
  t2048 serve --host-key ./host_key # Use specific host key

Users can connect with:
  ssh -p 2048 localhost`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config: :2048)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Disconnect idle sessions after this long (default from config: 30m)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	logger := newLogger(os.Stderr, cfg.LogLevel()).WithPrefix("t2048-ssh")

	if cfg.Storage.Backend != config.BackendSQLite {
		logger.Warn("serve ignores the storage backend setting", "backend", cfg.Storage.Backend)
	}

	sshCfg := tui.SSHServerConfig{
		Address:     cfg.Server.Address,
		HostKeyPath: cfg.HostKeyPath(),
		IdleTimeout: cfg.Server.IdleTimeout,
	}
	if flagSSHAddr != "" {
		sshCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		sshCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		sshCfg.IdleTimeout = flagIdleTimeout
	}

	store, err := storage.Open(cfg.DBPath())
	if err != nil {
		fail("%v", err)
	}
	defer store.Close()

	server, err := tui.NewSSHServer(sshCfg, store, logger)
	if err != nil {
		store.Close()
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting 2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		store.Close()
		fail("server: %v", err)
	}
}
