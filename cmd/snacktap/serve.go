package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/snacktap/internal/config"
	"github.com/verte-zerg/snacktap/internal/generator"
	"github.com/verte-zerg/snacktap/internal/score"
	"github.com/verte-zerg/snacktap/internal/store"
	"github.com/verte-zerg/snacktap/internal/tui"
)

const (
	defaultServeHost = "::"
	defaultServePort = "2222"
)

type gameKey struct{}

var (
	serveHost    string
	servePort    string
	serveHostKey string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over SSH",
		Long: `Serve the game over SSH, one scoring session per connection.

Listen settings resolve in order: flags, then SNACKTAP_HOST, SNACKTAP_PORT
and SNACKTAP_HOST_KEY, then the [serve] config section, then defaults.`,
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveHost, "host", defaultServeHost, "listen host")
	cmd.Flags().StringVar(&servePort, "port", defaultServePort, "listen port")
	cmd.Flags().StringVar(&serveHostKey, "host-key", config.DefaultHostKeyPath(), "SSH host key path (created if missing)")
	addPlayFlags(cmd)
	addRulesFlags(cmd)
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	setup, err := loadGameSetup(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "host", &serveHost, setup.file.Serve.Host)
	applyStringConfig(cmd, "port", &servePort, setup.file.Serve.Port)
	applyStringConfig(cmd, "host-key", &serveHostKey, setup.file.Serve.HostKey)
	host := envOverride(cmd, "host", "SNACKTAP_HOST", serveHost)
	port := envOverride(cmd, "port", "SNACKTAP_PORT", servePort)
	hostKey := envOverride(cmd, "host-key", "SNACKTAP_HOST_KEY", serveHostKey)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error("failed to close db", "err", cerr)
		}
	}()

	handler := func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := sess.Pty()
		play := setup.play
		play.Player = sess.User()
		play.Width = maxInt(1, minInt(play.Width, (pty.Window.Width-2)/2))
		play.Height = maxInt(1, minInt(play.Height, pty.Window.Height-4))
		engine := score.New(setup.catalog, setup.rules)
		board := generator.New(play.Width, play.Height, setup.catalog.IDs())
		game := tui.NewModel(play, engine, st, board)
		sess.Context().SetValue(gameKey{}, game)
		log.Info("game started", "user", sess.User(), "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)
		return game, []tea.ProgramOption{tea.WithAltScreen()}
	}

	s, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithHostKeyPath(hostKey),
		wish.WithMiddleware(
			bm.Middleware(handler),
			activeterm.Middleware(),
			sessionCloser,
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	log.Info("starting SSH server", "host", host, "port", port)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// envOverride returns the environment value for key unless the flag was set explicitly.
func envOverride(cmd *cobra.Command, flag, key, value string) string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return config.GetEnv(key, value)
}

// sessionCloser saves the player's running session when the connection ends,
// including disconnects that never reached the quit key.
func sessionCloser(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		next(sess)
		if game, ok := sess.Context().Value(gameKey{}).(*tui.Model); ok {
			game.Close()
			log.Info("game ended", "user", sess.User())
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
