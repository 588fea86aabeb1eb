// Command webplanner runs the personal planner service: the JSON API and
// the background reminder sweep over a shared SQLite store.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvesely/webplanner/internal/config"
	"github.com/pvesely/webplanner/internal/mail"
	"github.com/pvesely/webplanner/internal/remind"
	"github.com/pvesely/webplanner/internal/server"
	"github.com/pvesely/webplanner/internal/store"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:     "webplanner",
		Short:   "Personal planner service with task lists, reminders, and a calendar",
		Version: Version,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(),
		"path to the configuration file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	root.AddCommand(serve)

	return root
}

func runServe(ctx context.Context, cfg *config.Config) error {
	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
		}
	}

	st, err := store.NewSQLiteStore(cfg.DBPath, loc)
	if err != nil {
		return err
	}
	defer st.Close()

	sender := mail.NewSMTPSender(
		cfg.SMTP.Host, cfg.SMTP.Port,
		cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From,
		cfg.SMTP.StartTLS,
	)

	scheduler := remind.New(st, sender,
		time.Duration(cfg.Reminder.SweepIntervalSec)*time.Second,
		remind.WithSendTimeout(time.Duration(cfg.Reminder.SendTimeoutSec)*time.Second),
	)
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(st, &server.RemoteUserResolver{Users: st}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("webplanner listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
