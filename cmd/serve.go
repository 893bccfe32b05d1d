package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/empath-labs/intake-server/internal/audit"
	"github.com/empath-labs/intake-server/internal/config"
	"github.com/empath-labs/intake-server/internal/conversations"
	"github.com/empath-labs/intake-server/internal/db"
	"github.com/empath-labs/intake-server/internal/engine"
	"github.com/empath-labs/intake-server/internal/llm"
	"github.com/empath-labs/intake-server/internal/notifications"
	"github.com/empath-labs/intake-server/internal/safety"
	"github.com/empath-labs/intake-server/internal/server"
)

var allowAllCORS bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intake HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		routerCfg := safety.DefaultRouterConfig()
		routerCfg.MinorAgeLimit = cfg.Safety.MinorAgeLimit
		router, err := safety.NewRouter(routerCfg)
		if err != nil {
			return fmt.Errorf("creating safety router: %w", err)
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "empath.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		eng := engine.New(engine.Config{
			CompletionThreshold: cfg.Intake.CompletionThreshold,
			Model:               cfg.Model,
			HighRiskReply:       cfg.Safety.HighRiskReply,
			PocsoReply:          cfg.Safety.PocsoReply,
		}, provider, router, nil, nil)

		auditStore := audit.NewStore(database)
		notifStore := notifications.NewStore(database)
		dispatcher := notifications.NewDispatcher(notifStore)

		convStore := conversations.NewStore(database)
		svc := conversations.NewService(convStore, eng, auditStore, dispatcher)

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: allowAllCORS,
		}, database)

		conversations.RegisterRoutes(srv.Router(), convStore, svc)
		conversations.RegisterChatRoute(srv.Router(), svc)
		audit.RegisterRoutes(srv.Router(), auditStore)
		notifications.RegisterRoutes(srv.Router(), notifStore)

		// Graceful shutdown on SIGINT/SIGTERM.
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			log.Printf("received %s, shutting down", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&allowAllCORS, "allow-all-cors", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
