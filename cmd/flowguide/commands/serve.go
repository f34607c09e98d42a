package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/api"
	"github.com/vikasavnish/flowguide/internal/calls"
	"github.com/vikasavnish/flowguide/internal/currency"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
	"github.com/vikasavnish/flowguide/internal/tasks"
	"github.com/vikasavnish/flowguide/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and websocket server",
		Long: `Start the FlowGuide API server.

The server exposes the REST API under /api, store change notifications on
/ws, the outbound call endpoint on /call and runs the bill reminder in the
background until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}

func runServer(ctx context.Context) error {
	var hub *websocket.Hub
	a, err := newApp(cfg, logger, func(c store.Change) {
		if hub != nil {
			hub.StoreChanged(c)
		}
	})
	if err != nil {
		return err
	}
	defer a.close()

	hub = websocket.NewHub(api.TokenUser(a.auth))
	go hub.Run()
	defer hub.Close()

	// Background work goes straight to the store without simulated latency.
	background := services.New(a.store, nil, nil)
	taskManager := tasks.NewManager(logger)
	taskManager.RegisterTask(tasks.NewBillReminderTask(
		a.store, background.Alerts, cfg.Tasks.BillReminderInterval, cfg.Tasks.BillLookaheadDays, logger,
	))
	taskManager.StartScheduledTasks()
	defer taskManager.StopAllTasks()

	httpClient := &http.Client{Timeout: 15 * time.Second}
	router := api.SetupRouter(api.Dependencies{
		Store:    a.store,
		Network:  a.network,
		Services: a.services,
		Auth:     a.auth,
		Hub:      hub,
		Tasks:    taskManager,
		Calls:    calls.NewClient(cfg.Twilio, httpClient),
		Rates:    currency.NewClient(cfg.Currency.BaseURL, cfg.Currency.CacheTTL, httpClient),
		Logger:   logger,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: corsHandler.Handler(router),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
