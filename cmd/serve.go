package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/metrics"
	"github.com/sells-group/leadgen-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server for lead-gen jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Handle("/metrics", metrics.Handler())

		// Launch an existing job asynchronously.
		r.Post("/webhook/jobs/{id}/run", func(w http.ResponseWriter, req *http.Request) {
			jobID := chi.URLParam(req, "id")
			if _, err := env.Store.GetJob(req.Context(), jobID); err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
				return
			}

			go runJobAsync(ctx, env, jobID)
			writeJSON(w, http.StatusAccepted, map[string]string{
				"status": "accepted",
				"job_id": jobID,
			})
		})

		// Create a job for a pool and launch it in one call.
		r.Post("/webhook/pools/{id}/jobs", func(w http.ResponseWriter, req *http.Request) {
			poolID := chi.URLParam(req, "id")

			var body struct {
				UserID    string                `json:"user_id"`
				Providers model.ProviderToggles `json:"providers"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if body.UserID == "" {
				body.UserID = "webhook"
			}

			if _, err := env.Store.GetPool(req.Context(), poolID); err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "pool not found"})
				return
			}

			job, err := env.Store.CreateJob(req.Context(), poolID, body.UserID, body.Providers)
			if err != nil {
				zap.L().Error("webhook create job failed", zap.String("pool_id", poolID), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create job failed"})
				return
			}

			go runJobAsync(ctx, env, job.ID)
			writeJSON(w, http.StatusAccepted, map[string]string{
				"status": "accepted",
				"job_id": job.ID,
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func runJobAsync(ctx context.Context, env *pipelineEnv, jobID string) {
	outcomes, err := env.Orchestrator.Run(ctx, jobID)
	if err != nil {
		zap.L().Error("webhook job failed", zap.String("job_id", jobID), zap.Error(err))
		return
	}
	failed := 0
	for _, oc := range outcomes {
		if oc.Err != nil {
			failed++
		}
	}
	zap.L().Info("webhook job complete",
		zap.String("job_id", jobID),
		zap.Int("stages", len(outcomes)),
		zap.Int("failed_stages", failed),
	)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
