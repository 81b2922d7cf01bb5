package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/akashpatki/rupeelog/internal/activity"
	"github.com/akashpatki/rupeelog/internal/api/handlers"
	"github.com/akashpatki/rupeelog/internal/api/middleware"
	"github.com/akashpatki/rupeelog/internal/gcsarchive"
	infraBQ "github.com/akashpatki/rupeelog/internal/infra/bigquery"
	"github.com/akashpatki/rupeelog/internal/jobs"
	"github.com/akashpatki/rupeelog/internal/jobs/inmemory"
	"github.com/akashpatki/rupeelog/internal/logger"
)

func main() {
	var (
		port   = flag.String("port", "8080", "HTTP server port")
		bucket = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for activity archives (or set GCS_BUCKET env)")
	)
	flag.Parse()

	log := logger.New()

	if *bucket == "" {
		log.Warn().Msg("No GCS bucket configured - archive exports will fail")
	}

	ctx := context.Background()

	repo, err := infraBQ.NewBigQueryActivityRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create activity repository")
	}
	defer repo.Close()

	svc := activity.NewService(repo, log)

	// Job infrastructure for archive exports
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Archive export: serialize the full filtered feed and push it to GCS.
	jobHandler := func(ctx context.Context, job jobs.Job) error {
		archiveJob, ok := job.(*jobs.ArchiveExportJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", archiveJob.JobID).
			Str("gcs_uri", archiveJob.GCSURI).
			Msg("Processing archive export")

		data, err := svc.Export(ctx, archiveJob.OwnerID, activity.Filter{})
		if err != nil {
			log.Error().Err(err).Str("job_id", archiveJob.JobID).Msg("Export failed")
			return err
		}

		if err := gcsarchive.Upload(ctx, archiveJob.GCSURI, data); err != nil {
			log.Error().Err(err).Str("job_id", archiveJob.JobID).Msg("Archive upload failed")
			return err
		}

		log.Info().
			Str("job_id", archiveJob.JobID).
			Int("bytes", len(data)).
			Msg("Archive export completed")

		return nil
	}

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	activityHandler := handlers.NewActivityHandler(svc, log)
	accountsHandler := handlers.NewAccountsHandler(repo, log)
	transactionsHandler := handlers.NewTransactionsHandler(repo, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, jobQueue, *bucket, log)

	// All /api routes require an authenticated user.
	api := http.NewServeMux()

	api.HandleFunc("/api/activity", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			activityHandler.Feed(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	api.HandleFunc("/api/activity/archive", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			jobsHandler.EnqueueArchive(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	api.HandleFunc("/api/monthly-summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			activityHandler.MonthlySummary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	api.HandleFunc("/api/accounts/bank", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			accountsHandler.CreateBankAccount(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	api.HandleFunc("/api/accounts/credit-card", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			accountsHandler.CreateCreditCard(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	api.HandleFunc("/api/accounts/cash", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			accountsHandler.SetCashBalance(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	api.HandleFunc("/api/transactions/income", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.AddIncome(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	api.HandleFunc("/api/transactions/expense", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.AddExpense(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	api.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	api.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID, ok := strings.CutSuffix(rest, "/download"); ok {
				if jobID == "" {
					middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
					return
				}
				jobsHandler.DownloadArchive(w, r, jobID)
				return
			}
			if rest == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, rest)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", middleware.Auth(api))

	// Health check stays outside auth so probes need no identity.
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
