package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/akashpatki/rupeelog/internal/api/middleware"
	"github.com/akashpatki/rupeelog/internal/gcsarchive"
	"github.com/akashpatki/rupeelog/internal/jobs"
)

// JobsHandler handles archive export jobs.
type JobsHandler struct {
	store     jobs.JobStore
	publisher jobs.Publisher
	bucket    string
	log       zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, publisher jobs.Publisher, bucket string, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store:     store,
		publisher: publisher,
		bucket:    bucket,
		log:       log,
	}
}

// EnqueueArchive handles POST /api/activity/archive
//
// It enqueues a job that exports the caller's full activity history to
// CSV and uploads it to GCS. The destination object is chosen up front
// so the caller can poll the job and know where the archive will land.
func (h *JobsHandler) EnqueueArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	objectName := gcsarchive.ObjectName(ownerID, time.Now().UTC())
	job := &jobs.ArchiveExportJob{
		JobID:   uuid.New().String(),
		OwnerID: ownerID,
		GCSURI:  gcsarchive.URI(h.bucket, objectName),
	}

	if err := h.publisher.PublishArchiveExport(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue archive export")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue archive export")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("gcs_uri", job.GCSURI).Msg("Archive export enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":  job.JobID,
		"gcs_uri": job.GCSURI,
		"status":  string(job.Status),
	})
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil || job.OwnerID != ownerID {
		// Another user's job looks the same as a missing one.
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// DownloadArchive handles GET /api/jobs/{id}/download
//
// It streams the finished archive back from GCS. Jobs that have not
// completed have no object to serve yet.
func (h *JobsHandler) DownloadArchive(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil || job.OwnerID != ownerID {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	if job.Status != jobs.JobStatusCompleted {
		middleware.WriteError(w, http.StatusConflict, "Archive is not ready")
		return
	}

	data, err := gcsarchive.Fetch(ctx, job.GCSURI)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to fetch archive")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch archive")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="activity-archive.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	query := r.URL.Query()
	filter := jobs.JobFilter{
		OwnerID: ownerID,
		Status:  jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
