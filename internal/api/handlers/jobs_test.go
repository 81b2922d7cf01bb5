package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akashpatki/rupeelog/internal/api/middleware"
	"github.com/akashpatki/rupeelog/internal/jobs"
	"github.com/akashpatki/rupeelog/internal/jobs/inmemory"
	"github.com/akashpatki/rupeelog/internal/logger"
)

// fakePublisher records published jobs without running them.
type fakePublisher struct {
	published []*jobs.ArchiveExportJob
}

func (f *fakePublisher) PublishArchiveExport(ctx context.Context, job *jobs.ArchiveExportJob) error {
	if job.Status == "" {
		job.Status = jobs.JobStatusPending
	}
	f.published = append(f.published, job)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func newJobsHandler(store jobs.JobStore, pub jobs.Publisher) *JobsHandler {
	return NewJobsHandler(store, pub, "archive-bucket", logger.NewWithWriter(&strings.Builder{}))
}

func TestEnqueueArchive(t *testing.T) {
	pub := &fakePublisher{}
	h := newJobsHandler(inmemory.NewStore(), pub)

	r := httptest.NewRequest(http.MethodPost, "/api/activity/archive", nil)
	r.Header.Set("X-User-ID", "u-1")
	w := serve(h.EnqueueArchive, r)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d jobs, want 1", len(pub.published))
	}
	job := pub.published[0]
	if job.OwnerID != "u-1" || job.JobID == "" {
		t.Errorf("job = %+v", job)
	}
	if !strings.HasPrefix(job.GCSURI, "gs://archive-bucket/archives/") {
		t.Errorf("gcs uri = %q", job.GCSURI)
	}
}

func TestDownloadArchive_NotReady(t *testing.T) {
	store := inmemory.NewStore()
	h := newJobsHandler(store, &fakePublisher{})

	if err := store.SaveJob(context.Background(), &jobs.ArchiveExportJob{
		JobID:   "job-1",
		OwnerID: "u-1",
		Status:  jobs.JobStatusRunning,
	}); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1/download", nil)
	r.Header.Set("X-User-ID", "u-1")
	w := httptest.NewRecorder()
	serveDownload(h, w, r, "job-1")

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestDownloadArchive_OtherOwnerLooksMissing(t *testing.T) {
	store := inmemory.NewStore()
	h := newJobsHandler(store, &fakePublisher{})

	if err := store.SaveJob(context.Background(), &jobs.ArchiveExportJob{
		JobID:   "job-1",
		OwnerID: "u-2",
		Status:  jobs.JobStatusCompleted,
	}); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1/download", nil)
	r.Header.Set("X-User-ID", "u-1")
	w := httptest.NewRecorder()
	serveDownload(h, w, r, "job-1")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDownloadArchive_UnknownJob(t *testing.T) {
	h := newJobsHandler(inmemory.NewStore(), &fakePublisher{})

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/missing/download", nil)
	r.Header.Set("X-User-ID", "u-1")
	w := httptest.NewRecorder()
	serveDownload(h, w, r, "missing")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetJob_ScopedToOwner(t *testing.T) {
	store := inmemory.NewStore()
	h := newJobsHandler(store, &fakePublisher{})

	if err := store.SaveJob(context.Background(), &jobs.ArchiveExportJob{
		JobID:   "job-1",
		OwnerID: "u-2",
		Status:  jobs.JobStatusPending,
	}); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	r.Header.Set("X-User-ID", "u-1")
	w := httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.GetJob(w, r, "job-1")
	})).ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func serveDownload(h *JobsHandler, w *httptest.ResponseRecorder, r *http.Request, jobID string) {
	middleware.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.DownloadArchive(w, r, jobID)
	})).ServeHTTP(w, r)
}
