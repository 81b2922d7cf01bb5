package inmemory

import (
	"context"
	"testing"

	"github.com/akashpatki/rupeelog/internal/jobs"
)

func TestStore_SaveAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.ArchiveExportJob{
		JobID:   "job-1",
		OwnerID: "u-1",
		GCSURI:  "gs://bucket/archives/job-1.csv",
		Status:  jobs.JobStatusPending,
	}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.OwnerID != "u-1" || got.Status != jobs.JobStatusPending {
		t.Errorf("got %+v", got)
	}

	// Mutating the returned copy must not affect stored state.
	got.Status = jobs.JobStatusFailed
	again, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if again.Status != jobs.JobStatusPending {
		t.Errorf("stored job mutated through returned copy: %s", again.Status)
	}
}

func TestStore_SaveRequiresID(t *testing.T) {
	store := NewStore()
	if err := store.SaveJob(context.Background(), &jobs.ArchiveExportJob{}); err == nil {
		t.Error("expected error for job without ID")
	}
}

func TestStore_ListJobsFiltering(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seed := []*jobs.ArchiveExportJob{
		{JobID: "a", OwnerID: "u-1", Status: jobs.JobStatusCompleted},
		{JobID: "b", OwnerID: "u-1", Status: jobs.JobStatusPending},
		{JobID: "c", OwnerID: "u-2", Status: jobs.JobStatusPending},
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
	}

	byOwner, err := store.ListJobs(ctx, jobs.JobFilter{OwnerID: "u-1"})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(byOwner) != 2 {
		t.Errorf("got %d jobs for u-1, want 2", len(byOwner))
	}

	byStatus, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusPending})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(byStatus) != 2 {
		t.Errorf("got %d pending jobs, want 2", len(byStatus))
	}

	both, err := store.ListJobs(ctx, jobs.JobFilter{OwnerID: "u-2", Status: jobs.JobStatusPending})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(both) != 1 || both[0].JobID != "c" {
		t.Errorf("got %+v, want only job c", both)
	}
}

func TestStore_UpdateJobStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.SaveJob(ctx, &jobs.ArchiveExportJob{JobID: "a", Status: jobs.JobStatusRunning}); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}
	if err := store.UpdateJobStatus(ctx, "a", jobs.JobStatusFailed, "upload failed"); err != nil {
		t.Fatalf("UpdateJobStatus failed: %v", err)
	}

	got, err := store.GetJob(ctx, "a")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Status != jobs.JobStatusFailed || got.Error != "upload failed" {
		t.Errorf("got %+v", got)
	}

	if err := store.UpdateJobStatus(ctx, "missing", jobs.JobStatusFailed, ""); err == nil {
		t.Error("expected error for unknown job")
	}
}
