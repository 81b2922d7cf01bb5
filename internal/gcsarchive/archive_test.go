package gcsarchive

import (
	"strings"
	"testing"
	"time"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	name := ObjectName("u-1", now)

	if !strings.HasPrefix(name, "archives/2025/07/15/u-1/") {
		t.Errorf("name = %q, want date/owner partitioned prefix", name)
	}
	if !strings.HasSuffix(name, "-activity.csv") {
		t.Errorf("name = %q, want -activity.csv suffix", name)
	}

	// Names must not collide between calls.
	if ObjectName("u-1", now) == name {
		t.Error("two archives for the same user and day collided")
	}
}

func TestSplitURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://my-bucket/archives/a.csv", "my-bucket", "archives/a.csv", false},
		{"gs://my-bucket/", "", "", true},
		{"gs://my-bucket", "", "", true},
		{"https://example.com/a.csv", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := splitURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("splitURI(%q) = %q, %q", tt.uri, bucket, object)
			}
		})
	}
}

func TestURI(t *testing.T) {
	if got := URI("b", "o/p.csv"); got != "gs://b/o/p.csv" {
		t.Errorf("URI = %q", got)
	}
}
