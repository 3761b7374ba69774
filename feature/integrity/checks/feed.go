package checks

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"calendar-agent/core/storage"

	"github.com/minio/minio-go/v7"
)

// FeedReport describes the published feed object.
type FeedReport struct {
	Bucket       string `json:"bucket"`
	Object       string `json:"object"`
	BucketExists bool   `json:"bucket_exists"`
	Published    bool   `json:"published"`
	Valid        bool   `json:"valid"`
	Error        string `json:"error,omitempty"`
}

var feedHeader = []byte("BEGIN:VCALENDAR")

// CheckFeed verifies the bucket exists and the feed object is a calendar.
func CheckFeed(ctx context.Context, client storage.Client, bucket, object string) (*FeedReport, error) {
	report := &FeedReport{Bucket: bucket, Object: object}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	obj, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}
	defer obj.Close()

	head := make([]byte, len(feedHeader))
	if _, err := io.ReadFull(obj, head); err != nil {
		// minio reports a missing key on first read.
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return report, nil
		}
		report.Published = true
		report.Error = err.Error()
		return report, nil
	}
	report.Published = true
	report.Valid = bytes.Equal(head, feedHeader)
	return report, nil
}
