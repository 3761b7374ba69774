package checks

import (
	"context"
	"io"
	"strings"
	"testing"

	"calendar-agent/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("valid feed", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "feeds").Return(true, nil)
		client.On("GetObject", mock.Anything, "feeds", "blocks.ics", mock.Anything).
			Return(io.NopCloser(strings.NewReader("BEGIN:VCALENDAR\r\nVERSION:2.0\r\n")), nil)

		report, err := CheckFeed(ctx, client, "feeds", "blocks.ics")
		require.NoError(t, err)
		assert.True(t, report.BucketExists)
		assert.True(t, report.Published)
		assert.True(t, report.Valid)
	})

	t.Run("not a calendar", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "feeds").Return(true, nil)
		client.On("GetObject", mock.Anything, "feeds", "blocks.ics", mock.Anything).
			Return(io.NopCloser(strings.NewReader("<html>not found</html>")), nil)

		report, err := CheckFeed(ctx, client, "feeds", "blocks.ics")
		require.NoError(t, err)
		assert.True(t, report.Published)
		assert.False(t, report.Valid)
	})

	t.Run("object missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "feeds").Return(true, nil)
		client.On("GetObject", mock.Anything, "feeds", "blocks.ics", mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "missing"})

		report, err := CheckFeed(ctx, client, "feeds", "blocks.ics")
		require.NoError(t, err)
		assert.False(t, report.Published)
		assert.NotEmpty(t, report.Error)
	})

	t.Run("missing bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "feeds").Return(false, nil)

		report, err := CheckFeed(ctx, client, "feeds", "blocks.ics")
		require.NoError(t, err)
		assert.False(t, report.BucketExists)
		client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage down", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "feeds").Return(false, assert.AnError)

		_, err := CheckFeed(ctx, client, "feeds", "blocks.ics")
		assert.ErrorIs(t, err, assert.AnError)
	})
}
