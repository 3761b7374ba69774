// Package storage wraps the MinIO Go client for publishing calendar feeds.
//
// The Client interface covers the few operations the agent needs, which keeps
// it easy to mock (see core/storage/mocks). It works against AWS S3 and
// self-hosted MinIO alike.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
