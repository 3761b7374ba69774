// Package feed publishes the blocks calendar as an ICS feed.
//
// The short-term-rental platform cannot read the shared calendars directly, so
// the all-day holds of the blocks calendar are rendered as an iCalendar file
// and uploaded to object storage, where the platform polls it. Only all-day
// holds within the configured horizon are exported; timed buffers stay private.
//
// # Usage
//
//	p := feed.NewPublisher(store, client, cfg.Storage.Bucket, blocksID, loc, cfg.Feed, logger)
//	res, err := p.Publish(ctx)
//
// The start command registers Publish on a cron schedule when the feed is enabled.
package feed
