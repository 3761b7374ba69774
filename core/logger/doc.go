// Package logger provides structured logging based on Zap.
//
// The debug level selects zap's development configuration; every other level
// uses the production configuration at that level. Format picks json or
// console encoding.
//
// # Context
//
// WithRayID attaches the request id set by the rayid middleware so all logs of
// one HTTP request can be correlated. WithBooking tags a logger with a booking
// key for reconciliation passes.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
