// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface and registers its own routes
// when enabled.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registry: Register() adds a feature and LoadAll()
// loads the enabled ones in registration order.
package loader
