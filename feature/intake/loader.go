package intake

import (
	"calendar-agent/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	db      *gorm.DB
}

// NewFeature creates the booking intake feature. A nil db disables message
// deduplication.
func NewFeature(engine *reconcile.Engine, db *gorm.DB, logger *zap.Logger) *Feature {
	svc := NewService(engine, NewLedger(db), logger)
	return &Feature{service: svc, handler: NewHandler(svc), db: db}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "intake"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service.engine != nil
}

// Load migrates the message ledger and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := MigrateLedger(f.db); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}
