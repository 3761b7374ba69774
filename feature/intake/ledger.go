package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProcessedMessage records an upstream message that was already applied.
type ProcessedMessage struct {
	MessageID  string    `gorm:"column:message_id;primaryKey;size:191"`
	Operation  string    `gorm:"column:operation;size:32"`
	BookingKey string    `gorm:"column:booking_key;size:255"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// TableName pins the ledger table name.
func (ProcessedMessage) TableName() string {
	return "processed_messages"
}

// Ledger remembers processed message ids so redelivered messages are skipped.
type Ledger interface {
	Seen(ctx context.Context, messageID string) (bool, error)
	Mark(ctx context.Context, messageID, operation, bookingKey string) error
}

// NewLedger returns a database-backed ledger, or one that remembers nothing
// when no database is configured.
func NewLedger(db *gorm.DB) Ledger {
	if db == nil {
		return nopLedger{}
	}
	return &gormLedger{db: db}
}

// MigrateLedger creates the ledger table.
func MigrateLedger(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(&ProcessedMessage{}); err != nil {
		return fmt.Errorf("migrate processed_messages: %w", err)
	}
	return nil
}

type gormLedger struct {
	db *gorm.DB
}

func (l *gormLedger) Seen(ctx context.Context, messageID string) (bool, error) {
	var row ProcessedMessage
	err := l.db.WithContext(ctx).Where("message_id = ?", messageID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ledger lookup %s: %w", messageID, err)
	}
	return true, nil
}

func (l *gormLedger) Mark(ctx context.Context, messageID, operation, bookingKey string) error {
	row := ProcessedMessage{MessageID: messageID, Operation: operation, BookingKey: bookingKey}
	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("ledger mark %s: %w", messageID, err)
	}
	return nil
}

type nopLedger struct{}

func (nopLedger) Seen(context.Context, string) (bool, error)         { return false, nil }
func (nopLedger) Mark(context.Context, string, string, string) error { return nil }
