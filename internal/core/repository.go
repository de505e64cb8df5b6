package core

import (
	"context"

	"gorm.io/gorm"
)

// EventStore defines the interface for device event persistence.
type EventStore interface {
	CreateEvent(ctx context.Context, event *DeviceEvent) error
	CountByDeviceType(ctx context.Context, deviceType string) (int64, error)
}

type eventStore struct {
	db *gorm.DB
}

// NewEventStore creates a gorm-backed EventStore.
func NewEventStore(db *gorm.DB) EventStore {
	return &eventStore{db: db}
}

func (s *eventStore) CreateEvent(ctx context.Context, event *DeviceEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *eventStore) CountByDeviceType(ctx context.Context, deviceType string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&DeviceEvent{}).
		Where("device_type = ?", deviceType).
		Count(&count).Error
	return count, err
}
