package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mmbazm/device-api/internal/infrastructure"
	"github.com/sirupsen/logrus"
)

// RegistrationService records device login events.
type RegistrationService struct {
	store     EventStore
	messaging *infrastructure.Messaging
	logger    *logrus.Logger
}

// NewRegistrationService creates the registration domain service.
// Messaging may be nil; publication is then skipped.
func NewRegistrationService(store EventStore, messaging *infrastructure.Messaging, logger *logrus.Logger) *RegistrationService {
	return &RegistrationService{
		store:     store,
		messaging: messaging,
		logger:    logger,
	}
}

// StoreLoginEvent persists one login event for the given device type.
// An empty device type is rejected before the insert is attempted.
func (s *RegistrationService) StoreLoginEvent(ctx context.Context, deviceType string) (*DeviceEvent, error) {
	if deviceType == "" {
		return nil, ErrInvalidPayload
	}

	event := &DeviceEvent{DeviceType: deviceType}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		s.logger.WithError(err).WithField("device_type", deviceType).
			Error("Failed to insert device event")
		return nil, ErrInsertFailed
	}

	s.publishEvent(ctx, event)

	s.logger.WithFields(logrus.Fields{
		"event_id":    event.ID,
		"device_type": event.DeviceType,
	}).Info("Device event recorded")

	return event, nil
}

// publishEvent announces a recorded event on the service bus. Best effort:
// a publish failure is logged and never affects the client response.
func (s *RegistrationService) publishEvent(ctx context.Context, event *DeviceEvent) {
	if s.messaging == nil {
		return
	}

	msg := LoginEventMessage{
		UUID:       uuid.New().String(),
		DeviceType: event.DeviceType,
		DateAdded:  time.Now().UTC(),
	}
	if err := s.messaging.Publish(ctx, "device.login", msg); err != nil {
		s.logger.WithError(err).WithField("device_type", event.DeviceType).
			Warn("Failed to publish login event")
	}
}
