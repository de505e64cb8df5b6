package core

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventStore struct {
	created   []*DeviceEvent
	createErr error
	count     int64
	countErr  error
}

func (f *fakeEventStore) CreateEvent(_ context.Context, event *DeviceEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = uint(len(f.created) + 1)
	f.created = append(f.created, event)
	return nil
}

func (f *fakeEventStore) CountByDeviceType(_ context.Context, _ string) (int64, error) {
	return f.count, f.countErr
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestStoreLoginEvent(t *testing.T) {
	t.Run("persists one event per call", func(t *testing.T) {
		store := &fakeEventStore{}
		svc := NewRegistrationService(store, nil, testLogger())

		event, err := svc.StoreLoginEvent(context.Background(), "camera")
		require.NoError(t, err)
		assert.Equal(t, "camera", event.DeviceType)
		require.Len(t, store.created, 1)

		_, err = svc.StoreLoginEvent(context.Background(), "camera")
		require.NoError(t, err)
		assert.Len(t, store.created, 2)
	})

	t.Run("empty device type is rejected before the insert", func(t *testing.T) {
		store := &fakeEventStore{}
		svc := NewRegistrationService(store, nil, testLogger())

		_, err := svc.StoreLoginEvent(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidPayload)
		assert.Empty(t, store.created)
	})

	t.Run("store failure degrades to ErrInsertFailed", func(t *testing.T) {
		store := &fakeEventStore{createErr: errors.New("connection refused")}
		svc := NewRegistrationService(store, nil, testLogger())

		_, err := svc.StoreLoginEvent(context.Background(), "sensor-A")
		assert.ErrorIs(t, err, ErrInsertFailed)
		// The driver error text must not leak through the taxonomy.
		assert.NotContains(t, err.Error(), "connection refused")
	})
}
