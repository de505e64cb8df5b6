package core

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mmbazm/device-api/internal/infrastructure"
	"github.com/sirupsen/logrus"
)

// RegistrationPoster is the outbound call the statistics service makes to
// forward a write to the registration service.
type RegistrationPoster interface {
	Post(ctx context.Context, path string, body interface{}, headers map[string]string) (int, json.RawMessage, error)
}

// StatisticsService forwards login events to the registration service and
// answers device-type count queries from the shared table.
type StatisticsService struct {
	store        EventStore
	cache        *infrastructure.Cache
	registration RegistrationPoster
	registerPath string
	cacheTTL     time.Duration
	logger       *logrus.Logger
}

// NewStatisticsService creates the statistics domain service.
// Cache may be nil; counts are then read from the store every time.
func NewStatisticsService(store EventStore, cache *infrastructure.Cache, registration RegistrationPoster, registerPath string, cacheTTL time.Duration, logger *logrus.Logger) *StatisticsService {
	return &StatisticsService{
		store:        store,
		cache:        cache,
		registration: registration,
		registerPath: registerPath,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// ForwardLoginEvent validates the payload and delegates the write to the
// registration service, propagating the caller's token. The downstream
// status selects one of three canned outcomes; the downstream body is
// never forwarded verbatim.
func (s *StatisticsService) ForwardLoginEvent(ctx context.Context, deviceType, userKey string) (*ForwardResult, error) {
	if deviceType == "" {
		return nil, ErrInvalidPayload
	}

	body := map[string]string{"deviceType": deviceType}
	headers := map[string]string{"userKey": userKey}

	status, _, err := s.registration.Post(ctx, s.registerPath, body, headers)
	if err != nil {
		s.logger.WithError(err).WithField("device_type", deviceType).
			Error("Registration service unreachable")
		return nil, ErrTransport
	}

	switch status {
	case http.StatusOK:
		return &ForwardResult{StatusCode: http.StatusOK, Message: "success"}, nil
	case http.StatusBadRequest:
		return &ForwardResult{StatusCode: http.StatusBadRequest, Message: "bad_request"}, nil
	default:
		s.logger.WithFields(logrus.Fields{
			"device_type":       deviceType,
			"downstream_status": status,
		}).Error("Unexpected status from registration service")
		return &ForwardResult{
			StatusCode: http.StatusConflict,
			Message:    "an error occurred during device registration",
		}, nil
	}
}

// DeviceTypeCount returns how many events were recorded for the device type,
// or CountUnknown when the type was never seen. Counts pass through the
// cache with a short TTL when one is configured.
func (s *StatisticsService) DeviceTypeCount(ctx context.Context, deviceType string) (int64, error) {
	if cached, ok := s.cachedCount(ctx, deviceType); ok {
		return cached, nil
	}

	count, err := s.store.CountByDeviceType(ctx, deviceType)
	if err != nil {
		s.logger.WithError(err).WithField("device_type", deviceType).
			Error("Failed to count device events")
		return 0, ErrReadFailed
	}

	if count == 0 {
		count = CountUnknown
	}

	s.cacheCount(ctx, deviceType, count)
	return count, nil
}

func (s *StatisticsService) cachedCount(ctx context.Context, deviceType string) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}

	val, err := s.cache.Get(ctx, countCacheKey(deviceType))
	if err != nil {
		return 0, false
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (s *StatisticsService) cacheCount(ctx context.Context, deviceType string, count int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, countCacheKey(deviceType), strconv.FormatInt(count, 10), s.cacheTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache device count")
	}
}

func countCacheKey(deviceType string) string {
	return "device_count:" + deviceType
}
