package core

import (
	"time"
)

// DeviceEvent represents one recorded device login event.
type DeviceEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	DeviceType string    `json:"device_type" gorm:"type:varchar(150);not null"`
	DateAdded  time.Time `json:"date_added" gorm:"type:date;default:CURRENT_TIMESTAMP"`
}

// TableName overrides for GORM
func (DeviceEvent) TableName() string { return "devices" }

// RegisterRequest is the JSON body accepted by both write endpoints.
type RegisterRequest struct {
	DeviceType *string `json:"deviceType"`
}

// ForwardResult is the statistics service's view of a forwarded write,
// already mapped from the downstream status to a client-visible outcome.
type ForwardResult struct {
	StatusCode int    `json:"StatusCode"`
	Message    string `json:"message"`
}

// LoginEventMessage is the payload published to the service bus queue
// after an event has been persisted.
type LoginEventMessage struct {
	UUID       string    `json:"uuid"`
	DeviceType string    `json:"device_type"`
	DateAdded  time.Time `json:"date_added"`
}

// CountUnknown is returned for device types that were never recorded,
// distinguishing "never seen" from a plain zero.
const CountUnknown int64 = -1
