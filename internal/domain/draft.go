package domain

import "time"

// DiagnosisDraft is the resumable capture a device saves before submitting a
// diagnosis: the description text plus a storage key for the captured photo.
// Each device holds at most one draft.
type DiagnosisDraft struct {
	DeviceID    string
	Description string
	ImageKey    string
	UpdatedAt   time.Time
}
