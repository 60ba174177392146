package domain

import "context"

// DraftRepository persists at most one resumable diagnosis draft per device.
type DraftRepository interface {
	Upsert(ctx context.Context, draft *DiagnosisDraft) error
	GetByDeviceID(ctx context.Context, deviceID string) (*DiagnosisDraft, error)
	Delete(ctx context.Context, deviceID string) error
}
