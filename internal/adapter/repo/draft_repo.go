package repo

import (
	"context"

	"homefix/internal/domain"
	"homefix/internal/infra"
	"homefix/internal/sqlinline"
)

// DraftRepositoryPG implements domain.DraftRepository.
type DraftRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDraftRepository creates a draft repository backed by PostgreSQL.
func NewDraftRepository(sql infra.SQLExecutor) *DraftRepositoryPG {
	return &DraftRepositoryPG{sql: sql}
}

// Upsert writes the device's single resumable draft, replacing any prior one.
func (r *DraftRepositoryPG) Upsert(ctx context.Context, draft *domain.DiagnosisDraft) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertDraft, draft.DeviceID, draft.Description, draft.ImageKey)
	return err
}

// GetByDeviceID fetches the device's draft.
func (r *DraftRepositoryPG) GetByDeviceID(ctx context.Context, deviceID string) (*domain.DiagnosisDraft, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectDraftByDevice, deviceID)
	var draft domain.DiagnosisDraft
	if err := row.Scan(
		&draft.DeviceID,
		&draft.Description,
		&draft.ImageKey,
		&draft.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// Delete removes the device's draft, if any.
func (r *DraftRepositoryPG) Delete(ctx context.Context, deviceID string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QDeleteDraft, deviceID)
	return err
}

var _ domain.DraftRepository = (*DraftRepositoryPG)(nil)
