package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"hopskip/internal/database"
	"hopskip/internal/wizard"
)

// WizardRepository persists wizard snapshots as JSONB keyed by session id.
// Validators never travel with a snapshot; the service reattaches them from
// the flow definition on load.
type WizardRepository struct {
	db *database.DB
}

func NewWizardRepository(db *database.DB) *WizardRepository {
	return &WizardRepository{db: db}
}

func (r *WizardRepository) Save(ctx context.Context, sessionID string, guardianID int64, snap wizard.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO wizard_sessions (id, guardian_id, flow, snapshot)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET snapshot = EXCLUDED.snapshot, updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query, sessionID, guardianID, snap.Flow, payload)
	return err
}

func (r *WizardRepository) Get(ctx context.Context, sessionID string, guardianID int64) (*wizard.Snapshot, error) {
	var payload []byte
	query := `
		SELECT snapshot
		FROM wizard_sessions
		WHERE id = $1 AND guardian_id = $2`

	err := r.db.QueryRowContext(ctx, query, sessionID, guardianID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap wizard.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}

	return &snap, nil
}

func (r *WizardRepository) Delete(ctx context.Context, sessionID string, guardianID int64) error {
	query := `DELETE FROM wizard_sessions WHERE id = $1 AND guardian_id = $2`
	_, err := r.db.ExecContext(ctx, query, sessionID, guardianID)
	return err
}
