package store

import (
	"context"

	"bankoffice/internal/models"
)

// AccessLogStore only appends and reads; rows are never updated.
type AccessLogStore struct {
	db DB
}

const accessLogColumns = `id, customer_id, action, status, ip_address, user_agent, path, accessed_at`

func NewAccessLogStore(db DB) *AccessLogStore {
	return &AccessLogStore{db: db}
}

func (s *AccessLogStore) Append(ctx context.Context, tx Execer, entry models.AccessLog) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO access_logs (id, customer_id, action, status, ip_address, user_agent, path, accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, entry.CustomerID, entry.Action, entry.Status, entry.IPAddress, entry.UserAgent, entry.Path, entry.Timestamp)
	return err
}

func (s *AccessLogStore) GetByID(ctx context.Context, id string) (models.AccessLog, error) {
	var row models.AccessLog
	err := s.db.GetContext(ctx, &row, `SELECT `+accessLogColumns+` FROM access_logs WHERE id = $1`, id)
	if err != nil {
		return models.AccessLog{}, err
	}
	return row, nil
}

func (s *AccessLogStore) List(ctx context.Context, customerID string, limit, offset int) ([]models.AccessLog, error) {
	var rows []models.AccessLog
	var err error
	if customerID == "" {
		err = s.db.SelectContext(ctx, &rows, `
			SELECT `+accessLogColumns+`
			FROM access_logs
			ORDER BY accessed_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	} else {
		err = s.db.SelectContext(ctx, &rows, `
			SELECT `+accessLogColumns+`
			FROM access_logs
			WHERE customer_id = $1
			ORDER BY accessed_at DESC
			LIMIT $2 OFFSET $3
		`, customerID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}
