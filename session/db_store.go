package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restaurant/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStore keeps sessions in the sessions table of the main database.
type DBStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db, now: time.Now}
}

func (d *DBStore) Load(ctx context.Context, id string) (*Session, error) {
	var row models.Session
	err := d.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, d.now().UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(row.Payload), &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (d *DBStore) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	row := models.Session{
		ID:        s.ID,
		UserID:    s.UserID,
		Payload:   string(raw),
		ExpiresAt: s.ExpiresAt.UTC(),
	}
	err = d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "payload", "expires_at", "updated_at"}),
		}).
		Create(&row).
		Error
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (d *DBStore) Delete(ctx context.Context, id string) error {
	if err := d.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry and reports how many
// were removed.
func (d *DBStore) DeleteExpired(ctx context.Context) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("expires_at <= ?", d.now().UTC()).
		Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
