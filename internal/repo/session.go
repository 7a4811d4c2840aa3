package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/shop_api/internal/models"
)

func (r *GormRepo) CreateSession(ctx context.Context, s *models.Session) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

// ActiveSession returns the session when it exists, is not revoked and has
// not expired.
func (r *GormRepo) ActiveSession(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.DB.WithContext(ctx).
		Where("id = ? AND revoked = ? AND expires_at > ?", id, false, time.Now().Unix()).
		First(&s).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *GormRepo) RevokeSession(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND revoked = ?", id, false).
		Update("revoked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeSessions deletes revoked and expired sessions.
func (r *GormRepo) PurgeSessions(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("revoked = ? OR expires_at <= ?", true, now.Unix()).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
