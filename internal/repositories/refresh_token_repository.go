package repositories

import (
	"time"

	"github.com/boxerly/backend/internal/models"
	"gorm.io/gorm"
)

// RefreshTokenRepository tracks issued refresh tokens for rotation and revocation
type RefreshTokenRepository interface {
	Create(token *models.RefreshToken) error
	GetByJTI(jti string) (*models.RefreshToken, error)
	Revoke(jti string) error
	RevokeAllForAccount(accountID uint, accountType string) error
	DeleteExpired() error
}

type postgresRefreshTokenRepository struct {
	db *gorm.DB
}

func NewPostgresRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &postgresRefreshTokenRepository{db: db}
}

func (r *postgresRefreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *postgresRefreshTokenRepository) GetByJTI(jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *postgresRefreshTokenRepository) Revoke(jti string) error {
	return r.db.Model(&models.RefreshToken{}).Where("jti = ?", jti).Update("revoked", true).Error
}

func (r *postgresRefreshTokenRepository) RevokeAllForAccount(accountID uint, accountType string) error {
	return r.db.Model(&models.RefreshToken{}).
		Where("account_id = ? AND account_type = ?", accountID, accountType).
		Update("revoked", true).Error
}

func (r *postgresRefreshTokenRepository) DeleteExpired() error {
	return r.db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{}).Error
}
