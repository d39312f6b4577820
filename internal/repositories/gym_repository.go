package repositories

import (
	"github.com/boxerly/backend/internal/models"
	"gorm.io/gorm"
)

// GymRepository defines the interface for gym account operations
type GymRepository interface {
	CreateGym(gym *models.Gym) error
	GetGymByID(id uint) (*models.Gym, error)
	GetGymByEmail(email string) (*models.Gym, error)
	UpdateGym(gym *models.Gym) error
	DeleteGym(id uint) error
	SetVisibility(id uint, visible bool) error
	ListGyms(offset, limit int) ([]models.Gym, error)
	SearchGyms(query string, offset, limit int) ([]models.Gym, error)
}

// PostgresGymRepository implements GymRepository for PostgreSQL
type PostgresGymRepository struct {
	db *gorm.DB
}

// NewPostgresGymRepository creates a new PostgresGymRepository
func NewPostgresGymRepository(db *gorm.DB) *PostgresGymRepository {
	return &PostgresGymRepository{db: db}
}

func (r *PostgresGymRepository) CreateGym(gym *models.Gym) error {
	return r.db.Create(gym).Error
}

func (r *PostgresGymRepository) GetGymByID(id uint) (*models.Gym, error) {
	var gym models.Gym
	if err := r.db.First(&gym, id).Error; err != nil {
		return nil, err
	}
	return &gym, nil
}

func (r *PostgresGymRepository) GetGymByEmail(email string) (*models.Gym, error) {
	var gym models.Gym
	if err := r.db.Where("email = ?", email).First(&gym).Error; err != nil {
		return nil, err
	}
	return &gym, nil
}

func (r *PostgresGymRepository) UpdateGym(gym *models.Gym) error {
	return r.db.Save(gym).Error
}

func (r *PostgresGymRepository) DeleteGym(id uint) error {
	return r.db.Delete(&models.Gym{}, id).Error
}

func (r *PostgresGymRepository) SetVisibility(id uint, visible bool) error {
	return r.db.Model(&models.Gym{}).Where("id = ?", id).Update("visible", visible).Error
}

func (r *PostgresGymRepository) ListGyms(offset, limit int) ([]models.Gym, error) {
	var gyms []models.Gym
	err := r.db.Where("visible = true").Order("name ASC").Offset(offset).Limit(limit).Find(&gyms).Error
	if err != nil {
		return nil, err
	}
	return gyms, nil
}

func (r *PostgresGymRepository) SearchGyms(query string, offset, limit int) ([]models.Gym, error) {
	var gyms []models.Gym
	err := r.db.Where("visible = true").
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(city) LIKE LOWER(?)", "%"+query+"%", "%"+query+"%").
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&gyms).Error
	if err != nil {
		return nil, err
	}
	return gyms, nil
}
