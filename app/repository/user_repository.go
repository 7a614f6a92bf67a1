package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertByEmail creates the user or refreshes the CRM-owned profile fields.
func (r *userRepository) UpsertByEmail(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"external_id",
			"phone",
			"avatar_url",
			"updated_at",
		}),
	}).Create(user).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return db.Where("email = ?", user.Email).First(user).Error
}

// GetByAPIKeyHash resolves an active access token hash to its user and settings.
func (r *userRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, *models.UserSettings, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, nil, gorm.ErrRecordNotFound
	}
	db := r.db.WithContext(ctx)
	var settings models.UserSettings
	query := db.Where("api_key_hash = ? AND api_key_hash <> '' AND api_key_revoked_at IS NULL", trimmed)
	if err := query.First(&settings).Error; err != nil {
		return nil, nil, err
	}
	var user models.User
	if err := db.First(&user, settings.UserID).Error; err != nil {
		return nil, nil, err
	}
	return &user, &settings, nil
}

// GetOrCreateSettings returns existing settings or creates defaults
func (r *userRepository) GetOrCreateSettings(ctx context.Context, userID uint) (*models.UserSettings, error) {
	db := r.db.WithContext(ctx)
	us := models.UserSettings{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&us).Error; err != nil {
		return nil, err
	}
	var stored models.UserSettings
	if err := db.Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// SaveSettings persists the settings row
func (r *userRepository) SaveSettings(ctx context.Context, settings *models.UserSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// TouchAPIKeyUsage refreshes the last-used timestamp of an access token
func (r *userRepository) TouchAPIKeyUsage(ctx context.Context, settingsID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.UserSettings{}).
		Where("id = ?", settingsID).
		Updates(map[string]any{"api_key_last_used_at": at}).Error
}
