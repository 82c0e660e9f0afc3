package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// ProfileRepository implements port.ProfileStore
type ProfileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, logger *zap.Logger) port.ProfileStore {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new profile document
func (r *ProfileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO profiles (
			id, first_name, last_name, chosen_name, email, language, picture_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		profile.ID,
		profile.FirstName,
		profile.LastName,
		profile.ChosenName,
		profile.Email,
		profile.Language,
		profile.PictureID,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create profile", zap.String("id", profile.ID), zap.Error(err))
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// Get retrieves a profile by id, returning (nil, nil) when absent
func (r *ProfileRepository) Get(ctx context.Context, id string) (*entity.Profile, error) {
	return r.getProfile(ctx, "id = ?", id)
}

// GetByEmail retrieves a profile by email, returning (nil, nil) when absent
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	return r.getProfile(ctx, "email = ?", email)
}

func (r *ProfileRepository) getProfile(ctx context.Context, where string, arg interface{}) (*entity.Profile, error) {
	query := `
		SELECT id, first_name, last_name, chosen_name, email, language, picture_id,
			created_at, updated_at
		FROM profiles
		WHERE ` + where

	var profile entity.Profile
	var chosenName sql.NullString
	var pictureID sql.NullString

	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&profile.ID,
		&profile.FirstName,
		&profile.LastName,
		&chosenName,
		&profile.Email,
		&profile.Language,
		&pictureID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get profile", zap.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if chosenName.Valid {
		profile.ChosenName = chosenName.String
	}
	if pictureID.Valid {
		profile.PictureID = pictureID.String
	}

	return &profile, nil
}

// Update replaces the mutable profile fields
func (r *ProfileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	query := `
		UPDATE profiles
		SET first_name = ?, last_name = ?, chosen_name = ?, email = ?,
			language = ?, picture_id = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		profile.FirstName,
		profile.LastName,
		profile.ChosenName,
		profile.Email,
		profile.Language,
		profile.PictureID,
		profile.UpdatedAt,
		profile.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update profile", zap.String("id", profile.ID), zap.Error(err))
		return fmt.Errorf("failed to update profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %s does not exist", profile.ID)
	}

	return nil
}

// Verify interface compliance
var _ port.ProfileStore = (*ProfileRepository)(nil)
