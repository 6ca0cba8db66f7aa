package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/chinookvaluation/dashboard/api/internal/database"
	"github.com/chinookvaluation/dashboard/api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ClientProfileRepository maintains the per-client aggregate keyed by email.
type ClientProfileRepository interface {
	// UpsertFromSubmission creates the profile on the client's first job and
	// bumps the job count and last-job date on every subsequent one.
	UpsertFromSubmission(ctx context.Context, job *models.JobSubmission) error

	// GetByEmail returns the profile for an email address.
	// Returns nil, nil if no profile exists (not an error).
	GetByEmail(ctx context.Context, email string) (*models.ClientProfile, error)
}

// clientProfileRepository is the concrete implementation of ClientProfileRepository.
type clientProfileRepository struct {
	db *database.Database
}

// NewClientProfileRepository creates a new instance of ClientProfileRepository.
func NewClientProfileRepository(db *database.Database) ClientProfileRepository {
	return &clientProfileRepository{
		db: db,
	}
}

func (r *clientProfileRepository) UpsertFromSubmission(ctx context.Context, job *models.JobSubmission) error {
	query := `
		INSERT INTO client_profiles (
			id, email, first_name, last_name, company, phone,
			job_count, first_job_at, last_job_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 1, now(), now(), now(), now())
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			company = COALESCE(EXCLUDED.company, client_profiles.company),
			phone = EXCLUDED.phone,
			job_count = client_profiles.job_count + 1,
			last_job_at = now(),
			updated_at = now()
	`

	_, err := r.db.Pool.Exec(ctx, query,
		uuid.New(),
		job.ClientEmail,
		job.ClientFirstName,
		job.ClientLastName,
		job.ClientCompany,
		job.ClientPhone,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert client profile for %s: %w", job.ClientEmail, err)
	}
	return nil
}

func (r *clientProfileRepository) GetByEmail(ctx context.Context, email string) (*models.ClientProfile, error) {
	query := `
		SELECT
			id, email, first_name, last_name, company, phone, tags,
			job_count, first_job_at, last_job_at, created_at, updated_at
		FROM client_profiles
		WHERE email = $1
	`

	var profile models.ClientProfile
	err := r.db.Pool.QueryRow(ctx, query, email).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FirstName,
		&profile.LastName,
		&profile.Company,
		&profile.Phone,
		&profile.Tags,
		&profile.JobCount,
		&profile.FirstJobAt,
		&profile.LastJobAt,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query client profile for %s: %w", email, err)
	}
	return &profile, nil
}
