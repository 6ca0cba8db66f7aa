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

// JobRepository defines the interface for job data access operations.
type JobRepository interface {
	// Create inserts a new job submission.
	Create(ctx context.Context, job *models.JobSubmission) error

	// GetByID returns the job with the given id.
	// Returns nil, nil if no job is found (not an error).
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobSubmission, error)

	// List returns jobs ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]models.JobSubmission, error)

	// Update overwrites the mutable intake fields of an existing job.
	Update(ctx context.Context, job *models.JobSubmission) error

	// SetJobNumber records the external job number and id after a sync.
	SetJobNumber(ctx context.Context, id uuid.UUID, jobNumber string, valcreJobID int) error

	// UpdateStatus moves the job to the given status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error

	// Delete removes the job and all dependent rows in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

// jobRepository is the concrete implementation of JobRepository.
type jobRepository struct {
	db *database.Database
}

// NewJobRepository creates a new instance of JobRepository.
func NewJobRepository(db *database.Database) JobRepository {
	return &jobRepository{
		db: db,
	}
}

const jobColumns = `
	id,
	client_first_name,
	client_last_name,
	client_email,
	client_phone,
	client_title,
	client_company,
	client_address,
	property_name,
	property_address,
	property_type,
	intended_use,
	asset_condition,
	valuation_premise,
	property_rights,
	analysis_level,
	property_contact_name,
	property_contact_email,
	property_contact_phone,
	job_number,
	valcre_job_id,
	status,
	created_at,
	updated_at`

func scanJob(row pgx.Row) (*models.JobSubmission, error) {
	var job models.JobSubmission
	err := row.Scan(
		&job.ID,
		&job.ClientFirstName,
		&job.ClientLastName,
		&job.ClientEmail,
		&job.ClientPhone,
		&job.ClientTitle,
		&job.ClientCompany,
		&job.ClientAddress,
		&job.PropertyName,
		&job.PropertyAddress,
		&job.PropertyType,
		&job.IntendedUse,
		&job.AssetCondition,
		&job.ValuationPremise,
		&job.PropertyRights,
		&job.AnalysisLevel,
		&job.PropertyContactName,
		&job.PropertyContactEmail,
		&job.PropertyContactPhone,
		&job.JobNumber,
		&job.ValcreJobID,
		&job.Status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) Create(ctx context.Context, job *models.JobSubmission) error {
	query := `
		INSERT INTO job_submissions (
			id,
			client_first_name,
			client_last_name,
			client_email,
			client_phone,
			client_title,
			client_company,
			client_address,
			property_name,
			property_address,
			property_type,
			intended_use,
			asset_condition,
			valuation_premise,
			property_rights,
			analysis_level,
			property_contact_name,
			property_contact_email,
			property_contact_phone,
			status,
			created_at,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			now(), now()
		)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		job.ID,
		job.ClientFirstName,
		job.ClientLastName,
		job.ClientEmail,
		job.ClientPhone,
		job.ClientTitle,
		job.ClientCompany,
		job.ClientAddress,
		job.PropertyName,
		job.PropertyAddress,
		job.PropertyType,
		job.IntendedUse,
		job.AssetCondition,
		job.ValuationPremise,
		job.PropertyRights,
		job.AnalysisLevel,
		job.PropertyContactName,
		job.PropertyContactEmail,
		job.PropertyContactPhone,
		job.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job %s: %w", job.ID, err)
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.JobSubmission, error) {
	query := `SELECT ` + jobColumns + ` FROM job_submissions WHERE id = $1`

	job, err := scanJob(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query job %s: %w", id, err)
	}
	return job, nil
}

func (r *jobRepository) List(ctx context.Context, limit, offset int) ([]models.JobSubmission, error) {
	query := `SELECT ` + jobColumns + `
		FROM job_submissions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.JobSubmission
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	if jobs == nil {
		jobs = []models.JobSubmission{}
	}
	return jobs, nil
}

func (r *jobRepository) Update(ctx context.Context, job *models.JobSubmission) error {
	query := `
		UPDATE job_submissions SET
			client_first_name = $2,
			client_last_name = $3,
			client_email = $4,
			client_phone = $5,
			client_title = $6,
			client_company = $7,
			client_address = $8,
			property_name = $9,
			property_address = $10,
			property_type = $11,
			intended_use = $12,
			asset_condition = $13,
			valuation_premise = $14,
			property_rights = $15,
			analysis_level = $16,
			property_contact_name = $17,
			property_contact_email = $18,
			property_contact_phone = $19,
			updated_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		job.ID,
		job.ClientFirstName,
		job.ClientLastName,
		job.ClientEmail,
		job.ClientPhone,
		job.ClientTitle,
		job.ClientCompany,
		job.ClientAddress,
		job.PropertyName,
		job.PropertyAddress,
		job.PropertyType,
		job.IntendedUse,
		job.AssetCondition,
		job.ValuationPremise,
		job.PropertyRights,
		job.AnalysisLevel,
		job.PropertyContactName,
		job.PropertyContactEmail,
		job.PropertyContactPhone,
	)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found", job.ID)
	}
	return nil
}

func (r *jobRepository) SetJobNumber(ctx context.Context, id uuid.UUID, jobNumber string, valcreJobID int) error {
	query := `
		UPDATE job_submissions
		SET job_number = $2, valcre_job_id = $3, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, jobNumber, valcreJobID)
	if err != nil {
		return fmt.Errorf("failed to set job number for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found", id)
	}
	return nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	query := `
		UPDATE job_submissions
		SET status = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update status for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found", id)
	}
	return nil
}

// Delete removes the job and its dependent LOE, property-info and file rows in
// one transaction so a partial delete can never leave orphans.
func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	dependents := []string{
		`DELETE FROM loe_details WHERE job_id = $1`,
		`DELETE FROM property_info WHERE job_id = $1`,
		`DELETE FROM job_files WHERE job_id = $1`,
	}
	for _, q := range dependents {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("failed to delete dependents of job %s: %w", id, err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM job_submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete of job %s: %w", id, err)
	}
	return nil
}
