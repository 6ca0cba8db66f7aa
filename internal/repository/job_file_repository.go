package repository

import (
	"context"
	"fmt"

	"github.com/chinookvaluation/dashboard/api/internal/database"
	"github.com/chinookvaluation/dashboard/api/internal/models"
	"github.com/google/uuid"
)

// JobFileRepository defines the interface for attachment metadata operations.
// Files are referenced, never mutated; rows are removed with the parent job.
type JobFileRepository interface {
	// Create inserts metadata for one uploaded file.
	Create(ctx context.Context, file *models.JobFile) error

	// ListByJob returns all files attached to a job, oldest first.
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.JobFile, error)
}

// jobFileRepository is the concrete implementation of JobFileRepository.
type jobFileRepository struct {
	db *database.Database
}

// NewJobFileRepository creates a new instance of JobFileRepository.
func NewJobFileRepository(db *database.Database) JobFileRepository {
	return &jobFileRepository{
		db: db,
	}
}

func (r *jobFileRepository) Create(ctx context.Context, file *models.JobFile) error {
	query := `
		INSERT INTO job_files (id, job_id, file_name, storage_path, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`

	_, err := r.db.Pool.Exec(ctx, query,
		file.ID,
		file.JobID,
		file.FileName,
		file.StoragePath,
		file.ContentType,
		file.SizeBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert file %s for job %s: %w", file.FileName, file.JobID, err)
	}
	return nil
}

func (r *jobFileRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.JobFile, error) {
	query := `
		SELECT id, job_id, file_name, storage_path, content_type, size_bytes, created_at
		FROM job_files
		WHERE job_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query files for job %s: %w", jobID, err)
	}
	defer rows.Close()

	var files []models.JobFile
	for rows.Next() {
		var file models.JobFile
		err := rows.Scan(
			&file.ID,
			&file.JobID,
			&file.FileName,
			&file.StoragePath,
			&file.ContentType,
			&file.SizeBytes,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}

	if files == nil {
		files = []models.JobFile{}
	}
	return files, nil
}
