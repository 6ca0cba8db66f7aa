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

// DetailRepository handles the per-job LOE and property-info rows. Both are
// created lazily on the first edit of their dashboard section, so every write
// is an upsert keyed by job id.
type DetailRepository interface {
	// GetLOE returns the LOE row for a job. Returns nil, nil if the section
	// was never edited.
	GetLOE(ctx context.Context, jobID uuid.UUID) (*models.LOEDetails, error)

	// UpsertLOE inserts or overwrites the LOE row for a job.
	UpsertLOE(ctx context.Context, loe *models.LOEDetails) error

	// SetSubmission records the e-signature submission created for a job's LOE.
	SetSubmission(ctx context.Context, jobID uuid.UUID, submissionID int, slug, renderedDoc string) error

	// SetClickUpTask records the task id tracking a job.
	SetClickUpTask(ctx context.Context, jobID uuid.UUID, taskID string) error

	// GetPropertyInfo returns the property-info row for a job. Returns
	// nil, nil if the section was never edited.
	GetPropertyInfo(ctx context.Context, jobID uuid.UUID) (*models.PropertyInfo, error)

	// UpsertPropertyInfo inserts or overwrites the property-info row.
	UpsertPropertyInfo(ctx context.Context, info *models.PropertyInfo) error
}

// detailRepository is the concrete implementation of DetailRepository.
type detailRepository struct {
	db *database.Database
}

// NewDetailRepository creates a new instance of DetailRepository.
func NewDetailRepository(db *database.Database) DetailRepository {
	return &detailRepository{
		db: db,
	}
}

func (r *detailRepository) GetLOE(ctx context.Context, jobID uuid.UUID) (*models.LOEDetails, error) {
	query := `
		SELECT
			job_id,
			report_type,
			payment_terms,
			scope_of_work,
			fee_amount,
			retainer_amount,
			delivery_date,
			internal_comments,
			client_comments,
			delivery_comments,
			payment_comments,
			clickup_task_id,
			docuseal_submission_id,
			docuseal_slug,
			rendered_document,
			created_at,
			updated_at
		FROM loe_details
		WHERE job_id = $1
	`

	var loe models.LOEDetails
	err := r.db.Pool.QueryRow(ctx, query, jobID).Scan(
		&loe.JobID,
		&loe.ReportType,
		&loe.PaymentTerms,
		&loe.ScopeOfWork,
		&loe.FeeAmount,
		&loe.RetainerAmount,
		&loe.DeliveryDate,
		&loe.InternalComments,
		&loe.ClientComments,
		&loe.DeliveryComments,
		&loe.PaymentComments,
		&loe.ClickUpTaskID,
		&loe.DocuSealSubmissionID,
		&loe.DocuSealSlug,
		&loe.RenderedDocument,
		&loe.CreatedAt,
		&loe.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query LOE for job %s: %w", jobID, err)
	}
	return &loe, nil
}

// UpsertLOE writes only the editable commercial fields; the external
// references written by SetSubmission and SetClickUpTask survive an autosave.
func (r *detailRepository) UpsertLOE(ctx context.Context, loe *models.LOEDetails) error {
	query := `
		INSERT INTO loe_details (
			job_id,
			report_type,
			payment_terms,
			scope_of_work,
			fee_amount,
			retainer_amount,
			delivery_date,
			internal_comments,
			client_comments,
			delivery_comments,
			payment_comments,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		ON CONFLICT (job_id) DO UPDATE SET
			report_type = EXCLUDED.report_type,
			payment_terms = EXCLUDED.payment_terms,
			scope_of_work = EXCLUDED.scope_of_work,
			fee_amount = EXCLUDED.fee_amount,
			retainer_amount = EXCLUDED.retainer_amount,
			delivery_date = EXCLUDED.delivery_date,
			internal_comments = EXCLUDED.internal_comments,
			client_comments = EXCLUDED.client_comments,
			delivery_comments = EXCLUDED.delivery_comments,
			payment_comments = EXCLUDED.payment_comments,
			updated_at = now()
	`

	_, err := r.db.Pool.Exec(ctx, query,
		loe.JobID,
		loe.ReportType,
		loe.PaymentTerms,
		loe.ScopeOfWork,
		loe.FeeAmount,
		loe.RetainerAmount,
		loe.DeliveryDate,
		loe.InternalComments,
		loe.ClientComments,
		loe.DeliveryComments,
		loe.PaymentComments,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert LOE for job %s: %w", loe.JobID, err)
	}
	return nil
}

func (r *detailRepository) SetSubmission(ctx context.Context, jobID uuid.UUID, submissionID int, slug, renderedDoc string) error {
	query := `
		INSERT INTO loe_details (job_id, docuseal_submission_id, docuseal_slug, rendered_document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (job_id) DO UPDATE SET
			docuseal_submission_id = EXCLUDED.docuseal_submission_id,
			docuseal_slug = EXCLUDED.docuseal_slug,
			rendered_document = EXCLUDED.rendered_document,
			updated_at = now()
	`

	_, err := r.db.Pool.Exec(ctx, query, jobID, submissionID, slug, renderedDoc)
	if err != nil {
		return fmt.Errorf("failed to record submission for job %s: %w", jobID, err)
	}
	return nil
}

func (r *detailRepository) SetClickUpTask(ctx context.Context, jobID uuid.UUID, taskID string) error {
	query := `
		INSERT INTO loe_details (job_id, clickup_task_id, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (job_id) DO UPDATE SET
			clickup_task_id = EXCLUDED.clickup_task_id,
			updated_at = now()
	`

	_, err := r.db.Pool.Exec(ctx, query, jobID, taskID)
	if err != nil {
		return fmt.Errorf("failed to record task id for job %s: %w", jobID, err)
	}
	return nil
}

func (r *detailRepository) GetPropertyInfo(ctx context.Context, jobID uuid.UUID) (*models.PropertyInfo, error) {
	query := `
		SELECT
			job_id,
			year_built,
			building_size_sqft,
			zoning,
			asset_quality,
			parcel_number,
			legal_description,
			land_area_acres,
			land_area_sqft,
			assessment_year,
			assessed_land_value,
			assessed_imprv_value,
			assessed_total_value,
			annual_property_taxes,
			created_at,
			updated_at
		FROM property_info
		WHERE job_id = $1
	`

	var info models.PropertyInfo
	err := r.db.Pool.QueryRow(ctx, query, jobID).Scan(
		&info.JobID,
		&info.YearBuilt,
		&info.BuildingSizeSqFt,
		&info.Zoning,
		&info.AssetQuality,
		&info.ParcelNumber,
		&info.LegalDescription,
		&info.LandAreaAcres,
		&info.LandAreaSqFt,
		&info.AssessmentYear,
		&info.AssessedLandValue,
		&info.AssessedImprvValue,
		&info.AssessedTotalValue,
		&info.AnnualPropertyTaxes,
		&info.CreatedAt,
		&info.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property info for job %s: %w", jobID, err)
	}
	return &info, nil
}

func (r *detailRepository) UpsertPropertyInfo(ctx context.Context, info *models.PropertyInfo) error {
	query := `
		INSERT INTO property_info (
			job_id,
			year_built,
			building_size_sqft,
			zoning,
			asset_quality,
			parcel_number,
			legal_description,
			land_area_acres,
			land_area_sqft,
			assessment_year,
			assessed_land_value,
			assessed_imprv_value,
			assessed_total_value,
			annual_property_taxes,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
		ON CONFLICT (job_id) DO UPDATE SET
			year_built = EXCLUDED.year_built,
			building_size_sqft = EXCLUDED.building_size_sqft,
			zoning = EXCLUDED.zoning,
			asset_quality = EXCLUDED.asset_quality,
			parcel_number = EXCLUDED.parcel_number,
			legal_description = EXCLUDED.legal_description,
			land_area_acres = EXCLUDED.land_area_acres,
			land_area_sqft = EXCLUDED.land_area_sqft,
			assessment_year = EXCLUDED.assessment_year,
			assessed_land_value = EXCLUDED.assessed_land_value,
			assessed_imprv_value = EXCLUDED.assessed_imprv_value,
			assessed_total_value = EXCLUDED.assessed_total_value,
			annual_property_taxes = EXCLUDED.annual_property_taxes,
			updated_at = now()
	`

	_, err := r.db.Pool.Exec(ctx, query,
		info.JobID,
		info.YearBuilt,
		info.BuildingSizeSqFt,
		info.Zoning,
		info.AssetQuality,
		info.ParcelNumber,
		info.LegalDescription,
		info.LandAreaAcres,
		info.LandAreaSqFt,
		info.AssessmentYear,
		info.AssessedLandValue,
		info.AssessedImprvValue,
		info.AssessedTotalValue,
		info.AnnualPropertyTaxes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert property info for job %s: %w", info.JobID, err)
	}
	return nil
}
