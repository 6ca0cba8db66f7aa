package models

import (
	"time"

	"github.com/google/uuid"
)

// JobSubmission is the central record for one appraisal engagement, created by
// the intake form and tracked through the workflow until completion.
// All nullable fields use pointers to distinguish between zero values and NULL.
type JobSubmission struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`

	// Client identity, collected on the intake form.
	ClientFirstName string  `gorm:"size:100;not null;column:client_first_name" json:"clientFirstName"`
	ClientLastName  string  `gorm:"size:100;not null;column:client_last_name" json:"clientLastName"`
	ClientEmail     string  `gorm:"size:255;index;not null;column:client_email" json:"clientEmail"`
	ClientPhone     string  `gorm:"size:50;not null;column:client_phone" json:"clientPhone"`
	ClientTitle     *string `gorm:"size:100;column:client_title" json:"clientTitle,omitempty"`
	ClientCompany   *string `gorm:"size:255;column:client_company" json:"clientCompany,omitempty"`
	ClientAddress   *string `gorm:"size:500;column:client_address" json:"clientAddress,omitempty"`

	// Property identity.
	PropertyName     *string `gorm:"size:255;column:property_name" json:"propertyName,omitempty"`
	PropertyAddress  string  `gorm:"size:500;not null;column:property_address" json:"propertyAddress"`
	PropertyType     string  `gorm:"size:100;not null;column:property_type" json:"propertyType"`
	IntendedUse      *string `gorm:"size:100;column:intended_use" json:"intendedUse,omitempty"`
	AssetCondition   *string `gorm:"size:50;column:asset_condition" json:"assetCondition,omitempty"`
	ValuationPremise *string `gorm:"size:100;column:valuation_premise" json:"valuationPremise,omitempty"`
	PropertyRights   *string `gorm:"size:100;column:property_rights" json:"propertyRights,omitempty"`
	AnalysisLevel    *string `gorm:"size:100;column:analysis_level" json:"analysisLevel,omitempty"`

	// Optional property contact. When unset the contact is treated as
	// "same as client" and no separate external contact is created.
	PropertyContactName  *string `gorm:"size:255;column:property_contact_name" json:"propertyContactName,omitempty"`
	PropertyContactEmail *string `gorm:"size:255;column:property_contact_email" json:"propertyContactEmail,omitempty"`
	PropertyContactPhone *string `gorm:"size:50;column:property_contact_phone" json:"propertyContactPhone,omitempty"`

	// External references, written back by the sync orchestrator.
	JobNumber   *string `gorm:"size:50;index;column:job_number" json:"jobNumber,omitempty"`
	ValcreJobID *int    `gorm:"column:valcre_job_id" json:"valcreJobId,omitempty"`

	Status Status    `gorm:"size:50;not null;default:'submitted';column:status" json:"status"`
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
}

// TableName specifies the table name for GORM.
func (JobSubmission) TableName() string {
	return "job_submissions"
}

// LOEDetails holds the commercial terms feeding the letter of engagement.
// One row per job, created lazily on the first LOE-section edit.
type LOEDetails struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`

	ReportType   *string `gorm:"size:100;column:report_type" json:"reportType,omitempty"`
	PaymentTerms *string `gorm:"size:100;column:payment_terms" json:"paymentTerms,omitempty"`
	ScopeOfWork  *string `gorm:"type:text;column:scope_of_work" json:"scopeOfWork,omitempty"`

	// Fee amounts are stored as entered ("$4,500.00"); currency formatting is
	// stripped only when the values leave the system.
	FeeAmount      *string `gorm:"size:50;column:fee_amount" json:"feeAmount,omitempty"`
	RetainerAmount *string `gorm:"size:50;column:retainer_amount" json:"retainerAmount,omitempty"`

	DeliveryDate *time.Time `gorm:"column:delivery_date" json:"deliveryDate,omitempty"`

	InternalComments *string `gorm:"type:text;column:internal_comments" json:"internalComments,omitempty"`
	ClientComments   *string `gorm:"type:text;column:client_comments" json:"clientComments,omitempty"`
	DeliveryComments *string `gorm:"type:text;column:delivery_comments" json:"deliveryComments,omitempty"`
	PaymentComments  *string `gorm:"type:text;column:payment_comments" json:"paymentComments,omitempty"`

	// External references.
	ClickUpTaskID        *string `gorm:"size:50;column:clickup_task_id" json:"clickupTaskId,omitempty"`
	DocuSealSubmissionID *int    `gorm:"column:docuseal_submission_id" json:"docusealSubmissionId,omitempty"`
	DocuSealSlug         *string `gorm:"size:100;column:docuseal_slug" json:"docusealSlug,omitempty"`
	RenderedDocument     *string `gorm:"type:text;column:rendered_document" json:"-"`

	JobID uuid.UUID `gorm:"type:uuid;primaryKey;column:job_id" json:"jobId"`
}

// TableName specifies the table name for GORM.
func (LOEDetails) TableName() string {
	return "loe_details"
}

// PropertyInfo holds physical and legal property attributes.
// One row per job, same lazy-create/upsert lifecycle as LOEDetails.
type PropertyInfo struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`

	YearBuilt        *int     `gorm:"column:year_built" json:"yearBuilt,omitempty"`
	BuildingSizeSqFt *float64 `gorm:"column:building_size_sqft" json:"buildingSizeSqft,omitempty"`
	Zoning           *string  `gorm:"size:100;column:zoning" json:"zoning,omitempty"`
	AssetQuality     *string  `gorm:"size:50;column:asset_quality" json:"assetQuality,omitempty"`

	ParcelNumber     *string  `gorm:"size:100;column:parcel_number" json:"parcelNumber,omitempty"`
	LegalDescription *string  `gorm:"type:text;column:legal_description" json:"legalDescription,omitempty"`
	LandAreaAcres    *float64 `gorm:"column:land_area_acres" json:"landAreaAcres,omitempty"`
	LandAreaSqFt     *float64 `gorm:"column:land_area_sqft" json:"landAreaSqft,omitempty"`

	AssessmentYear      *int     `gorm:"column:assessment_year" json:"assessmentYear,omitempty"`
	AssessedLandValue   *float64 `gorm:"column:assessed_land_value" json:"assessedLandValue,omitempty"`
	AssessedImprvValue  *float64 `gorm:"column:assessed_imprv_value" json:"assessedImprvValue,omitempty"`
	AssessedTotalValue  *float64 `gorm:"column:assessed_total_value" json:"assessedTotalValue,omitempty"`
	AnnualPropertyTaxes *float64 `gorm:"column:annual_property_taxes" json:"annualPropertyTaxes,omitempty"`

	JobID uuid.UUID `gorm:"type:uuid;primaryKey;column:job_id" json:"jobId"`
}

// TableName specifies the table name for GORM.
func (PropertyInfo) TableName() string {
	return "property_info"
}

// JobFile is metadata for one uploaded attachment. Files are referenced, never
// mutated, and removed when the parent job is deleted.
type JobFile struct {
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	FileName    string    `gorm:"size:255;not null;column:file_name" json:"fileName"`
	StoragePath string    `gorm:"size:500;not null;column:storage_path" json:"storagePath"`
	ContentType string    `gorm:"size:100;column:content_type" json:"contentType"`
	SizeBytes   int64     `gorm:"column:size_bytes" json:"sizeBytes"`
	JobID       uuid.UUID `gorm:"type:uuid;index;not null;column:job_id" json:"jobId"`
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
}

// TableName specifies the table name for GORM.
func (JobFile) TableName() string {
	return "job_files"
}

// ClientProfile is the per-client aggregate used for auto-fill and reporting.
// Keyed by email: one profile per unique address, updated on each submission.
type ClientProfile struct {
	CreatedAt  time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updatedAt"`
	FirstJobAt time.Time `gorm:"column:first_job_at" json:"firstJobAt"`
	LastJobAt  time.Time `gorm:"column:last_job_at" json:"lastJobAt"`

	Email     string  `gorm:"size:255;uniqueIndex;not null;column:email" json:"email"`
	FirstName string  `gorm:"size:100;column:first_name" json:"firstName"`
	LastName  string  `gorm:"size:100;column:last_name" json:"lastName"`
	Company   *string `gorm:"size:255;column:company" json:"company,omitempty"`
	Phone     *string `gorm:"size:50;column:phone" json:"phone,omitempty"`
	Tags      *string `gorm:"size:500;column:tags" json:"tags,omitempty"`

	JobCount int       `gorm:"not null;default:0;column:job_count" json:"jobCount"`
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
}

// TableName specifies the table name for GORM.
func (ClientProfile) TableName() string {
	return "client_profiles"
}
