package handlers

import (
	"errors"
	"net/http"
	"time"

	apierrors "github.com/chinookvaluation/dashboard/api/internal/errors"
	"github.com/chinookvaluation/dashboard/api/internal/jobsync"
	"github.com/chinookvaluation/dashboard/api/internal/models"
	"github.com/chinookvaluation/dashboard/api/internal/services"
	"github.com/chinookvaluation/dashboard/api/internal/valcre"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Listing pagination bounds
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// JobHandler handles job workflow HTTP requests.
type JobHandler struct {
	service services.JobService
}

// NewJobHandler creates a new JobHandler instance.
func NewJobHandler(service services.JobService) *JobHandler {
	return &JobHandler{
		service: service,
	}
}

// IntakeRequest is the intake form payload. Required fields mirror the
// persisted schema: client identity, phone, property address and type.
type IntakeRequest struct {
	ClientFirstName string  `json:"clientFirstName" binding:"required,max=100"`
	ClientLastName  string  `json:"clientLastName" binding:"required,max=100"`
	ClientEmail     string  `json:"clientEmail" binding:"required,email"`
	ClientPhone     string  `json:"clientPhone" binding:"required,max=50"`
	ClientTitle     *string `json:"clientTitle,omitempty"`
	ClientCompany   *string `json:"clientCompany,omitempty"`
	ClientAddress   *string `json:"clientAddress,omitempty"`

	PropertyName     *string `json:"propertyName,omitempty"`
	PropertyAddress  string  `json:"propertyAddress" binding:"required,max=500"`
	PropertyType     string  `json:"propertyType" binding:"required,max=100"`
	IntendedUse      *string `json:"intendedUse,omitempty"`
	AssetCondition   *string `json:"assetCondition,omitempty"`
	ValuationPremise *string `json:"valuationPremise,omitempty"`
	PropertyRights   *string `json:"propertyRights,omitempty"`
	AnalysisLevel    *string `json:"analysisLevel,omitempty"`

	PropertyContactName  *string `json:"propertyContactName,omitempty"`
	PropertyContactEmail *string `json:"propertyContactEmail,omitempty"`
	PropertyContactPhone *string `json:"propertyContactPhone,omitempty"`

	Files []IntakeFile `json:"files,omitempty"`
}

// IntakeFile is uploaded-file metadata attached to an intake submission.
type IntakeFile struct {
	FileName    string `json:"fileName" binding:"required,max=255"`
	StoragePath string `json:"storagePath" binding:"required,max=500"`
	ContentType string `json:"contentType,omitempty"`
	SizeBytes   int64  `json:"sizeBytes,omitempty"`
}

// LOERequest is the LOE-section autosave payload.
type LOERequest struct {
	ReportType       *string    `json:"reportType,omitempty"`
	PaymentTerms     *string    `json:"paymentTerms,omitempty"`
	ScopeOfWork      *string    `json:"scopeOfWork,omitempty"`
	FeeAmount        *string    `json:"feeAmount,omitempty"`
	RetainerAmount   *string    `json:"retainerAmount,omitempty"`
	DeliveryDate     *time.Time `json:"deliveryDate,omitempty"`
	InternalComments *string    `json:"internalComments,omitempty"`
	ClientComments   *string    `json:"clientComments,omitempty"`
	DeliveryComments *string    `json:"deliveryComments,omitempty"`
	PaymentComments  *string    `json:"paymentComments,omitempty"`
}

// PropertyInfoRequest is the property-info-section autosave payload.
type PropertyInfoRequest struct {
	YearBuilt        *int     `json:"yearBuilt,omitempty"`
	BuildingSizeSqFt *float64 `json:"buildingSizeSqft,omitempty"`
	Zoning           *string  `json:"zoning,omitempty"`
	AssetQuality     *string  `json:"assetQuality,omitempty"`

	ParcelNumber     *string  `json:"parcelNumber,omitempty"`
	LegalDescription *string  `json:"legalDescription,omitempty"`
	LandAreaAcres    *float64 `json:"landAreaAcres,omitempty"`
	LandAreaSqFt     *float64 `json:"landAreaSqft,omitempty"`

	AssessmentYear      *int     `json:"assessmentYear,omitempty"`
	AssessedLandValue   *float64 `json:"assessedLandValue,omitempty"`
	AssessedImprvValue  *float64 `json:"assessedImprvValue,omitempty"`
	AssessedTotalValue  *float64 `json:"assessedTotalValue,omitempty"`
	AnnualPropertyTaxes *float64 `json:"annualPropertyTaxes,omitempty"`
}

// StatusRequest is the status-change payload.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListRequest represents the query parameters for the job listing.
type ListRequest struct {
	Limit  int `form:"limit,default=50" binding:"min=1,max=200"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListResponse is the job listing envelope.
type ListResponse struct {
	Jobs  []models.JobSubmission `json:"jobs"`
	Count int                    `json:"count"`
}

// Submit handles POST /api/v1/jobs.
func (h *JobHandler) Submit(c *gin.Context) {
	var req IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	job := &models.JobSubmission{
		ClientFirstName:      req.ClientFirstName,
		ClientLastName:       req.ClientLastName,
		ClientEmail:          req.ClientEmail,
		ClientPhone:          req.ClientPhone,
		ClientTitle:          req.ClientTitle,
		ClientCompany:        req.ClientCompany,
		ClientAddress:        req.ClientAddress,
		PropertyName:         req.PropertyName,
		PropertyAddress:      req.PropertyAddress,
		PropertyType:         req.PropertyType,
		IntendedUse:          req.IntendedUse,
		AssetCondition:       req.AssetCondition,
		ValuationPremise:     req.ValuationPremise,
		PropertyRights:       req.PropertyRights,
		AnalysisLevel:        req.AnalysisLevel,
		PropertyContactName:  req.PropertyContactName,
		PropertyContactEmail: req.PropertyContactEmail,
		PropertyContactPhone: req.PropertyContactPhone,
	}

	files := make([]models.JobFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, models.JobFile{
			FileName:    f.FileName,
			StoragePath: f.StoragePath,
			ContentType: f.ContentType,
			SizeBytes:   f.SizeBytes,
		})
	}

	if err := h.service.SubmitIntake(c.Request.Context(), job, files); err != nil {
		apierrors.InternalServerError(c, "Failed to save job submission", err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// List handles GET /api/v1/jobs.
func (h *JobHandler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	jobs, err := h.service.ListJobs(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list jobs", err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Jobs: jobs, Count: len(jobs)})
}

// Get handles GET /api/v1/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			apierrors.NotFound(c, "Job not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to load job", err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Update handles PATCH /api/v1/jobs/:id (dashboard autosave of intake fields).
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}

	var req IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	job := &models.JobSubmission{
		ID:                   id,
		ClientFirstName:      req.ClientFirstName,
		ClientLastName:       req.ClientLastName,
		ClientEmail:          req.ClientEmail,
		ClientPhone:          req.ClientPhone,
		ClientTitle:          req.ClientTitle,
		ClientCompany:        req.ClientCompany,
		ClientAddress:        req.ClientAddress,
		PropertyName:         req.PropertyName,
		PropertyAddress:      req.PropertyAddress,
		PropertyType:         req.PropertyType,
		IntendedUse:          req.IntendedUse,
		AssetCondition:       req.AssetCondition,
		ValuationPremise:     req.ValuationPremise,
		PropertyRights:       req.PropertyRights,
		AnalysisLevel:        req.AnalysisLevel,
		PropertyContactName:  req.PropertyContactName,
		PropertyContactEmail: req.PropertyContactEmail,
		PropertyContactPhone: req.PropertyContactPhone,
	}

	if err := h.service.UpdateJob(c.Request.Context(), job); err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			apierrors.NotFound(c, "Job not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to update job", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// Delete handles DELETE /api/v1/jobs/:id.
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteJob(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			apierrors.NotFound(c, "Job not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to delete job", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpsertLOE handles PUT /api/v1/jobs/:id/loe.
func (h *JobHandler) UpsertLOE(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}

	var req LOERequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	loe := &models.LOEDetails{
		JobID:            id,
		ReportType:       req.ReportType,
		PaymentTerms:     req.PaymentTerms,
		ScopeOfWork:      req.ScopeOfWork,
		FeeAmount:        req.FeeAmount,
		RetainerAmount:   req.RetainerAmount,
		DeliveryDate:     req.DeliveryDate,
		InternalComments: req.InternalComments,
		ClientComments:   req.ClientComments,
		DeliveryComments: req.DeliveryComments,
		PaymentComments:  req.PaymentComments,
	}

	if err := h.service.UpsertLOE(c.Request.Context(), loe); err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			apierrors.NotFound(c, "Job not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to save LOE details", err)
		return
	}

	c.JSON(http.StatusOK, loe)
}

// UpsertPropertyInfo handles PUT /api/v1/jobs/:id/property-info.
func (h *JobHandler) UpsertPropertyInfo(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}

	var req PropertyInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	info := &models.PropertyInfo{
		JobID:               id,
		YearBuilt:           req.YearBuilt,
		BuildingSizeSqFt:    req.BuildingSizeSqFt,
		Zoning:              req.Zoning,
		AssetQuality:        req.AssetQuality,
		ParcelNumber:        req.ParcelNumber,
		LegalDescription:    req.LegalDescription,
		LandAreaAcres:       req.LandAreaAcres,
		LandAreaSqFt:        req.LandAreaSqFt,
		AssessmentYear:      req.AssessmentYear,
		AssessedLandValue:   req.AssessedLandValue,
		AssessedImprvValue:  req.AssessedImprvValue,
		AssessedTotalValue:  req.AssessedTotalValue,
		AnnualPropertyTaxes: req.AnnualPropertyTaxes,
	}

	if err := h.service.UpsertPropertyInfo(c.Request.Context(), info); err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			apierrors.NotFound(c, "Job not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to save property info", err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// Sync handles POST /api/v1/jobs/:id/sync.
func (h *JobHandler) Sync(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}

	result, err := h.service.SyncToValcre(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrJobNotFound):
			apierrors.NotFound(c, "Job not found")
		case errors.Is(err, services.ErrAlreadySynced):
			apierrors.Conflict(c, "Job already has an external job number")
		case errors.Is(err, valcre.ErrAuthentication):
			apierrors.UpstreamError(c, "External system authentication failed", err)
		case errors.Is(err, jobsync.ErrClientStep),
			errors.Is(err, jobsync.ErrPropertyStep),
			errors.Is(err, jobsync.ErrJobStep):
			apierrors.UpstreamError(c, "External job creation failed", err)
		default:
			apierrors.InternalServerError(c, "Failed to sync job", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// SendLOE handles POST /api/v1/jobs/:id/send-loe.
func (h *JobHandler) SendLOE(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}

	result, err := h.service.SendLOE(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			apierrors.NotFound(c, "Job not found")
			return
		}
		apierrors.UpstreamError(c, "Failed to submit letter of engagement for signature", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateStatus handles POST /api/v1/jobs/:id/status.
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.jobID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	next := models.Status(req.Status)
	if !next.Valid() {
		apierrors.BadRequest(c, "Unknown status value", map[string]interface{}{
			"status": req.Status,
		})
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, next); err != nil {
		switch {
		case errors.Is(err, services.ErrJobNotFound):
			apierrors.NotFound(c, "Job not found")
		case errors.Is(err, models.ErrInvalidTransition):
			apierrors.Conflict(c, "Status change is not allowed from the job's current state")
		default:
			apierrors.InternalServerError(c, "Failed to update status", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": next})
}

// ClientProfile handles GET /api/v1/clients/:email/profile.
func (h *JobHandler) ClientProfile(c *gin.Context) {
	email := c.Param("email")

	profile, err := h.service.GetClientProfile(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			apierrors.NotFound(c, "No profile for this client email")
			return
		}
		apierrors.InternalServerError(c, "Failed to load client profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// jobID parses the :id path parameter, writing a 400 response on failure.
func (h *JobHandler) jobID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid job id", map[string]interface{}{
			"id": c.Param("id"),
		})
		return uuid.Nil, false
	}
	return id, true
}
