// Package jobsync pushes a dashboard job into the practice-management system.
// Entities are created sequentially in dependency order; each call uses the
// identifier returned by the one before it.
package jobsync

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chinookvaluation/dashboard/api/internal/address"
	"github.com/chinookvaluation/dashboard/api/internal/logger"
	"github.com/chinookvaluation/dashboard/api/internal/mapping"
	"github.com/chinookvaluation/dashboard/api/internal/models"
	"github.com/chinookvaluation/dashboard/api/internal/valcre"
	"github.com/shopspring/decimal"
)

// Fatal step errors. Contact, parcel and assessment failures are collected as
// warnings instead; the job is still created without that enrichment.
var (
	ErrClientStep   = errors.New("client resolution failed")
	ErrPropertyStep = errors.New("property creation failed")
	ErrJobStep      = errors.New("job creation failed")
)

// ValcreAPI is the subset of the practice-management client the orchestrator
// needs. Satisfied by *valcre.Client.
type ValcreAPI interface {
	Authenticate(ctx context.Context) error
	FindContactByEmail(ctx context.Context, email string) (*valcre.Contact, error)
	CreateContact(ctx context.Context, contact valcre.Contact) (*valcre.Contact, error)
	CreateProperty(ctx context.Context, property valcre.Property) (*valcre.Property, error)
	CreateParcel(ctx context.Context, parcel valcre.PropertyParcel) (*valcre.PropertyParcel, error)
	CreateAssessment(ctx context.Context, assessment valcre.PropertyParcelAssessment) (*valcre.PropertyParcelAssessment, error)
	CreateJob(ctx context.Context, job valcre.Job) (*valcre.Job, error)
	UpdateJob(ctx context.Context, jobID int, patch valcre.JobUpdate) error
}

// Warning records a non-fatal step failure surfaced to the operator.
type Warning struct {
	Step string `json:"step"`
	Err  string `json:"error"`
}

// Result is the outcome of a successful sync. Warnings list the optional
// entities that could not be created.
type Result struct {
	JobID     int       `json:"jobId"`
	JobNumber string    `json:"jobNumber"`
	Warnings  []Warning `json:"warnings,omitempty"`
}

// Orchestrator creates the external entity graph for a job.
type Orchestrator struct {
	api ValcreAPI
	log *logger.Logger
}

// New creates an Orchestrator.
func New(api ValcreAPI, log *logger.Logger) *Orchestrator {
	return &Orchestrator{api: api, log: log}
}

// CreateJob pushes one job into the external system and returns the assigned
// job number. loe and info may be nil when those sections were never edited.
func (o *Orchestrator) CreateJob(ctx context.Context, job *models.JobSubmission, loe *models.LOEDetails, info *models.PropertyInfo) (*Result, error) {
	if err := o.api.Authenticate(ctx); err != nil {
		return nil, err
	}

	result := &Result{}

	clientID, err := o.resolveClient(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientStep, err)
	}

	contactID := o.createPropertyContact(ctx, job, result)

	property, err := o.api.CreateProperty(ctx, buildProperty(job, info))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPropertyStep, err)
	}

	o.createParcelAndAssessment(ctx, property.ID, info, result)

	payload := buildJob(job, loe, clientID, contactID, property.ID)
	created, err := o.api.CreateJob(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJobStep, err)
	}

	result.JobID = created.ID
	result.JobNumber = created.JobNumber

	o.log.Info("Job synced to practice-management system", map[string]interface{}{
		"job_id":     job.ID,
		"job_number": created.JobNumber,
		"warnings":   len(result.Warnings),
	})
	return result, nil
}

// UpdateJobFinancials sends the partial-update payload for an already-created
// job. Only fee, retainer, due date and the combined comments block are sent;
// the API rejects the creation-only enumerated fields on this path.
func (o *Orchestrator) UpdateJobFinancials(ctx context.Context, valcreJobID int, loe *models.LOEDetails) error {
	if err := o.api.Authenticate(ctx); err != nil {
		return err
	}

	patch := valcre.JobUpdate{
		FeeAmount:      ParseCurrency(strVal(loe.FeeAmount)),
		RetainerAmount: ParseCurrency(strVal(loe.RetainerAmount)),
		Comments:       combineComments(loe),
	}
	if loe.DeliveryDate != nil {
		patch.DueDate = loe.DeliveryDate.Format("2006-01-02")
	}

	return o.api.UpdateJob(ctx, valcreJobID, patch)
}

// resolveClient finds the client contact by email or creates it. The client
// address is parsed heuristically when no structured address was supplied.
func (o *Orchestrator) resolveClient(ctx context.Context, job *models.JobSubmission) (int, error) {
	existing, err := o.api.FindContactByEmail(ctx, job.ClientEmail)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		o.log.Debug("Reusing existing client contact", map[string]interface{}{
			"contact_id": existing.ID,
			"email":      job.ClientEmail,
		})
		return existing.ID, nil
	}

	contact := valcre.Contact{
		FirstName: job.ClientFirstName,
		LastName:  job.ClientLastName,
		Email:     job.ClientEmail,
		Phone:     job.ClientPhone,
		Title:     strVal(job.ClientTitle),
		Company:   strVal(job.ClientCompany),
	}
	if job.ClientAddress != nil {
		parsed := address.Parse(*job.ClientAddress)
		contact.AddressStreet = parsed.Street
		contact.AddressCity = parsed.City
		contact.AddressState = parsed.Province
		contact.AddressPostalCode = parsed.PostalCode
	}

	created, err := o.api.CreateContact(ctx, contact)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// createPropertyContact creates the secondary contact only when its email is
// present and differs from the client's, and at least one identifying field
// was supplied. It never falls back to the client's identifier: an absent
// property contact stays null on the job so the external UI does not show a
// duplicate-looking contact.
func (o *Orchestrator) createPropertyContact(ctx context.Context, job *models.JobSubmission, result *Result) *int {
	email := strVal(job.PropertyContactEmail)

	if email == "" || strings.EqualFold(email, job.ClientEmail) {
		return nil
	}

	first, last := splitName(strVal(job.PropertyContactName))
	contact, err := o.api.CreateContact(ctx, valcre.Contact{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     strVal(job.PropertyContactPhone),
	})
	if err != nil {
		o.warn(result, "property_contact", err)
		return nil
	}
	return &contact.ID
}

// createParcelAndAssessment creates the optional parcel, and the assessment
// nested under it. Either failure is swallowed into the warnings list.
func (o *Orchestrator) createParcelAndAssessment(ctx context.Context, propertyID int, info *models.PropertyInfo, result *Result) {
	if info == nil {
		return
	}
	if info.ParcelNumber == nil && info.LegalDescription == nil {
		return
	}

	parcel, err := o.api.CreateParcel(ctx, valcre.PropertyParcel{
		PropertyID:       propertyID,
		ParcelNumber:     strVal(info.ParcelNumber),
		LegalDescription: strVal(info.LegalDescription),
	})
	if err != nil {
		o.warn(result, "parcel", err)
		return
	}

	if info.AssessmentYear == nil && info.AssessedLandValue == nil {
		return
	}
	_, err = o.api.CreateAssessment(ctx, valcre.PropertyParcelAssessment{
		ParcelID:         parcel.ID,
		Year:             info.AssessmentYear,
		LandValue:        info.AssessedLandValue,
		ImprovementValue: info.AssessedImprvValue,
		TotalValue:       info.AssessedTotalValue,
		Taxes:            info.AnnualPropertyTaxes,
	})
	if err != nil {
		o.warn(result, "assessment", err)
	}
}

func (o *Orchestrator) warn(result *Result, step string, err error) {
	o.log.Warn("Optional entity creation failed", map[string]interface{}{
		"step":  step,
		"error": err.Error(),
	})
	result.Warnings = append(result.Warnings, Warning{Step: step, Err: err.Error()})
}

// buildProperty maps every optionally-present dashboard field independently;
// absent source fields are omitted from the payload.
func buildProperty(job *models.JobSubmission, info *models.PropertyInfo) valcre.Property {
	parsed := address.Parse(job.PropertyAddress)

	property := valcre.Property{
		Name:              strVal(job.PropertyName),
		PropertyType:      mapping.PropertyType(job.PropertyType),
		AddressStreet:     parsed.Street,
		AddressCity:       parsed.City,
		AddressState:      parsed.Province,
		AddressPostalCode: parsed.PostalCode,
		Condition:         mapping.AssetCondition(strVal(job.AssetCondition)),
	}

	if info != nil {
		property.Quality = mapping.AssetQuality(strVal(info.AssetQuality))
		property.YearBuilt = info.YearBuilt
		property.BuildingSize = info.BuildingSizeSqFt
		property.Zoning = strVal(info.Zoning)
		property.LandAreaAcres = info.LandAreaAcres
		property.LandAreaSqFt = info.LandAreaSqFt
	}

	return property
}

// buildJob assembles the job creation payload. Each enumerated field goes
// through its mapping category and follows that category's fallback rule.
func buildJob(job *models.JobSubmission, loe *models.LOEDetails, clientID int, contactID *int, propertyID int) valcre.Job {
	parsed := address.Parse(job.PropertyAddress)

	payload := valcre.Job{
		Name:              jobName(job, parsed),
		ClientContactID:   clientID,
		PropertyContactID: contactID,
		PropertyID:        propertyID,
	}

	if mapped, ok := mapping.ReportFormat(reportFormat(loe)); ok {
		payload.ReportFormat = mapped
	}
	if mapped, ok := mapping.PropertyRights(strVal(job.PropertyRights)); ok {
		payload.PropertyRightsAppraised = mapped
	}
	if mapped, ok := mapping.RequestedValue(strVal(job.ValuationPremise)); ok {
		payload.RequestedValues = mapped
	}
	if mapped, ok := mapping.IntendedUse(strVal(job.IntendedUse)); ok {
		payload.IntendedUse = mapped
	}
	payload.AnalysisLevel = mapping.AnalysisLevel(strVal(job.AnalysisLevel))

	if loe != nil {
		payload.FeeAmount = ParseCurrency(strVal(loe.FeeAmount))
		payload.RetainerAmount = ParseCurrency(strVal(loe.RetainerAmount))
		if loe.DeliveryDate != nil {
			payload.DueDate = loe.DeliveryDate.Format("2006-01-02")
		}
		payload.Comments = combineComments(loe)
	}

	return payload
}

// jobName formats the computed external job name from the property name and
// parsed address parts, skipping whatever is absent.
func jobName(job *models.JobSubmission, parsed address.Address) string {
	parts := make([]string, 0, 4)
	if name := strVal(job.PropertyName); name != "" {
		parts = append(parts, name)
	}
	if parsed.Street != "" {
		parts = append(parts, parsed.Street)
	}
	if parsed.City != "" {
		parts = append(parts, parsed.City)
	}
	if parsed.Province != "" {
		parts = append(parts, parsed.Province)
	}
	return strings.Join(parts, " - ")
}

func reportFormat(loe *models.LOEDetails) string {
	if loe == nil {
		return ""
	}
	return strVal(loe.ReportType)
}

// combineComments merges the four comment fields into one labeled block for
// the external comments field.
func combineComments(loe *models.LOEDetails) string {
	if loe == nil {
		return ""
	}

	sections := []struct {
		label string
		value *string
	}{
		{"Internal", loe.InternalComments},
		{"Client", loe.ClientComments},
		{"Delivery", loe.DeliveryComments},
		{"Payment", loe.PaymentComments},
	}

	var parts []string
	for _, s := range sections {
		if v := strVal(s.value); v != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", s.label, v))
		}
	}
	return strings.Join(parts, "\n")
}

var currencyRe = regexp.MustCompile(`[$,\s]`)

// ParseCurrency converts a currency-formatted string ("$4,500.00") into a
// number. Returns nil for empty or unparseable input; it never fails.
func ParseCurrency(s string) *float64 {
	cleaned := currencyRe.ReplaceAllString(s, "")
	if cleaned == "" {
		return nil
	}
	dec, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	f, _ := dec.Float64()
	return &f
}

// splitName divides a full name into first and last on the first space.
func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
