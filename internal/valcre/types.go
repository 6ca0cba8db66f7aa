package valcre

// Contact is a client or property-contact entity in the practice-management
// system. Optional fields are omitted from the creation payload when empty.
type Contact struct {
	ID                int    `json:"Id,omitempty"`
	FirstName         string `json:"FirstName,omitempty"`
	LastName          string `json:"LastName,omitempty"`
	Email             string `json:"Email,omitempty"`
	Phone             string `json:"Phone,omitempty"`
	Title             string `json:"Title,omitempty"`
	Company           string `json:"Company,omitempty"`
	AddressStreet     string `json:"AddressStreet,omitempty"`
	AddressCity       string `json:"AddressCity,omitempty"`
	AddressState      string `json:"AddressState,omitempty"`
	AddressPostalCode string `json:"AddressPostalCode,omitempty"`
}

// Property is a property entity. Condition and Quality are string-encoded
// ordinal codes ("1".."5").
type Property struct {
	ID                int      `json:"Id,omitempty"`
	Name              string   `json:"Name,omitempty"`
	PropertyType      string   `json:"PropertyType,omitempty"`
	AddressStreet     string   `json:"AddressStreet,omitempty"`
	AddressCity       string   `json:"AddressCity,omitempty"`
	AddressState      string   `json:"AddressState,omitempty"`
	AddressPostalCode string   `json:"AddressPostalCode,omitempty"`
	Condition         string   `json:"Condition,omitempty"`
	Quality           string   `json:"Quality,omitempty"`
	YearBuilt         *int     `json:"YearBuilt,omitempty"`
	BuildingSize      *float64 `json:"BuildingSize,omitempty"`
	Zoning            string   `json:"Zoning,omitempty"`
	LandAreaAcres     *float64 `json:"LandAreaAcres,omitempty"`
	LandAreaSqFt      *float64 `json:"LandAreaSqFt,omitempty"`
}

// PropertyParcel is a legal parcel attached to a property.
type PropertyParcel struct {
	ID               int    `json:"Id,omitempty"`
	PropertyID       int    `json:"PropertyId"`
	ParcelNumber     string `json:"ParcelNumber,omitempty"`
	LegalDescription string `json:"LegalDescription,omitempty"`
}

// PropertyParcelAssessment is an assessment record nested under a parcel.
type PropertyParcelAssessment struct {
	ID               int      `json:"Id,omitempty"`
	ParcelID         int      `json:"PropertyParcelId"`
	Year             *int     `json:"Year,omitempty"`
	LandValue        *float64 `json:"LandValue,omitempty"`
	ImprovementValue *float64 `json:"ImprovementValue,omitempty"`
	TotalValue       *float64 `json:"TotalValue,omitempty"`
	Taxes            *float64 `json:"Taxes,omitempty"`
}

// Job is a job entity referencing the previously created Client, Property and
// optional PropertyContact. The enumerated fields carry mapped external
// values and are omitted when the mapping produced nothing.
type Job struct {
	ID                      int      `json:"Id,omitempty"`
	JobNumber               string   `json:"JobNumber,omitempty"`
	Name                    string   `json:"Name,omitempty"`
	ClientContactID         int      `json:"ClientContactId"`
	PropertyContactID       *int     `json:"PropertyContactId,omitempty"`
	PropertyID              int      `json:"PropertyId"`
	FeeAmount               *float64 `json:"FeeAmount,omitempty"`
	RetainerAmount          *float64 `json:"RetainerAmount,omitempty"`
	DueDate                 string   `json:"DueDate,omitempty"` // date-only, YYYY-MM-DD
	ReportFormat            string   `json:"ReportFormat,omitempty"`
	PropertyRightsAppraised string   `json:"PropertyRightsAppraised,omitempty"`
	RequestedValues         string   `json:"RequestedValues,omitempty"`
	IntendedUse             string   `json:"IntendedUse,omitempty"`
	AnalysisLevel           string   `json:"AnalysisLevel,omitempty"`
	Comments                string   `json:"Comments,omitempty"`
}

// JobUpdate is the partial-update payload for an existing job. The API
// rejects several fields that are valid on creation (report format, property
// rights, requested values, intended use, analysis level), so this type
// deliberately cannot carry them.
type JobUpdate struct {
	FeeAmount      *float64 `json:"FeeAmount,omitempty"`
	RetainerAmount *float64 `json:"RetainerAmount,omitempty"`
	DueDate        string   `json:"DueDate,omitempty"`
	Comments       string   `json:"Comments,omitempty"`
}

// apiStatus is the error envelope some endpoints return with an HTTP 200
// status. Success is a pointer so its absence can be told apart from false.
type apiStatus struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// failed reports whether the body indicates a failure despite the HTTP status.
func (s apiStatus) failed() bool {
	return s.Success != nil && !*s.Success
}

// reason returns the most specific error text available in the envelope.
func (s apiStatus) reason() string {
	if s.Error != "" {
		return s.Error
	}
	return s.Message
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type contactSearchResponse struct {
	apiStatus
	Contacts []Contact `json:"contacts"`
}

type contactResponse struct {
	apiStatus
	Contact
}

type propertyResponse struct {
	apiStatus
	Property
}

type parcelResponse struct {
	apiStatus
	PropertyParcel
}

type assessmentResponse struct {
	apiStatus
	PropertyParcelAssessment
}

type jobResponse struct {
	apiStatus
	Job
}
