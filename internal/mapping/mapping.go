// Package mapping translates dashboard dropdown values into the enumerated
// values expected by downstream systems. Lookups are case-sensitive exact
// matches with no normalization.
//
// Fallback behavior for unrecognized values differs by category and mirrors
// what the external systems tolerate:
//   - omit categories return ok=false and the destination field is skipped
//   - pass-through categories return the input unchanged
//   - ordinal categories substitute a numeric default code
//
// Empty input always means "absent": the destination field is omitted.
package mapping

// AssetConditionDefault is the ordinal code substituted when a non-empty
// condition or quality value has no table entry ("Average").
const AssetConditionDefault = "3"

// reportFormats maps dashboard report formats to practice-management values.
// Unknown values are omitted.
var reportFormats = map[string]string{
	"Narrative":       "Appraisal Report - Narrative",
	"Short Narrative": "Appraisal Report - Short Narrative",
	"Form":            "Appraisal Report - Form",
	"Restricted":      "Restricted Appraisal Report",
}

// propertyRights maps the legal interest being valued. Unknown values are omitted.
var propertyRights = map[string]string{
	"Fee Simple":       "Fee Simple Estate",
	"Leased Fee":       "Leased Fee Interest",
	"Leasehold":        "Leasehold Interest",
	"Partial Interest": "Partial Interest",
}

// requestedValues maps the valuation premise. Unknown values are omitted.
var requestedValues = map[string]string{
	"As Is Market Value": "Market Value 'As Is'",
	"As Complete":        "Prospective Market Value Upon Completion",
	"As Stabilized":      "Prospective Market Value Upon Stabilization",
	"Liquidation Value":  "Liquidation Value",
	"Market Rent":        "Market Rent",
}

// intendedUses maps the stated purpose of the appraisal. Unknown values are omitted.
var intendedUses = map[string]string{
	"Financing":                "Mortgage Financing",
	"Purchase/Sale":            "Acquisition/Disposition",
	"Litigation":               "Litigation Support",
	"Estate Planning":          "Estate/Tax Planning",
	"Internal Decision Making": "Internal Business Decisions",
	"Insurance":                "Insurance Placement",
}

// analysisLevels maps the depth of analysis. Unknown values pass through unchanged.
var analysisLevels = map[string]string{
	"Complete": "Complete Analysis",
	"Limited":  "Limited Analysis",
}

// assetConditions is the ordinal condition scale. Unknown non-empty values
// default to AssetConditionDefault.
var assetConditions = map[string]string{
	"Excellent": "1",
	"Good":      "2",
	"Average":   "3",
	"Fair":      "4",
	"Poor":      "5",
}

// propertyTypes maps dashboard property types for downstream consumers.
// Unknown values pass through unchanged.
var propertyTypes = map[string]string{
	"Office":       "Office",
	"Retail":       "Retail",
	"Industrial":   "Industrial",
	"Multi-Family": "Multifamily",
	"Land":         "Vacant Land",
	"Mixed Use":    "Mixed-Use",
	"Agricultural": "Agricultural",
	"Hospitality":  "Hospitality",
}

// paymentTerms maps LOE payment terms. Unknown values pass through unchanged.
var paymentTerms = map[string]string{
	"On Delivery":     "Due on Delivery",
	"Net 30":          "Net 30 Days",
	"50% Retainer":    "50% Retainer, Balance on Delivery",
	"Full Prepayment": "Payment in Advance",
}

// scopesOfWork maps inspection scope. Unknown values pass through unchanged.
var scopesOfWork = map[string]string{
	"Full Inspection": "Interior and Exterior Inspection",
	"Exterior Only":   "Exterior Inspection Only",
	"Desktop":         "No Inspection (Desktop)",
}

// ReportFormat returns the external report-format value. ok is false when the
// input is empty or has no mapping; the caller omits the field.
func ReportFormat(v string) (string, bool) {
	return lookupOmit(reportFormats, v)
}

// PropertyRights returns the external property-rights-appraised value.
// ok is false when the input is empty or has no mapping.
func PropertyRights(v string) (string, bool) {
	return lookupOmit(propertyRights, v)
}

// RequestedValue returns the external requested-value (valuation premise).
// ok is false when the input is empty or has no mapping.
func RequestedValue(v string) (string, bool) {
	return lookupOmit(requestedValues, v)
}

// IntendedUse returns the external intended-use value. ok is false when the
// input is empty or has no mapping.
func IntendedUse(v string) (string, bool) {
	return lookupOmit(intendedUses, v)
}

// AnalysisLevel returns the external analysis-level value. Unrecognized
// non-empty input is returned unchanged; empty input stays empty.
func AnalysisLevel(v string) string {
	return lookupPassThrough(analysisLevels, v)
}

// AssetCondition returns the string-encoded ordinal condition code.
// Unrecognized non-empty input returns AssetConditionDefault; empty input
// returns "" and the field is omitted.
func AssetCondition(v string) string {
	return lookupOrdinal(assetConditions, v)
}

// AssetQuality returns the string-encoded ordinal quality code. The scale and
// default are shared with AssetCondition.
func AssetQuality(v string) string {
	return lookupOrdinal(assetConditions, v)
}

// PropertyType returns the downstream property-type label. Unrecognized
// non-empty input is returned unchanged.
func PropertyType(v string) string {
	return lookupPassThrough(propertyTypes, v)
}

// PaymentTerms returns the downstream payment-terms label. Unrecognized
// non-empty input is returned unchanged.
func PaymentTerms(v string) string {
	return lookupPassThrough(paymentTerms, v)
}

// ScopeOfWork returns the downstream scope-of-work label. Unrecognized
// non-empty input is returned unchanged.
func ScopeOfWork(v string) string {
	return lookupPassThrough(scopesOfWork, v)
}

func lookupOmit(table map[string]string, v string) (string, bool) {
	if v == "" {
		return "", false
	}
	mapped, ok := table[v]
	return mapped, ok
}

func lookupPassThrough(table map[string]string, v string) string {
	if v == "" {
		return ""
	}
	if mapped, ok := table[v]; ok {
		return mapped
	}
	return v
}

func lookupOrdinal(table map[string]string, v string) string {
	if v == "" {
		return ""
	}
	if mapped, ok := table[v]; ok {
		return mapped
	}
	return AssetConditionDefault
}
