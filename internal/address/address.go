// Package address decomposes free-text Canadian addresses into structured
// parts. The parser is deliberately heuristic: it always returns a complete
// result and never fails, at the cost of accuracy for addresses outside the
// "street, city, province postal" shape.
package address

import (
	"regexp"
	"strings"
)

// Defaults applied when parsing cannot determine a city or province.
const (
	DefaultCity     = "Calgary"
	DefaultProvince = "AB"
)

var (
	// Two-letter Canadian province and territory codes, matched as whole words.
	provinceRe = regexp.MustCompile(`\b(AB|BC|MB|NB|NL|NS|NT|NU|ON|PE|QC|SK|YT)\b`)

	// Canadian postal code, A#A #A# with optional space.
	postalRe = regexp.MustCompile(`[A-Za-z]\d[A-Za-z]\s?\d[A-Za-z]\d`)
)

// Address is the structured result of parsing a free-text address.
type Address struct {
	Street     string
	City       string
	Province   string
	PostalCode string
}

// Parse splits a free-text address into street, city, province and postal
// code. Expected input shape is "street, city, PROV POSTAL"; two-part
// addresses with the city folded into the last segment are also handled.
// When parsing fails entirely the full input becomes the street and the
// default city/province are used.
func Parse(raw string) Address {
	result := Address{
		Street:   strings.TrimSpace(raw),
		City:     DefaultCity,
		Province: DefaultProvince,
	}
	if result.Street == "" {
		return result
	}

	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return result
	}

	result.Street = parts[0]
	last := parts[len(parts)-1]

	if postal := postalRe.FindString(last); postal != "" {
		result.PostalCode = strings.ToUpper(postal)
	}

	provLoc := provinceRe.FindStringIndex(last)
	if provLoc == nil {
		// No province token: assume the second part is the city verbatim.
		result.City = parts[1]
		return result
	}
	result.Province = last[provLoc[0]:provLoc[1]]

	if len(parts) == 3 {
		result.City = parts[1]
		return result
	}

	// City folded into the last segment: take the text preceding the
	// province token, with any postal code stripped out.
	city := strings.TrimSpace(last[:provLoc[0]])
	city = strings.TrimSpace(postalRe.ReplaceAllString(city, ""))
	city = strings.TrimRight(city, ", ")
	if city != "" {
		result.City = city
	} else if len(parts) > 3 {
		result.City = parts[len(parts)-2]
	}

	return result
}
