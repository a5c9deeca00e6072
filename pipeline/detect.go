package pipeline

import "strings"

// DocumentType identifies one of the supported document categories.
type DocumentType string

const (
	TypeNationalID     DocumentType = "national-id"
	TypeBankStatement  DocumentType = "bank-statement"
	TypePassport       DocumentType = "passport"
	TypeDrivingLicense DocumentType = "driving-license"
)

// Label returns the human-readable name shown on results.
func (t DocumentType) Label() string {
	switch t {
	case TypeBankStatement:
		return "Bank Statement"
	case TypePassport:
		return "Passport"
	case TypeDrivingLicense:
		return "Driving License"
	default:
		return "National ID"
	}
}

// DetectDocumentType infers the category from the declared filename using
// case-insensitive substring matching. Keyword groups are checked in priority
// order and the first hit wins; anything unrecognized falls back to a
// national ID.
func DetectDocumentType(filename string) DocumentType {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "id") || strings.Contains(name, "national"):
		return TypeNationalID
	case strings.Contains(name, "bank") || strings.Contains(name, "statement"):
		return TypeBankStatement
	case strings.Contains(name, "passport"):
		return TypePassport
	case strings.Contains(name, "driving") || strings.Contains(name, "license"):
		return TypeDrivingLicense
	}
	return TypeNationalID
}
