package pipeline

// Canned OCR output per document type. These stand in for a real OCR service,
// which this repository deliberately does not integrate.
var ocrSamples = map[DocumentType]string{
	TypeNationalID: `REPUBLIC OF KENYA
NATIONAL IDENTITY CARD

ID NO: 12345678
NAME: JOHN MWANGI DOE
DATE OF BIRTH: 15/03/1985
PLACE OF BIRTH: NAIROBI
SEX: MALE
DISTRICT OF BIRTH: NAIROBI
DIVISION: WESTLANDS
LOCATION: KILIMANI
SUB-LOCATION: KILELESHWA

SIGNATURE: [Signature Present]
DATE OF ISSUE: 20/01/2020
SERIAL NO: A1234567B`,

	TypeBankStatement: `EQUITY BANK LIMITED
STATEMENT OF ACCOUNT

Account Name: JOHN MWANGI DOE
Account Number: 1234567890
Branch: NAIROBI WESTLANDS
Statement Period: 01/01/2024 - 31/01/2024

DATE        DESCRIPTION                    DEBIT      CREDIT     BALANCE
01/01/2024  Opening Balance                              0.00      0.00
05/01/2024  SALARY CREDIT                2,500.00             2,500.00
10/01/2024  ATM WITHDRAWAL                200.00             2,300.00
15/01/2024  MOBILE MONEY DEPOSIT          500.00             2,800.00
20/01/2024  BILL PAYMENT                   150.00             2,650.00
25/01/2024  TRANSFER TO SAVINGS            300.00             2,350.00
31/01/2024  Closing Balance                              0.00  2,350.00`,

	TypePassport: `REPUBLIC OF KENYA
PASSPORT

PASSPORT NO: A1234567
SURNAME: DOE
GIVEN NAMES: JOHN MWANGI
NATIONALITY: KENYAN
DATE OF BIRTH: 15/03/1985
PLACE OF BIRTH: NAIROBI, KENYA
SEX: MALE
DATE OF ISSUE: 20/01/2020
DATE OF EXPIRY: 19/01/2030
AUTHORITY: REPUBLIC OF KENYA`,

	TypeDrivingLicense: `REPUBLIC OF KENYA
DRIVING LICENSE

LICENSE NO: A123456789
NAME: JOHN MWANGI DOE
DATE OF BIRTH: 15/03/1985
ADDRESS: P.O. BOX 12345, NAIROBI
CLASS: B, C1
DATE OF ISSUE: 20/01/2020
DATE OF EXPIRY: 19/01/2026
SIGNATURE: [Signature Present]`,
}

// Canned structured extraction per document type. Field semantics are opaque
// to the core; the key count drives the total-fields figure.
var extractedSamples = map[DocumentType]map[string]any{
	TypeNationalID: {
		"idNumber":     "12345678",
		"fullName":     "JOHN MWANGI DOE",
		"dateOfBirth":  "15/03/1985",
		"placeOfBirth": "NAIROBI",
		"gender":       "MALE",
		"district":     "NAIROBI",
		"division":     "WESTLANDS",
		"location":     "KILIMANI",
		"subLocation":  "KILELESHWA",
		"dateOfIssue":  "20/01/2020",
		"serialNumber": "A1234567B",
	},
	TypeBankStatement: {
		"bankName":        "EQUITY BANK LIMITED",
		"accountName":     "JOHN MWANGI DOE",
		"accountNumber":   "1234567890",
		"branch":          "NAIROBI WESTLANDS",
		"statementPeriod": "01/01/2024 - 31/01/2024",
		"openingBalance":  0.00,
		"closingBalance":  2350.00,
		"totalDebits":     650.00,
		"totalCredits":    3000.00,
	},
	TypePassport: {
		"passportNumber": "A1234567",
		"surname":        "DOE",
		"givenNames":     "JOHN MWANGI",
		"nationality":    "KENYAN",
		"dateOfBirth":    "15/03/1985",
		"placeOfBirth":   "NAIROBI, KENYA",
		"gender":         "MALE",
		"dateOfIssue":    "20/01/2020",
		"dateOfExpiry":   "19/01/2030",
	},
	TypeDrivingLicense: {
		"licenseNumber": "A123456789",
		"fullName":      "JOHN MWANGI DOE",
		"dateOfBirth":   "15/03/1985",
		"address":       "P.O. BOX 12345, NAIROBI",
		"classes":       "B, C1",
		"dateOfIssue":   "20/01/2020",
		"dateOfExpiry":  "19/01/2026",
	},
}

// OCRSample returns the canned OCR text for a document type.
func OCRSample(t DocumentType) string {
	return ocrSamples[t]
}

// ExtractedSample returns a copy of the canned structured data for a type.
func ExtractedSample(t DocumentType) map[string]any {
	src := extractedSamples[t]
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// SampleFieldCount is the number of keys in the canned extraction for a type.
func SampleFieldCount(t DocumentType) int {
	return len(extractedSamples[t])
}
