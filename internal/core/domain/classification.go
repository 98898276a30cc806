package domain

type DocumentType string

const (
	TypePassport      DocumentType = "PASSPORT"
	TypeEmiratesID    DocumentType = "EMIRATES_ID"
	TypeVisa          DocumentType = "VISA"
	TypeBankStatement DocumentType = "BANK_STATEMENT"
	TypeInvoice       DocumentType = "INVOICE"
	TypeTradeLicense  DocumentType = "TRADE_LICENSE"
	TypeLaborCard     DocumentType = "LABOR_CARD"
	TypeContract      DocumentType = "CONTRACT"
	TypeMOA           DocumentType = "MOA"
	TypeUnknown       DocumentType = "UNKNOWN"
)

// KnownDocumentTypes returns the closed category set, UNKNOWN excluded.
func KnownDocumentTypes() []DocumentType {
	return []DocumentType{
		TypePassport,
		TypeEmiratesID,
		TypeVisa,
		TypeBankStatement,
		TypeInvoice,
		TypeTradeLicense,
		TypeLaborCard,
		TypeContract,
		TypeMOA,
	}
}

type TypeScore struct {
	Type       DocumentType `json:"type"`
	Confidence float64      `json:"confidence"`
}

type ClassificationMetadata struct {
	Language string `json:"language"`
	HasPhoto bool   `json:"has_photo"`
}

// ClassificationResult carries a detected document category with a
// confidence on a 0-100 scale, plus close runner-up categories when
// the decision was not clear-cut.
type ClassificationResult struct {
	DocumentType     DocumentType            `json:"document_type"`
	Confidence       float64                 `json:"confidence"`
	AlternativeTypes []TypeScore             `json:"alternative_types,omitempty"`
	Metadata         *ClassificationMetadata `json:"metadata,omitempty"`
}

// AIClassification is the raw, un-normalized answer of the external
// generative classifier before category normalization and clamping.
type AIClassification struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
}
