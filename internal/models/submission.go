package models

import "time"

// Submission results
const (
	SubmissionSuccess = "success"
	SubmissionOnError = "on_error"
	SubmissionError   = "error"
)

// Submission is the audit record of one card fields submit. The card is kept
// only as a keyed fingerprint and its last four digits.
type Submission struct {
	ID              uint   `gorm:"primarykey"`
	SessionID       string `gorm:"index;not null"`
	MerchantID      string `gorm:"index"`
	Path            string `gorm:"not null"`
	Result          string `gorm:"not null"`
	OrderID         string
	VaultSetupToken string
	CardBrand       string
	CardLastFour    string `gorm:"size:4"`
	Fingerprint     string `gorm:"index;size:64"`
	ErrorCode       string
	ErrorMessage    string
	Metadata        JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time
}
