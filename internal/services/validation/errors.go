package validation

// ErrorCode is a field-level validation error code.
type ErrorCode string

const (
	InvalidName   ErrorCode = "INVALID_NAME"
	InvalidNumber ErrorCode = "INVALID_NUMBER"
	InvalidExpiry ErrorCode = "INVALID_EXPIRY"
	InvalidCVV    ErrorCode = "INVALID_CVV"
	InvalidPostal ErrorCode = "INVALID_POSTAL"
)

var fieldErrorCodes = map[string]ErrorCode{
	"name":       InvalidName,
	"number":     InvalidNumber,
	"expiry":     InvalidExpiry,
	"cvv":        InvalidCVV,
	"postalCode": InvalidPostal,
}
