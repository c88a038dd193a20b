// Package validation derives field-level error codes from the aggregated
// card field state.
package validation

import "cardfields/internal/services/fieldstate"

// GetFieldErrors returns one code per field present in the state whose
// IsValid is false. Absent fields produce no code. Callers must treat the
// result as a set; the order carries no priority.
func GetFieldErrors(state fieldstate.CardFieldsState) []ErrorCode {
	errs := []ErrorCode{}

	for _, key := range fieldstate.FieldOrder {
		fs, ok := state.Fields[key]
		if !ok || fs.IsValid {
			continue
		}
		if code, ok := fieldErrorCodes[key]; ok {
			errs = append(errs, code)
		}
	}
	return errs
}
