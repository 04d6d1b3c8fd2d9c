package validator

// Validator validates tagged structs.
type Validator interface {
	// Validate returns nil when data passes all struct-tag rules, or an error
	// describing the failing fields.
	Validate(data any) error
}
