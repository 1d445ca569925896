// Package validator checks `validate` struct tags and reports failures as a
// snake_case field to message map, the shape the router puts under "error".
package validator

// Validator validates usecase input structs.
type Validator interface {
	Validate(data any) error
}
