package tvmaze

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ShowRecord is one entry of GET /shows?page=N. Only the fields the
// ingester keeps are decoded.
type ShowRecord struct {
	ID   int    `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required"`
}

// PersonRecord matches the person object nested in a cast entry.
type PersonRecord struct {
	ID       int     `json:"id" validate:"required,gt=0"`
	Name     string  `json:"name" validate:"required"`
	Birthday *string `json:"birthday"`
}

// CastRecord is one entry of GET /shows/{id}/cast.
type CastRecord struct {
	Person *PersonRecord `json:"person" validate:"required"`
}

// SchemaError reports an upstream record that does not match the expected
// shape.
type SchemaError struct {
	Index int
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func validateRecords[T any](records []T) error {
	for i := range records {
		if err := validate.Struct(&records[i]); err != nil {
			return &SchemaError{Index: i, Err: err}
		}
	}
	return nil
}
