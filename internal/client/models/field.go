package models

import (
	"errors"
	"fmt"
	"strings"
)

// Field is a server-recognized searchable field name.
type Field string

const (
	FieldCustomerID     Field = "customer_id"
	FieldName           Field = "name"
	FieldPAN            Field = "pan"
	FieldAadhaar        Field = "aadhaar"
	FieldComplianceFlag Field = "compliance_flag"
)

// SearchableFields is the ordered list of fields the server indexes.
var SearchableFields = []Field{
	FieldCustomerID,
	FieldName,
	FieldPAN,
	FieldAadhaar,
	FieldComplianceFlag,
}

var ErrInvalidField = errors.New("unknown search field")

// ParseField maps user input onto a known Field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
	}
	return f, nil
}

// Valid reports whether f is one of SearchableFields.
func (f Field) Valid() bool {
	for _, known := range SearchableFields {
		if f == known {
			return true
		}
	}
	return false
}
