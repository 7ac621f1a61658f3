// README: Local-only booking form: traveller stepper, required fields, confirmation.
package booking

import (
	"errors"
	"fmt"
)

const (
	MinTravellers = 1
	MaxTravellers = 10
)

type Field string

const (
	FieldFullName       Field = "fullName"
	FieldGender         Field = "gender"
	FieldDateOfBirth    Field = "dateOfBirth"
	FieldVerificationID Field = "verificationId"
)

// Fields lists the required traveller fields in form order.
var Fields = []Field{FieldFullName, FieldGender, FieldDateOfBirth, FieldVerificationID}

// Genders are the choices offered by the form.
var Genders = []string{"male", "female", "other"}

var (
	ErrUnknownField = errors.New("unknown traveller field")
	ErrNoTraveller  = errors.New("traveller index out of range")
	ErrSubmitted    = errors.New("booking already confirmed")
)

const (
	msgFullName       = "Full Name is required."
	msgGender         = "Please select a gender."
	msgDateOfBirth    = "Date of Birth is required."
	msgDateInvalid    = "Date of Birth must be a valid date."
	msgDateFuture     = "Date of Birth cannot be in the future."
	msgVerificationID = "Verification ID is required."
)

// ErrorKey identifies a field error, e.g. "0-fullName".
func ErrorKey(index int, f Field) string {
	return fmt.Sprintf("%d-%s", index, f)
}

func (f Field) Valid() bool {
	for _, v := range Fields {
		if v == f {
			return true
		}
	}
	return false
}
