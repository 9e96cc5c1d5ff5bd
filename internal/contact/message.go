package contact

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Message is the name/email/message triple collected by the contact form.
type Message struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// IsEmpty reports whether every field of the draft is blank.
func (m Message) IsEmpty() bool {
	return m == Message{}
}

// Field names one of the three editable inputs of the form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldName, FieldEmail, FieldMessage}

// ParseField maps a form input name onto a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.TrimSpace(s)); f {
	case FieldName, FieldEmail, FieldMessage:
		return f, nil
	default:
		return "", fmt.Errorf("unknown contact field %q", s)
	}
}

var validate = validator.New()

// Validate performs the checks a browser applies to the form before it lets
// a submission through: all three fields present and a plausible email.
// The Flow never calls it; callers gate Submit on it.
func Validate(m Message) error {
	return validate.Struct(m)
}
