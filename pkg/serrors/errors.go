package serrors

import "fmt"

// Base is a coded error suitable for rendering as an API payload.
type Base struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *Base) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message, field string) *Base {
	return &Base{Code: code, Message: message, Field: field}
}

// WithField returns a copy of the error bound to a specific field.
func (e *Base) WithField(field string) *Base {
	return &Base{Code: e.Code, Message: e.Message, Field: field}
}
