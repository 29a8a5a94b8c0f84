package model

import "time"

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactMessage is a stored contact submission row.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// FieldError describes one failed field, shaped like the error entries the
// portfolio frontend already renders.
type FieldError struct {
	Code    string   `json:"code"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Validate returns one FieldError per empty field, in field order. Any
// non-empty value is accepted as is.
func (r ContactRequest) Validate() []FieldError {
	var errs []FieldError
	for _, f := range []struct{ name, value string }{
		{"name", r.Name},
		{"email", r.Email},
		{"subject", r.Subject},
		{"message", r.Message},
	} {
		if f.value == "" {
			errs = append(errs, FieldError{
				Code:    "too_small",
				Path:    []string{f.name},
				Message: f.name + " is required",
			})
		}
	}
	return errs
}
