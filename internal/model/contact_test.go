package model

import (
	"strings"
	"testing"
)

func TestContactValidate(t *testing.T) {
	valid := ContactRequest{Name: "Ann", Email: "a@b.com", Subject: "hi", Message: "hi"}

	tests := []struct {
		name      string
		mutate    func(*ContactRequest)
		wantPaths []string
	}{
		{"valid", func(*ContactRequest) {}, nil},
		{"empty name", func(r *ContactRequest) { r.Name = "" }, []string{"name"}},
		{"empty message", func(r *ContactRequest) { r.Message = "" }, []string{"message"}},
		{"all empty", func(r *ContactRequest) { *r = ContactRequest{} }, []string{"name", "email", "subject", "message"}},
		// Anything non-empty is accepted; there are no format or length rules.
		{"email without domain", func(r *ContactRequest) { r.Email = "ann" }, nil},
		{"display-name email", func(r *ContactRequest) { r.Email = "Ann <a@b.com>" }, nil},
		{"whitespace name", func(r *ContactRequest) { r.Name = " " }, nil},
		{"long message", func(r *ContactRequest) { r.Message = strings.Repeat("x", 10000) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			errs := req.Validate()
			if len(errs) != len(tt.wantPaths) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.wantPaths))
			}
			for i, e := range errs {
				if e.Path[0] != tt.wantPaths[i] || e.Code != "too_small" {
					t.Errorf("error %d = %+v, want too_small at %s", i, e, tt.wantPaths[i])
				}
			}
		})
	}
}
