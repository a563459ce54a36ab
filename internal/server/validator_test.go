package server

import "testing"

type sampleRequest struct {
	Origin    string `json:"origin" validate:"required"`
	Travelers int    `json:"travelers" validate:"gt=0"`
	Share     int    `json:"share" validate:"gte=0,lte=100"`
}

// TestValidatorMessages проверяет сообщения с именами полей из json-тегов.
func TestValidatorMessages(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&sampleRequest{Origin: "Karachi", Travelers: 1}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	err := v.Validate(&sampleRequest{Travelers: 1})
	if err == nil || err.Error() != "origin is required" {
		t.Fatalf("unexpected error: %v", err)
	}

	err = v.Validate(&sampleRequest{Origin: "Karachi"})
	if err == nil || err.Error() != "travelers must be greater than 0" {
		t.Fatalf("unexpected error: %v", err)
	}

	err = v.Validate(&sampleRequest{Origin: "Karachi", Travelers: 1, Share: 120})
	if err == nil || err.Error() != "share is invalid" {
		t.Fatalf("unexpected error: %v", err)
	}
}
