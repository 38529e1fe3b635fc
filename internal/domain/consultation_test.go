package domain

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateBookingID_Format(t *testing.T) {
	id := GenerateBookingID(time.Now())
	if !strings.HasPrefix(id, "RE-") {
		t.Errorf("Expected RE- prefix, got %s", id)
	}
	if len(id) <= len("RE-") {
		t.Errorf("Expected a timestamp after the prefix, got %s", id)
	}
}

func TestGenerateBookingID_UniqueUnderBurst(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)

	// Same creation instant for every call; ids must still be distinct.
	for i := 0; i < 1000; i++ {
		id := GenerateBookingID(now)
		if seen[id] {
			t.Fatalf("Duplicate booking id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestParseConsultationStatus(t *testing.T) {
	for _, s := range []string{"pending", "scheduled", "confirmed", "completed"} {
		if _, ok := ParseConsultationStatus(s); !ok {
			t.Errorf("Expected %q to parse", s)
		}
	}
	if _, ok := ParseConsultationStatus("canceled"); ok {
		t.Error("Expected unknown status to be rejected")
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, s := range []string{"unpaid", "paid", "refunded"} {
		if _, ok := ParsePaymentStatus(s); !ok {
			t.Errorf("Expected %q to parse", s)
		}
	}
	if _, ok := ParsePaymentStatus("pending"); ok {
		t.Error("Expected unknown payment status to be rejected")
	}
}

func TestConsultationRequest_Validate(t *testing.T) {
	valid := ConsultationRequest{
		Name:      "Aisha Khan",
		Email:     "aisha@example.com",
		Phone:     "+911234567890",
		EventType: "wedding",
		EventDate: "2026-10-20",
		Location:  "Mumbai",
		Budget:    "10-25L",
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid request, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ConsultationRequest)
	}{
		{"missing name", func(r *ConsultationRequest) { r.Name = "" }},
		{"missing email", func(r *ConsultationRequest) { r.Email = "" }},
		{"bad email", func(r *ConsultationRequest) { r.Email = "not-an-email" }},
		{"missing phone", func(r *ConsultationRequest) { r.Phone = "" }},
		{"missing event type", func(r *ConsultationRequest) { r.EventType = "" }},
		{"missing event date", func(r *ConsultationRequest) { r.EventDate = "" }},
		{"missing location", func(r *ConsultationRequest) { r.Location = "" }},
		{"missing budget", func(r *ConsultationRequest) { r.Budget = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if err := req.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestConsultationIsOwner(t *testing.T) {
	owner := int64(7)
	c := Consultation{UserID: &owner}

	if !c.IsOwner(7) {
		t.Error("Expected owner match")
	}
	if c.IsOwner(8) {
		t.Error("Expected non-owner mismatch")
	}

	anonymous := Consultation{}
	if anonymous.IsOwner(7) {
		t.Error("Anonymous consultations have no owner")
	}
}
