package domain

import (
	"fmt"
	"strings"
	"time"
)

type ContactStatus string

const (
	ContactNew     ContactStatus = "new"
	ContactReplied ContactStatus = "replied"
)

func ParseContactStatus(s string) (ContactStatus, bool) {
	switch ContactStatus(s) {
	case ContactNew, ContactReplied:
		return ContactStatus(s), true
	default:
		return "", false
	}
}

type ContactInquiry struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Subject      string        `json:"subject"`
	Message      string        `json:"message"`
	Status       ContactStatus `json:"status"`
	AdminComment *string       `json:"adminComment,omitempty"`
	UserID       *int64        `json:"userId,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

func (r *ContactRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if r.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if r.Message == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}

// AdminContactPatch mirrors the consultation patch semantics: omitted status
// falls back to new, adminComment is applied only when present.
type AdminContactPatch struct {
	Status       *string `json:"status,omitempty"`
	AdminComment *string `json:"adminComment,omitempty"`
}
