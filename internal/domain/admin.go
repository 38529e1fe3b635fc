package domain

import (
	"fmt"
	"strings"
	"time"
)

// Admin is a separate identity class from User. Login requires the password
// and the shared security code; the code is stored hashed on the record.
type Admin struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	SecurityCodeHash string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
}

type AdminInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (a *Admin) ToAdminInfo() *AdminInfo {
	return &AdminInfo{
		ID:    a.ID,
		Email: a.Email,
	}
}

type AdminLoginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	SecurityCode string `json:"securityCode"`
}

func (r *AdminLoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.SecurityCode = strings.TrimSpace(r.SecurityCode)
}

func (r *AdminLoginRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if r.SecurityCode == "" {
		return fmt.Errorf("securityCode is required")
	}
	return nil
}
