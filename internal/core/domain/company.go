package domain

import (
	"errors"
	"time"
)

// CompanyKind distinguishes the demand side from the supply side.
type CompanyKind string

const (
	KindShipper CompanyKind = "shipper"
	KindCarrier CompanyKind = "carrier"
)

var ErrCompanyNotFound = errors.New("company not found")
var ErrCompanyExists = errors.New("company with this business number already exists")
var ErrInvalidBusinessNumber = errors.New("business number must have 10 digits")
var ErrNotCarrier = errors.New("company is not a carrier")
var ErrNotShipper = errors.New("company is not a shipper")
var ErrManagerNotFound = errors.New("manager not found")

// Manager is a contact person at a company.
type Manager struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
	Role  string `json:"role,omitempty" bson:"role,omitempty"`
}

// Company is a shipper or carrier in the roster.
type Company struct {
	ID             string      `json:"id" bson:"_id,omitempty"`
	Kind           CompanyKind `json:"kind" bson:"kind"`
	Name           string      `json:"name" bson:"name"`
	BusinessNumber string      `json:"business_number" bson:"business_number"`
	Phone          string      `json:"phone,omitempty" bson:"phone,omitempty"`
	Address        string      `json:"address,omitempty" bson:"address,omitempty"`
	Managers       []Manager   `json:"managers" bson:"managers"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updated_at"`
}

// NormalizeBusinessNumber strips separators and checks the 10-digit form.
func NormalizeBusinessNumber(raw string) (string, error) {
	digits := make([]byte, 0, 10)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		case c == '-' || c == ' ':
		default:
			return "", ErrInvalidBusinessNumber
		}
	}
	if len(digits) != 10 {
		return "", ErrInvalidBusinessNumber
	}
	return string(digits), nil
}
