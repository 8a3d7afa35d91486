package handler

import (
	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/pkg/format"
)

type companyRequest struct {
	Kind           string `json:"kind"            validate:"required,oneof=shipper carrier"`
	Name           string `json:"name"            validate:"required,max=100"`
	BusinessNumber string `json:"business_number" validate:"required,bizno"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

type managerRequest struct {
	Name  string `json:"name"  validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role"`
}

type companyResponse struct {
	*domain.Company
	BusinessNumberDisplay string `json:"business_number_display"`
}

type searchCompaniesResponse struct {
	Items []companyResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

func toCompanyResponse(c *domain.Company) companyResponse {
	return companyResponse{Company: c, BusinessNumberDisplay: format.BusinessNumber(c.BusinessNumber)}
}
