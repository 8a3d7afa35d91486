package ports

import (
	"context"
	"io"

	"github.com/haulwise/backoffice/internal/core/domain"
)

// CompanyFilter narrows a roster query.
type CompanyFilter struct {
	Kind  domain.CompanyKind // empty = all kinds
	Query string             // optional: name contains or business number prefix
	Page  int
	Limit int
}

// CompanyRepository defines persistence operations for the company roster.
type CompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) error
	FindByID(ctx context.Context, id string) (*domain.Company, error)
	FindByBusinessNumber(ctx context.Context, businessNumber string) (*domain.Company, error)
	Search(ctx context.Context, filter CompanyFilter) ([]*domain.Company, int64, error)
	Update(ctx context.Context, c *domain.Company) error
	Delete(ctx context.Context, id string) error
}

// CompanyInput carries the editable fields of a company.
type CompanyInput struct {
	Kind           domain.CompanyKind
	Name           string
	BusinessNumber string
	Phone          string
	Address        string
}

// ManagerInput carries a new manager for a company.
type ManagerInput struct {
	Name  string
	Phone string
	Email string
	Role  string
}

// SearchCompaniesResult is one page of roster search results.
type SearchCompaniesResult struct {
	Items []*domain.Company
	Total int64
	Page  int
	Limit int
}

// RosterRowError points at a rejected row of an imported roster file.
type RosterRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportRosterResult summarises a roster upload.
type ImportRosterResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Failed  []RosterRowError `json:"failed"`
}

// CompanyService manages shippers, carriers and their managers.
type CompanyService interface {
	Create(ctx context.Context, input CompanyInput) (*domain.Company, error)
	Get(ctx context.Context, id string) (*domain.Company, error)
	Search(ctx context.Context, filter CompanyFilter) (*SearchCompaniesResult, error)
	Update(ctx context.Context, id string, input CompanyInput) (*domain.Company, error)
	Delete(ctx context.Context, id string) error
	AddManager(ctx context.Context, companyID string, input ManagerInput) (*domain.Manager, error)
	RemoveManager(ctx context.Context, companyID, managerID string) error
	ImportRoster(ctx context.Context, r io.Reader) (*ImportRosterResult, error)
	ExportRoster(ctx context.Context, kind domain.CompanyKind, w io.Writer) error
}
