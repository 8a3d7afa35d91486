package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
	"github.com/haulwise/backoffice/internal/roster"
	"github.com/haulwise/backoffice/pkg/format"
)

var ErrInvalidCompany = errors.New("invalid company")

// SearchCache holds recent roster search pages. Any write to the roster flushes it.
type SearchCache interface {
	Get(key string) (*ports.SearchCompaniesResult, bool)
	Set(key string, result *ports.SearchCompaniesResult)
	Flush()
}

type CompanyService struct {
	repo   ports.CompanyRepository
	cache  SearchCache
	logger zerolog.Logger
	now    func() time.Time
}

func NewCompanyService(repo ports.CompanyRepository, cache SearchCache, logger zerolog.Logger) *CompanyService {
	return &CompanyService{repo: repo, cache: cache, logger: logger, now: utcNow}
}

func (s *CompanyService) Create(ctx context.Context, in ports.CompanyInput) (*domain.Company, error) {
	bn, err := validateCompany(in)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByBusinessNumber(ctx, bn); err == nil && existing != nil {
		return nil, domain.ErrCompanyExists
	}

	now := s.now()
	c := &domain.Company{
		ID:             uuid.NewString(),
		Kind:           in.Kind,
		Name:           strings.TrimSpace(in.Name),
		BusinessNumber: bn,
		Phone:          format.Phone(in.Phone),
		Address:        strings.TrimSpace(in.Address),
		Managers:       []domain.Manager{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	s.invalidate()

	s.logger.Info().Str("company_id", c.ID).Str("kind", string(c.Kind)).Str("name", c.Name).Msg("company created")
	return c, nil
}

func (s *CompanyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	return s.repo.FindByID(ctx, id)
}

// Search pages through the roster. Results are cached per filter until the
// next roster write.
func (s *CompanyService) Search(ctx context.Context, filter ports.CompanyFilter) (*ports.SearchCompaniesResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	filter.Query = strings.TrimSpace(filter.Query)

	key := fmt.Sprintf("%s|%s|%d|%d", filter.Kind, strings.ToLower(filter.Query), filter.Page, filter.Limit)
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			return hit, nil
		}
	}

	items, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search companies: %w", err)
	}
	result := &ports.SearchCompaniesResult{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}
	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, nil
}

func (s *CompanyService) Update(ctx context.Context, id string, in ports.CompanyInput) (*domain.Company, error) {
	bn, err := validateCompany(in)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bn != c.BusinessNumber {
		if other, err := s.repo.FindByBusinessNumber(ctx, bn); err == nil && other != nil && other.ID != c.ID {
			return nil, domain.ErrCompanyExists
		}
	}

	c.Kind = in.Kind
	c.Name = strings.TrimSpace(in.Name)
	c.BusinessNumber = bn
	c.Phone = format.Phone(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	s.invalidate()
	return c, nil
}

func (s *CompanyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	s.logger.Info().Str("company_id", id).Msg("company deleted")
	return nil
}

func (s *CompanyService) AddManager(ctx context.Context, companyID string, in ports.ManagerInput) (*domain.Manager, error) {
	if strings.TrimSpace(in.Name) == "" || format.Digits(in.Phone) == "" {
		return nil, fmt.Errorf("%w: manager name and phone are required", ErrInvalidCompany)
	}

	c, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	m := newManager(in)
	c.Managers = append(c.Managers, m)
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("add manager: %w", err)
	}
	s.invalidate()
	return &m, nil
}

func (s *CompanyService) RemoveManager(ctx context.Context, companyID, managerID string) error {
	c, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		return err
	}

	kept := c.Managers[:0]
	found := false
	for _, m := range c.Managers {
		if m.ID == managerID {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return domain.ErrManagerNotFound
	}

	c.Managers = kept
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("remove manager: %w", err)
	}
	s.invalidate()
	return nil
}

// ImportRoster upserts companies by business number. A bad row is reported
// and skipped; the remaining rows are still applied. A read failure of the
// upload itself aborts the import. Rows sharing a business
// number accumulate managers on the same company.
func (s *CompanyService) ImportRoster(ctx context.Context, r io.Reader) (*ports.ImportRosterResult, error) {
	rr, err := roster.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCompany, err)
	}

	result := &ports.ImportRosterResult{Failed: []ports.RosterRowError{}}
	seen := make(map[string]bool)
	defer s.invalidate()

	for {
		row, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, roster.ErrMalformedRow) {
			result.Failed = append(result.Failed, ports.RosterRowError{Line: row.Line, Message: err.Error()})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("import roster: %w", err)
		}

		created, err := s.applyRow(ctx, row)
		if err != nil {
			result.Failed = append(result.Failed, ports.RosterRowError{Line: row.Line, Message: err.Error()})
			continue
		}
		key := format.Digits(row.BusinessNumber)
		if seen[key] {
			continue
		}
		seen[key] = true
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.logger.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("failed", len(result.Failed)).
		Msg("roster imported")
	return result, nil
}

func (s *CompanyService) applyRow(ctx context.Context, row roster.Row) (bool, error) {
	in := ports.CompanyInput{
		Kind:           row.Kind,
		Name:           row.Name,
		BusinessNumber: row.BusinessNumber,
		Phone:          row.Phone,
		Address:        row.Address,
	}
	bn, err := validateCompany(in)
	if err != nil {
		return false, err
	}

	now := s.now()
	c, err := s.repo.FindByBusinessNumber(ctx, bn)
	created := false
	switch {
	case errors.Is(err, domain.ErrCompanyNotFound):
		created = true
		c = &domain.Company{
			ID:             uuid.NewString(),
			Kind:           in.Kind,
			BusinessNumber: bn,
			Managers:       []domain.Manager{},
			CreatedAt:      now,
		}
	case err != nil:
		return false, err
	case c.Kind != in.Kind:
		return false, fmt.Errorf("%w: business number %s is registered as %s", ErrInvalidCompany, bn, c.Kind)
	}

	c.Name = strings.TrimSpace(in.Name)
	if in.Phone != "" {
		c.Phone = format.Phone(in.Phone)
	}
	if in.Address != "" {
		c.Address = strings.TrimSpace(in.Address)
	}
	if row.HasManager() && !hasManagerPhone(c, row.ManagerPhone) {
		c.Managers = append(c.Managers, newManager(ports.ManagerInput{
			Name:  row.ManagerName,
			Phone: row.ManagerPhone,
			Email: row.ManagerEmail,
		}))
	}
	c.UpdatedAt = now

	if created {
		return true, s.repo.Create(ctx, c)
	}
	return false, s.repo.Update(ctx, c)
}

// ExportRoster writes every company of the given kind (all kinds when empty).
func (s *CompanyService) ExportRoster(ctx context.Context, kind domain.CompanyKind, w io.Writer) error {
	var all []*domain.Company
	for page := 1; ; page++ {
		items, total, err := s.repo.Search(ctx, ports.CompanyFilter{Kind: kind, Page: page, Limit: maxPageLimit})
		if err != nil {
			return fmt.Errorf("export roster: %w", err)
		}
		all = append(all, items...)
		if len(items) == 0 || int64(len(all)) >= total {
			break
		}
	}
	return roster.Write(w, all)
}

func (s *CompanyService) invalidate() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

func validateCompany(in ports.CompanyInput) (string, error) {
	if in.Kind != domain.KindShipper && in.Kind != domain.KindCarrier {
		return "", fmt.Errorf("%w: kind must be shipper or carrier", ErrInvalidCompany)
	}
	if strings.TrimSpace(in.Name) == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidCompany)
	}
	return domain.NormalizeBusinessNumber(in.BusinessNumber)
}

func newManager(in ports.ManagerInput) domain.Manager {
	return domain.Manager{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(in.Name),
		Phone: format.Phone(in.Phone),
		Email: strings.TrimSpace(in.Email),
		Role:  strings.TrimSpace(in.Role),
	}
}

func hasManagerPhone(c *domain.Company, phone string) bool {
	digits := format.Digits(phone)
	for _, m := range c.Managers {
		if format.Digits(m.Phone) == digits {
			return true
		}
	}
	return false
}
