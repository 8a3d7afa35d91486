package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
)

var discardLogger = zerolog.Nop()

var (
	adminActor    = ports.Actor{Username: "root", Role: domain.RoleAdmin}
	operatorActor = ports.Actor{Username: "ops", Role: domain.RoleOperator}
)

func carrierActor(companyID string) ports.Actor {
	return ports.Actor{Username: "driver-desk", Role: domain.RoleCarrier, CompanyID: companyID}
}

func fixedNow() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	byNumber      map[string]*domain.Order
	byIdempotency map[string]string
	saves         int
	createErr     error
	saveErr       error
	lastFilter    ports.ListOrdersFilter
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		byNumber:      make(map[string]*domain.Order),
		byIdempotency: make(map[string]string),
	}
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Ledger.Fees = append([]domain.AdditionalFee(nil), o.Ledger.Fees...)
	c.StatusHistory = append([]domain.StatusHistoryEntry(nil), o.StatusHistory...)
	if o.Dispatch != nil {
		d := *o.Dispatch
		c.Dispatch = &d
	}
	return &c
}

func (r *stubOrderRepo) put(o *domain.Order) {
	if o.Version == 0 {
		o.Version = 1
	}
	r.byNumber[o.OrderNumber] = cloneOrder(o)
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byNumber[o.OrderNumber]; ok {
		return domain.ErrDuplicateOrder
	}
	r.byNumber[o.OrderNumber] = cloneOrder(o)
	if o.IdempotencyKey != "" {
		r.byIdempotency[o.IdempotencyKey] = o.OrderNumber
	}
	return nil
}

func (r *stubOrderRepo) FindByOrderNumber(_ context.Context, n string) (*domain.Order, error) {
	o, ok := r.byNumber[n]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	n, ok := r.byIdempotency[key]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(r.byNumber[n]), nil
}

func (r *stubOrderRepo) List(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	r.lastFilter = f
	var matched []*domain.Order
	for _, o := range r.byNumber {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.ShipperCompanyID != "" && o.ShipperCompanyID != f.ShipperCompanyID {
			continue
		}
		if f.CarrierCompanyID != "" && !o.VisibleToCarrier(f.CarrierCompanyID) {
			continue
		}
		if f.Search != "" && !strings.Contains(o.OrderNumber, f.Search) {
			continue
		}
		matched = append(matched, cloneOrder(o))
	}
	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip >= len(matched) {
		return []*domain.Order{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubOrderRepo) Save(_ context.Context, o *domain.Order) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	stored, ok := r.byNumber[o.OrderNumber]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if stored.Version != o.Version {
		return domain.ErrVersionConflict
	}
	o.Version++
	r.byNumber[o.OrderNumber] = cloneOrder(o)
	r.saves++
	return nil
}

func seedOrder(repo *stubOrderRepo, number string, status domain.OrderStatus, carrierID string) *domain.Order {
	o := &domain.Order{
		OrderNumber:      number,
		ShipperCompanyID: "shipper-1",
		Status:           status,
		Ledger:           domain.NewFeeLedger(100_000, 80_000),
		Version:          1,
		CreatedAt:        fixedNow(),
		StatusHistory:    []domain.StatusHistoryEntry{{Status: status, Timestamp: fixedNow()}},
	}
	if carrierID != "" {
		o.Dispatch = &domain.DispatchAssignment{CarrierCompanyID: carrierID, DriverName: "Park"}
	}
	repo.put(o)
	return o
}

// ---------------------------------------------------------------------------
// Companies
// ---------------------------------------------------------------------------

type stubCompanyRepo struct {
	byID    map[string]*domain.Company
	updates int
}

func newStubCompanyRepo(companies ...*domain.Company) *stubCompanyRepo {
	r := &stubCompanyRepo{byID: make(map[string]*domain.Company)}
	for _, c := range companies {
		r.byID[c.ID] = cloneCompany(c)
	}
	return r
}

func cloneCompany(c *domain.Company) *domain.Company {
	cp := *c
	cp.Managers = append([]domain.Manager(nil), c.Managers...)
	return &cp
}

func (r *stubCompanyRepo) Create(_ context.Context, c *domain.Company) error {
	r.byID[c.ID] = cloneCompany(c)
	return nil
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id string) (*domain.Company, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	return cloneCompany(c), nil
}

func (r *stubCompanyRepo) FindByBusinessNumber(_ context.Context, bn string) (*domain.Company, error) {
	for _, c := range r.byID {
		if c.BusinessNumber == bn {
			return cloneCompany(c), nil
		}
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubCompanyRepo) Search(_ context.Context, f ports.CompanyFilter) ([]*domain.Company, int64, error) {
	var matched []*domain.Company
	for _, c := range r.byID {
		if f.Kind != "" && c.Kind != f.Kind {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Query)) &&
			!strings.HasPrefix(c.BusinessNumber, f.Query) {
			continue
		}
		matched = append(matched, cloneCompany(c))
	}
	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip >= len(matched) {
		return []*domain.Company{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubCompanyRepo) Update(_ context.Context, c *domain.Company) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCompanyNotFound
	}
	r.byID[c.ID] = cloneCompany(c)
	r.updates++
	return nil
}

func (r *stubCompanyRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCompanyNotFound
	}
	delete(r.byID, id)
	return nil
}

var (
	shipperCo = &domain.Company{ID: "shipper-1", Kind: domain.KindShipper, Name: "Daon Foods", BusinessNumber: "2208100000"}
	carrierCo = &domain.Company{ID: "carrier-1", Kind: domain.KindCarrier, Name: "Hanul Logistics", BusinessNumber: "1234567890"}
)

// ---------------------------------------------------------------------------
// Events, dedup, SMS, cache
// ---------------------------------------------------------------------------

type stubEventRepo struct {
	updateErr error
	insertErr error
	updated   []string
	inserted  []*domain.StatusEvent
}

func (r *stubEventRepo) UpdateOrderStatus(_ context.Context, n string, from, to domain.OrderStatus, _ time.Time, _ string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = append(r.updated, n+":"+string(from)+">"+string(to))
	return nil
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.StatusEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

type stubDedup struct {
	dupResult bool
	dupErr    error
	markErr   error
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, n, status string, _ time.Time) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, n, status string, _ time.Time) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.marked = append(d.marked, n+":"+status)
	return nil
}

type stubPublisher struct {
	err  error
	jobs []ports.SMSJob
}

func (p *stubPublisher) PublishSMS(_ context.Context, job ports.SMSJob) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

type stubCache struct {
	entries map[string]*ports.SearchCompaniesResult
	hits    int
	flushes int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*ports.SearchCompaniesResult)}
}

func (c *stubCache) Get(key string) (*ports.SearchCompaniesResult, bool) {
	r, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return r, ok
}

func (c *stubCache) Set(key string, r *ports.SearchCompaniesResult) { c.entries[key] = r }

func (c *stubCache) Flush() {
	c.entries = make(map[string]*ports.SearchCompaniesResult)
	c.flushes++
}
