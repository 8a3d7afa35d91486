package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/normalize"
	"github.com/haulwise/backoffice/internal/core/ports"
	"github.com/haulwise/backoffice/internal/pkg/metrics"
)

// LedgerService edits the fee ledger embedded in each order. Every mutation is
// a load, edit, versioned save round trip; totals are recomputed on each read.
type LedgerService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewLedgerService(repo ports.OrderRepository, logger zerolog.Logger) *LedgerService {
	return &LedgerService{repo: repo, logger: logger, now: utcNow}
}

// GetLedger returns the fees of an order with freshly computed totals.
func (s *LedgerService) GetLedger(ctx context.Context, actor ports.Actor, orderNumber string) (*ports.LedgerView, error) {
	order, err := s.load(ctx, actor, orderNumber)
	if err != nil {
		return nil, err
	}
	return viewOf(order), nil
}

// AddFee appends a surcharge to the ledger.
func (s *LedgerService) AddFee(ctx context.Context, in ports.AddFeeInput) (*domain.AdditionalFee, *ports.LedgerView, error) {
	var added domain.AdditionalFee
	view, err := s.mutate(ctx, in.Actor, in.OrderNumber, "add", func(l *domain.FeeLedger) (bool, error) {
		fee, err := l.AddFee(in.Type, in.Amount, in.Memo, in.Target)
		if err != nil {
			return false, err
		}
		added = fee
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().
		Str("order_number", in.OrderNumber).
		Str("fee_id", added.ID).
		Str("type", string(added.Type)).
		Int64("amount", added.Amount).
		Msg("fee added")
	return &added, view, nil
}

// UpdateFee patches one fee. An unknown id is a silent no-op: the fee is nil
// and the unchanged view is returned without a write.
func (s *LedgerService) UpdateFee(ctx context.Context, in ports.UpdateFeeInput) (*domain.AdditionalFee, *ports.LedgerView, error) {
	var updated *domain.AdditionalFee
	view, err := s.mutate(ctx, in.Actor, in.OrderNumber, "update", func(l *domain.FeeLedger) (bool, error) {
		fee, err := l.UpdateFee(in.FeeID, in.Patch)
		if err != nil {
			return false, err
		}
		updated = fee
		return fee != nil, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if updated == nil {
		return nil, view, nil
	}

	s.logger.Info().Str("order_number", in.OrderNumber).Str("fee_id", in.FeeID).Msg("fee updated")
	return updated, view, nil
}

// RemoveFee deletes a fee. Removing an unknown fee succeeds without a write.
func (s *LedgerService) RemoveFee(ctx context.Context, actor ports.Actor, orderNumber, feeID string) (*ports.LedgerView, error) {
	return s.mutate(ctx, actor, orderNumber, "remove", func(l *domain.FeeLedger) (bool, error) {
		if _, ok := l.Fee(feeID); !ok {
			return false, nil
		}
		l.RemoveFee(feeID)
		return true, nil
	})
}

// SetBaseAmounts overwrites the base charge and base dispatch amounts.
func (s *LedgerService) SetBaseAmounts(ctx context.Context, actor ports.Actor, orderNumber string, charge, dispatch int64) (*ports.LedgerView, error) {
	return s.mutate(ctx, actor, orderNumber, "base", func(l *domain.FeeLedger) (bool, error) {
		if l.BaseChargeAmount == charge && l.BaseDispatchAmount == dispatch {
			return false, nil
		}
		if err := l.SetBaseAmounts(charge, dispatch); err != nil {
			return false, err
		}
		return true, nil
	})
}

// ImportFees normalizes legacy fee records and adds every clean one in a single save.
func (s *LedgerService) ImportFees(ctx context.Context, actor ports.Actor, orderNumber string, records []map[string]any) (*ports.ImportFeesResult, error) {
	result := &ports.ImportFeesResult{}
	view, err := s.mutate(ctx, actor, orderNumber, "import", func(l *domain.FeeLedger) (bool, error) {
		for i, rec := range records {
			in, issues := normalize.Fee(rec)
			if len(issues) > 0 {
				result.Rejected = append(result.Rejected, ports.RejectedFee{Index: i, Issues: issues})
				continue
			}
			fee, err := l.AddFee(in.Type, in.Amount, in.Memo, in.Target)
			if err != nil {
				return false, err
			}
			result.Added = append(result.Added, fee)
		}
		return len(result.Added) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	result.View = view

	s.logger.Info().
		Str("order_number", orderNumber).
		Int("added", len(result.Added)).
		Int("rejected", len(result.Rejected)).
		Msg("fees imported")
	return result, nil
}

func (s *LedgerService) load(ctx context.Context, actor ports.Actor, orderNumber string) (*domain.Order, error) {
	if actor.Role == domain.RoleCarrier {
		return nil, domain.ErrForbidden
	}
	return loadOrder(ctx, s.repo, actor, orderNumber)
}

// mutate loads the order, applies edit to its ledger and saves it when edit
// reports a change. Closed settlements are refused before edit runs.
func (s *LedgerService) mutate(ctx context.Context, actor ports.Actor, orderNumber, op string, edit func(*domain.FeeLedger) (bool, error)) (*ports.LedgerView, error) {
	order, err := s.load(ctx, actor, orderNumber)
	if err != nil {
		return nil, err
	}

	ledger, err := order.MutableLedger()
	if err != nil {
		metrics.LedgerRejectedTotal.WithLabelValues("closed").Inc()
		return nil, err
	}

	changed, err := edit(ledger)
	if err != nil {
		if errors.Is(err, domain.ErrFeeWithoutTarget) {
			metrics.LedgerRejectedTotal.WithLabelValues("no_target").Inc()
		}
		return nil, err
	}
	if !changed {
		return viewOf(order), nil
	}

	order.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, order); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			metrics.LedgerRejectedTotal.WithLabelValues("conflict").Inc()
		}
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	metrics.LedgerMutationsTotal.WithLabelValues(op).Inc()
	return viewOf(order), nil
}

func viewOf(o *domain.Order) *ports.LedgerView {
	return &ports.LedgerView{
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		Locked:      o.LedgerLocked(),
		Ledger:      o.Ledger,
		Totals:      o.Ledger.ComputeTotals(),
	}
}
