package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
	"gesso-pos/internal/ws"
	"gesso-pos/pkg/logger"
)

type WithdrawalService interface {
	RecordWithdrawal(ctx context.Context, req *WithdrawalInput, actor Actor) (*model.Withdrawal, error)
	ListWithdrawals(ctx context.Context, period model.DateRange) (*WithdrawalReport, error)
}

type WithdrawalInput struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Note   string          `json:"note" validate:"max=255"`
	Date   *time.Time      `json:"date"`
}

type DailyTotal struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type WithdrawalReport struct {
	Items []model.Withdrawal `json:"items"`
	Total decimal.Decimal    `json:"total"`
	Daily []DailyTotal       `json:"daily"`
}

type withdrawalService struct {
	withdrawals repository.WithdrawalRepository
	events      EventPublisher
}

func NewWithdrawalService(withdrawals repository.WithdrawalRepository, events EventPublisher) WithdrawalService {
	return &withdrawalService{withdrawals: withdrawals, events: publisherOrNop(events)}
}

func (s *withdrawalService) RecordWithdrawal(ctx context.Context, req *WithdrawalInput, actor Actor) (*model.Withdrawal, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	w := &model.Withdrawal{
		Amount: req.Amount.Round(2),
		Note:   strings.TrimSpace(req.Note),
		Date:   time.Now(),
	}
	if req.Date != nil {
		w.Date = *req.Date
	}
	w.CreatedBy = actor.ID
	if err := s.withdrawals.Create(ctx, w); err != nil {
		return nil, err
	}

	logger.Info(ctx, "withdrawal recorded", "withdrawal_id", w.ID, "amount", w.Amount.StringFixed(2))
	s.events.Publish(ws.Event{
		Type:    ws.EventWithdrawalCreated,
		Data:    w,
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s registrou uma sangria de R$ %s", actor.Name, w.Amount.StringFixed(2)),
	})
	return w, nil
}

func (s *withdrawalService) ListWithdrawals(ctx context.Context, period model.DateRange) (*WithdrawalReport, error) {
	items, err := s.withdrawals.FindAll(ctx, period)
	if err != nil {
		return nil, err
	}

	report := &WithdrawalReport{Items: items, Total: decimal.Zero, Daily: []DailyTotal{}}
	byDay := map[string]*DailyTotal{}
	for _, w := range items {
		report.Total = report.Total.Add(w.Amount)
		key := w.Date.Format("2006-01-02")
		d, ok := byDay[key]
		if !ok {
			d = &DailyTotal{Date: key, Total: decimal.Zero}
			byDay[key] = d
		}
		d.Total = d.Total.Add(w.Amount)
		d.Count++
	}
	for _, d := range byDay {
		report.Daily = append(report.Daily, *d)
	}
	sort.Slice(report.Daily, func(i, j int) bool { return report.Daily[i].Date < report.Daily[j].Date })
	return report, nil
}
