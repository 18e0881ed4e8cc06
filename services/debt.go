package services

import (
	"context"
	"errors"
	"fintrack-backend/models"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DebtService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDebtService(db *gorm.DB) *DebtService {
	return &DebtService{db: db, now: time.Now}
}

// DebtFilter narrows list and aggregate queries. Zero values match everything.
type DebtFilter struct {
	Person string
	Status models.DebtStatus
}

func (s *DebtService) scoped(ctx context.Context, userID uuid.UUID, f DebtFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Debt{}).Where("user_id = ?", userID)
	if person := strings.TrimSpace(f.Person); person != "" {
		q = q.Where("LOWER(person_name) LIKE ?", "%"+strings.ToLower(person)+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

func (s *DebtService) Create(ctx context.Context, userID uuid.UUID, req models.CreateDebtRequest) (*models.Debt, error) {
	personName := strings.TrimSpace(req.PersonName)
	if personName == "" {
		return nil, models.ValidationError("Person name is required")
	}
	if req.Amount == nil {
		return nil, models.ValidationError("Amount is required")
	}
	if err := models.ValidateAmount("Amount", *req.Amount); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, models.ValidationError("Type must be BORROWED or GIVEN")
	}

	debt := models.Debt{
		UserID:        userID,
		PersonName:    personName,
		Amount:        *req.Amount,
		Type:          req.Type,
		Status:        models.DebtPending,
		AmountSettled: decimal.Zero,
	}
	if req.DueDate != "" {
		due, err := models.ParseDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		debt.DueDate = &due
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&debt).Error; err != nil {
			return err
		}
		return recordActivity(tx, userID, models.ActivityDebtCreated, debt.ID,
			fmt.Sprintf("%s debt with %s for %s", debtVerb(debt.Type), debt.PersonName, debt.Amount.StringFixed(2)))
	})
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

// Get loads a debt with its settlement history, newest first.
func (s *DebtService) Get(ctx context.Context, userID, debtID uuid.UUID) (*models.Debt, error) {
	var debt models.Debt
	err := s.db.WithContext(ctx).
		Preload("Settlements", func(db *gorm.DB) *gorm.DB {
			return db.Order("settled_date DESC")
		}).
		Where("id = ? AND user_id = ?", debtID, userID).
		First(&debt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundError("Debt not found")
	}
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

// Update is the client edit path. Closed debts are immutable here.
func (s *DebtService) Update(ctx context.Context, userID, debtID uuid.UUID, edit models.DebtEdit) (*models.Debt, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var debt models.Debt
		if err := lockDebt(tx, userID, debtID, &debt); err != nil {
			return err
		}
		if err := debt.Edit(edit, s.now()); err != nil {
			return err
		}
		if err := tx.Model(&debt).
			Select("person_name", "amount", "due_date", "status", "closed_at").
			Updates(&debt).Error; err != nil {
			return err
		}
		return recordActivity(tx, userID, models.ActivityDebtUpdated, debt.ID,
			fmt.Sprintf("Updated debt with %s", debt.PersonName))
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, debtID)
}

// Delete removes a debt together with its settlement history.
func (s *DebtService) Delete(ctx context.Context, userID, debtID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var debt models.Debt
		if err := lockDebt(tx, userID, debtID, &debt); err != nil {
			return err
		}
		if err := tx.Where("debt_id = ?", debt.ID).Delete(&models.Settlement{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&debt).Error; err != nil {
			return err
		}
		return recordActivity(tx, userID, models.ActivityDebtDeleted, debt.ID,
			fmt.Sprintf("Deleted debt with %s", debt.PersonName))
	})
}

// Settle records a payment against a debt. The debt row stays locked from the
// outstanding-balance check until commit so concurrent settlements serialize.
func (s *DebtService) Settle(ctx context.Context, userID, debtID uuid.UUID, amount decimal.Decimal, notes string) (*models.Debt, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var debt models.Debt
		if err := lockDebt(tx, userID, debtID, &debt); err != nil {
			return err
		}
		return applySettlement(tx, &debt, amount, notes, s.now())
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, debtID)
}

func lockDebt(tx *gorm.DB, userID, debtID uuid.UUID, debt *models.Debt) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", debtID, userID).
		First(debt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NotFoundError("Debt not found")
	}
	return err
}

// applySettlement is the only writer of amount_settled, and the only path that
// may touch a debt once it is closed. debt must be locked by tx.
func applySettlement(tx *gorm.DB, debt *models.Debt, amount decimal.Decimal, notes string, now time.Time) error {
	settlement, err := debt.Settle(amount, notes, now)
	if err != nil {
		return err
	}
	if err := tx.Create(&settlement).Error; err != nil {
		return err
	}
	if err := tx.Model(debt).
		Select("amount_settled", "status", "closed_at").
		Updates(debt).Error; err != nil {
		return err
	}

	if err := recordActivityMeta(tx, debt.UserID, models.ActivityDebtSettled, debt.ID,
		fmt.Sprintf("Settled %s with %s, %s outstanding", amount.StringFixed(2), debt.PersonName, debt.Outstanding().StringFixed(2)),
		datatypes.JSONMap{
			"settlement_id": settlement.ID.String(),
			"amount":        amount.StringFixed(2),
			"outstanding":   debt.Outstanding().StringFixed(2),
		}); err != nil {
		return err
	}
	if debt.IsClosed() {
		return recordActivity(tx, debt.UserID, models.ActivityDebtClosed, debt.ID,
			fmt.Sprintf("Debt with %s fully settled", debt.PersonName))
	}
	return nil
}

// List returns pending debts (most settled first) followed by closed debts
// (most recently closed first).
func (s *DebtService) List(ctx context.Context, userID uuid.UUID, f DebtFilter) ([]models.Debt, error) {
	debts := []models.Debt{}

	if f.Status == "" || f.Status == models.DebtPending {
		var pending []models.Debt
		pf := f
		pf.Status = models.DebtPending
		if err := s.scoped(ctx, userID, pf).
			Order("amount_settled DESC").
			Order("created_at DESC").
			Find(&pending).Error; err != nil {
			return nil, err
		}
		debts = append(debts, pending...)
	}

	if f.Status == "" || f.Status == models.DebtClosed {
		var closed []models.Debt
		cf := f
		cf.Status = models.DebtClosed
		if err := s.scoped(ctx, userID, cf).
			Order("closed_at DESC").
			Find(&closed).Error; err != nil {
			return nil, err
		}
		debts = append(debts, closed...)
	}

	return debts, nil
}

// Pending returns pending debts by outstanding amount descending with their total.
func (s *DebtService) Pending(ctx context.Context, userID uuid.UUID, person string) ([]models.Debt, decimal.Decimal, error) {
	debts := []models.Debt{}
	err := s.scoped(ctx, userID, DebtFilter{Person: person, Status: models.DebtPending}).
		Order("(amount - amount_settled) DESC").
		Order("created_at DESC").
		Find(&debts).Error
	if err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	for i := range debts {
		total = total.Add(debts[i].Outstanding())
	}
	return debts, total, nil
}

// Closed groups closed debts by the calendar month they closed in, newest month first.
func (s *DebtService) Closed(ctx context.Context, userID uuid.UUID, person string) ([]models.ClosedDebtGroup, error) {
	var debts []models.Debt
	err := s.scoped(ctx, userID, DebtFilter{Person: person, Status: models.DebtClosed}).
		Order("closed_at DESC").
		Find(&debts).Error
	if err != nil {
		return nil, err
	}

	now := s.now()
	groups := map[string]*models.ClosedDebtGroup{}
	for i := range debts {
		if debts[i].ClosedAt == nil {
			continue
		}
		closedAt := debts[i].ClosedAt.UTC()
		key := closedAt.Format("2006-01")
		group, ok := groups[key]
		if !ok {
			group = &models.ClosedDebtGroup{
				Month:        key,
				MonthDisplay: closedAt.Format("January 2006"),
				Debts:        []models.DebtListResponse{},
			}
			groups[key] = group
		}
		group.Debts = append(group.Debts, debts[i].ToListResponse(now))
		group.Count++
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	result := make([]models.ClosedDebtGroup, 0, len(keys))
	for _, key := range keys {
		result = append(result, *groups[key])
	}
	return result, nil
}

type debtTotals struct {
	TotalBorrowed    decimal.Decimal
	TotalGiven       decimal.Decimal
	TotalOutstanding decimal.Decimal
	TotalSettled     decimal.Decimal
	BorrowedPending  decimal.Decimal
	BorrowedSettled  decimal.Decimal
	GivenPending     decimal.Decimal
	GivenSettled     decimal.Decimal
}

// Summary aggregates the caller's debts in a single query.
func (s *DebtService) Summary(ctx context.Context, userID uuid.UUID, person string) (models.DebtSummary, error) {
	var totals debtTotals
	err := s.scoped(ctx, userID, DebtFilter{Person: person}).
		Select(`
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_borrowed,
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_given,
			COALESCE(SUM(CASE WHEN status = ? THEN amount - amount_settled ELSE 0 END), 0) AS total_outstanding,
			COALESCE(SUM(amount_settled), 0) AS total_settled,
			COALESCE(SUM(CASE WHEN type = ? AND status = ? THEN amount ELSE 0 END), 0) AS borrowed_pending,
			COALESCE(SUM(CASE WHEN type = ? THEN amount_settled ELSE 0 END), 0) AS borrowed_settled,
			COALESCE(SUM(CASE WHEN type = ? AND status = ? THEN amount ELSE 0 END), 0) AS given_pending,
			COALESCE(SUM(CASE WHEN type = ? THEN amount_settled ELSE 0 END), 0) AS given_settled`,
			models.DebtBorrowed,
			models.DebtGiven,
			models.DebtPending,
			models.DebtBorrowed, models.DebtPending,
			models.DebtBorrowed,
			models.DebtGiven, models.DebtPending,
			models.DebtGiven,
		).
		Scan(&totals).Error
	if err != nil {
		return models.DebtSummary{}, err
	}

	return models.DebtSummary{
		TotalBorrowed:    models.NewMoney(totals.TotalBorrowed),
		TotalGiven:       models.NewMoney(totals.TotalGiven),
		TotalOutstanding: models.NewMoney(totals.TotalOutstanding),
		TotalSettled:     models.NewMoney(totals.TotalSettled),
		BorrowedBreakdown: models.DebtBreakdown{
			Pending: models.NewMoney(totals.BorrowedPending),
			Settled: models.NewMoney(totals.BorrowedSettled),
		},
		GivenBreakdown: models.DebtBreakdown{
			Pending: models.NewMoney(totals.GivenPending),
			Settled: models.NewMoney(totals.GivenSettled),
		},
	}, nil
}

// Persons lists the distinct counterparties of the caller, alphabetically.
func (s *DebtService) Persons(ctx context.Context, userID uuid.UUID) ([]string, error) {
	persons := []string{}
	err := s.db.WithContext(ctx).Model(&models.Debt{}).
		Where("user_id = ?", userID).
		Distinct("person_name").
		Order("person_name ASC").
		Pluck("person_name", &persons).Error
	return persons, err
}

type personNet struct {
	PersonName string
	Net        decimal.Decimal
	Debts      int
}

// Balances nets pending outstanding amounts per person: money given counts as
// owed to the caller, money borrowed as owed by the caller.
func (s *DebtService) Balances(ctx context.Context, userID uuid.UUID) (models.OverallBalanceSummary, error) {
	var nets []personNet
	err := s.scoped(ctx, userID, DebtFilter{Status: models.DebtPending}).
		Select(`person_name,
			SUM(CASE WHEN type = ? THEN amount - amount_settled ELSE amount_settled - amount END) AS net,
			COUNT(*) AS debts`, models.DebtGiven).
		Group("person_name").
		Order("person_name ASC").
		Scan(&nets).Error
	if err != nil {
		return models.OverallBalanceSummary{}, err
	}

	totalOwed, totalOwing := decimal.Zero, decimal.Zero
	persons := []models.PersonBalance{}
	for _, n := range nets {
		n.Net = n.Net.Round(2)
		if n.Net.IsZero() {
			continue
		}
		persons = append(persons, models.PersonBalance{
			PersonName: n.PersonName,
			Amount:     models.NewMoney(n.Net),
			Debts:      n.Debts,
		})
		if n.Net.IsPositive() {
			totalOwed = totalOwed.Add(n.Net)
		} else {
			totalOwing = totalOwing.Add(n.Net.Neg())
		}
	}

	return models.OverallBalanceSummary{
		TotalOwed:  models.NewMoney(totalOwed),
		TotalOwing: models.NewMoney(totalOwing),
		Persons:    persons,
	}, nil
}

func debtVerb(t models.DebtType) string {
	if t == models.DebtBorrowed {
		return "Borrowed"
	}
	return "Gave"
}
