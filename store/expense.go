package store

import (
	"context"
	"errors"

	"budgetbe/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups when no record matches.
var ErrNotFound = errors.New("record not found")

type gormExpenses struct {
	db *gorm.DB
}

func (s *gormExpenses) ListByOwners(ctx context.Context, ownerIDs []uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.WithContext(ctx).
		Where("user_id IN ?", ownerIDs).
		Preload("User.Profile").
		Preload("Currency").
		Order("date desc, updated_at desc").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *gormExpenses) ByID(ctx context.Context, id uint) (*models.Expense, error) {
	var e models.Expense
	if err := s.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *gormExpenses) Create(ctx context.Context, e *models.Expense) error {
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *gormExpenses) Update(ctx context.Context, e *models.Expense) error {
	// Save writes all fields, which is what edit wants: a wholesale replace.
	return s.db.WithContext(ctx).Save(e).Error
}

func (s *gormExpenses) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Expense{}, id).Error
}

type gormCurrencies struct {
	db *gorm.DB
}

func (s *gormCurrencies) All(ctx context.Context) ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.WithContext(ctx).Order("code").Find(&currencies).Error; err != nil {
		return nil, err
	}
	return currencies, nil
}

type gormReceipts struct {
	db *gorm.DB
}

func (s *gormReceipts) Save(ctx context.Context, r *models.Receipt) error {
	return s.db.WithContext(ctx).Save(r).Error
}

func (s *gormReceipts) ByExpenseID(ctx context.Context, expenseID uint) (*models.Receipt, error) {
	var r models.Receipt
	err := s.db.WithContext(ctx).Where("expense_id = ?", expenseID).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}
