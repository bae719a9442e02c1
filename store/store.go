// Package store holds the persistence collaborators of the expense service.
// Handlers depend on the interfaces so tests can substitute in-memory fakes;
// the gorm implementations below are the production wiring.
package store

import (
	"context"

	"budgetbe/models"

	"gorm.io/gorm"
)

// ExpenseStore is durable CRUD for expense records.
type ExpenseStore interface {
	// ListByOwners returns expenses owned by any of ownerIDs, with owner and
	// currency joined, sorted by date descending then last update descending.
	ListByOwners(ctx context.Context, ownerIDs []uint) ([]models.Expense, error)
	ByID(ctx context.Context, id uint) (*models.Expense, error)
	Create(ctx context.Context, e *models.Expense) error
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, id uint) error
}

// CurrencyStore is read-only access to the currency reference table.
type CurrencyStore interface {
	All(ctx context.Context) ([]models.Currency, error)
}

// UserStore covers users, their profiles and family membership.
type UserStore interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	// FamilyMemberIDs returns the ids of other users sharing userID's family,
	// excluding userID itself. Empty when the user has no family.
	FamilyMemberIDs(ctx context.Context, userID uint) ([]uint, error)
	SaveProfile(ctx context.Context, p *models.Profile) error
	ProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	CreateFamily(ctx context.Context, f *models.Family) error
	FamilyByID(ctx context.Context, id uint) (*models.Family, error)
	SetFamily(ctx context.Context, userID, familyID uint) error
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	ByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
}

// ReceiptStore persists receipt attachments (one per expense).
type ReceiptStore interface {
	Save(ctx context.Context, r *models.Receipt) error
	ByExpenseID(ctx context.Context, expenseID uint) (*models.Receipt, error)
}

// Stores bundles the gorm-backed implementations over a single DB handle.
type Stores struct {
	Expenses   ExpenseStore
	Currencies CurrencyStore
	Users      UserStore
	Tokens     TokenStore
	Receipts   ReceiptStore
}

func New(db *gorm.DB) *Stores {
	return &Stores{
		Expenses:   &gormExpenses{db: db},
		Currencies: &gormCurrencies{db: db},
		Users:      &gormUsers{db: db},
		Tokens:     &gormTokens{db: db},
		Receipts:   &gormReceipts{db: db},
	}
}
