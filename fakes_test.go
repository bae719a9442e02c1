package main

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"budgetbe/models"
	"budgetbe/store"
)

var errStoreDown = errors.New("store unavailable")

// fixture is the shared in-memory world the fake stores join against, the way
// the gorm stores preload related rows.
type fixture struct {
	mu         sync.Mutex
	users      map[uint]*models.User
	currencies []models.Currency
}

func newFixture() *fixture {
	return &fixture{
		users: make(map[uint]*models.User),
		currencies: []models.Currency{
			{ID: 1, Code: "USD", Name: "US Dollar", Symbol: "$"},
			{ID: 2, Code: "EUR", Name: "Euro", Symbol: "€"},
		},
	}
}

func (fx *fixture) currencyByID(id uint) models.Currency {
	for _, c := range fx.currencies {
		if c.ID == id {
			return c
		}
	}
	return models.Currency{}
}

type fakeExpenses struct {
	fx     *fixture
	mu     sync.Mutex
	nextID uint
	items  map[uint]models.Expense

	failList   bool
	failCreate bool
	failUpdate bool
	failDelete bool
}

func newFakeExpenses(fx *fixture) *fakeExpenses {
	return &fakeExpenses{fx: fx, items: make(map[uint]models.Expense)}
}

func (f *fakeExpenses) ListByOwners(_ context.Context, ownerIDs []uint) ([]models.Expense, error) {
	if f.failList {
		return nil, errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	owners := make(map[uint]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}
	var out []models.Expense
	for _, e := range f.items {
		if !owners[e.UserID] {
			continue
		}
		if u, ok := f.fx.users[e.UserID]; ok {
			e.User = *u
		}
		e.Currency = f.fx.currencyByID(e.CurrencyID)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (f *fakeExpenses) ByID(_ context.Context, id uint) (*models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

func (f *fakeExpenses) Create(_ context.Context, e *models.Expense) error {
	if f.failCreate {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	f.items[e.ID] = *e
	return nil
}

func (f *fakeExpenses) Update(_ context.Context, e *models.Expense) error {
	if f.failUpdate {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e.UpdatedAt = time.Now()
	f.items[e.ID] = *e
	return nil
}

func (f *fakeExpenses) Delete(_ context.Context, id uint) error {
	if f.failDelete {
		return errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

// put stores an expense directly, for fixtures that need exact timestamps.
func (f *fakeExpenses) put(e models.Expense) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID > f.nextID {
		f.nextID = e.ID
	}
	f.items[e.ID] = e
}

type fakeCurrencies struct {
	fx   *fixture
	fail bool
}

func (f *fakeCurrencies) All(_ context.Context) ([]models.Currency, error) {
	if f.fail {
		return nil, errStoreDown
	}
	return f.fx.currencies, nil
}

type fakeUsers struct {
	fx       *fixture
	mu       sync.Mutex
	nextID   uint
	families map[uint]models.Family
}

func newFakeUsers(fx *fixture) *fakeUsers {
	return &fakeUsers{fx: fx, families: make(map[uint]models.Family)}
}

func (f *fakeUsers) ByID(_ context.Context, id uint) (*models.User, error) {
	f.fx.mu.Lock()
	defer f.fx.mu.Unlock()
	u, ok := f.fx.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	f.fx.mu.Lock()
	defer f.fx.mu.Unlock()
	for _, u := range f.fx.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.fx.mu.Lock()
	defer f.fx.mu.Unlock()
	f.nextID++
	if u.ID == 0 {
		u.ID = f.nextID + 100 // avoid colliding with fixture-assigned ids
	}
	cp := *u
	f.fx.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) FamilyMemberIDs(_ context.Context, userID uint) ([]uint, error) {
	f.fx.mu.Lock()
	defer f.fx.mu.Unlock()
	u, ok := f.fx.users[userID]
	if !ok || u.FamilyID == nil {
		return nil, nil
	}
	var ids []uint
	for id, other := range f.fx.users {
		if id != userID && other.FamilyID != nil && *other.FamilyID == *u.FamilyID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeUsers) SaveProfile(_ context.Context, p *models.Profile) error {
	f.fx.mu.Lock()
	defer f.fx.mu.Unlock()
	u, ok := f.fx.users[p.UserID]
	if !ok {
		return store.ErrNotFound
	}
	if p.ID == 0 {
		p.ID = p.UserID
	}
	cp := *p
	u.Profile = &cp
	return nil
}

func (f *fakeUsers) ProfileByUserID(_ context.Context, userID uint) (*models.Profile, error) {
	f.fx.mu.Lock()
	defer f.fx.mu.Unlock()
	u, ok := f.fx.users[userID]
	if !ok || u.Profile == nil {
		return nil, store.ErrNotFound
	}
	cp := *u.Profile
	return &cp, nil
}

func (f *fakeUsers) CreateFamily(_ context.Context, fam *models.Family) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	fam.ID = f.nextID
	f.families[fam.ID] = *fam
	return nil
}

func (f *fakeUsers) FamilyByID(_ context.Context, id uint) (*models.Family, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fam, ok := f.families[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &fam, nil
}

func (f *fakeUsers) SetFamily(_ context.Context, userID, familyID uint) error {
	f.fx.mu.Lock()
	defer f.fx.mu.Unlock()
	u, ok := f.fx.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	fid := familyID
	u.FamilyID = &fid
	return nil
}

type fakeTokens struct {
	mu     sync.Mutex
	nextID uint
	byHash map[string]models.RefreshToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byHash: make(map[string]models.RefreshToken)}
}

func (f *fakeTokens) Create(_ context.Context, t *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	f.byHash[t.TokenHash] = *t
	return nil
}

func (f *fakeTokens) ByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byHash[hash]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTokens) Revoke(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for hash, t := range f.byHash {
		if t.ID == id {
			t.Revoked = true
			f.byHash[hash] = t
		}
	}
	return nil
}

type fakeReceipts struct {
	mu        sync.Mutex
	nextID    uint
	byExpense map[uint]models.Receipt
}

func newFakeReceipts() *fakeReceipts {
	return &fakeReceipts{byExpense: make(map[uint]models.Receipt)}
}

func (f *fakeReceipts) Save(_ context.Context, r *models.Receipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		f.nextID++
		r.ID = f.nextID
	}
	f.byExpense[r.ExpenseID] = *r
	return nil
}

func (f *fakeReceipts) ByExpenseID(_ context.Context, expenseID uint) (*models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byExpense[expenseID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}
