package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
	"gesso-pos/internal/ws"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(e ws.Event) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *recordingPublisher) ofType(t string) []ws.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []ws.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeMovements struct {
	mu    sync.Mutex
	saved []model.StockMovement
	err   error
}

func (f *fakeMovements) CreateBatch(_ context.Context, movements []model.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, movements...)
	return nil
}

func (f *fakeMovements) FindAll(_ context.Context, filter model.MovementFilter) ([]model.StockMovement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StockMovement
	for _, m := range f.saved {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type fakeSales struct {
	mu    sync.Mutex
	next  int64
	sales map[uuid.UUID]model.Sale
	err   error
}

func newFakeSales() *fakeSales {
	return &fakeSales{sales: map[uuid.UUID]model.Sale{}}
}

func (f *fakeSales) Create(_ context.Context, sale *model.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if sale.ID == uuid.Nil {
		sale.ID = model.NewID()
	}
	f.next++
	sale.Number = f.next
	f.sales[sale.ID] = *sale
	return nil
}

func (f *fakeSales) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sales[id]
	if !ok {
		return nil, apperror.NewNotFound("sale", id)
	}
	return &s, nil
}

func (f *fakeSales) FindAll(_ context.Context, filter model.SaleFilter) ([]model.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Sale
	for _, s := range f.sales {
		if !filter.Period.Contains(s.Date) {
			continue
		}
		if filter.PaymentMethod != "" && s.PaymentMethod != filter.PaymentMethod {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeSales) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sales)
}

type fakeCustomers struct {
	mu        sync.Mutex
	customers map[uuid.UUID]model.Customer
}

func newFakeCustomers(cs ...model.Customer) *fakeCustomers {
	f := &fakeCustomers{customers: map[uuid.UUID]model.Customer{}}
	for _, c := range cs {
		f.customers[c.ID] = c
	}
	return f
}

func (f *fakeCustomers) Create(_ context.Context, c *model.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = model.NewID()
	}
	f.customers[c.ID] = *c
	return nil
}

func (f *fakeCustomers) Update(_ context.Context, c *model.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.customers[c.ID]; !ok {
		return apperror.NewNotFound("customer", c.ID)
	}
	f.customers[c.ID] = *c
	return nil
}

func (f *fakeCustomers) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok {
		return nil, apperror.NewNotFound("customer", id)
	}
	return &c, nil
}

func (f *fakeCustomers) FindAll(_ context.Context, search string) ([]model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Customer
	for _, c := range f.customers {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeBudgets struct {
	mu      sync.Mutex
	next    int64
	budgets map[uuid.UUID]model.Budget
}

func newFakeBudgets() *fakeBudgets {
	return &fakeBudgets{budgets: map[uuid.UUID]model.Budget{}}
}

func (f *fakeBudgets) Create(_ context.Context, b *model.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = model.NewID()
	}
	f.next++
	b.Number = f.next
	f.budgets[b.ID] = *b
	return nil
}

func (f *fakeBudgets) FindByID(_ context.Context, id uuid.UUID) (*model.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.budgets[id]
	if !ok {
		return nil, apperror.NewNotFound("budget", id)
	}
	return &b, nil
}

func (f *fakeBudgets) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBudgets) FindAll(_ context.Context, filter model.BudgetFilter) ([]model.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Budget
	for _, b := range f.budgets {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBudgets) UpdateStatus(_ context.Context, id uuid.UUID, status model.BudgetStatus, saleID *uuid.UUID, updatedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.budgets[id]
	if !ok {
		return apperror.NewNotFound("budget", id)
	}
	b.Status = status
	if saleID != nil {
		b.SaleID = saleID
	}
	b.UpdatedBy = updatedBy
	f.budgets[id] = b
	return nil
}

func (f *fakeBudgets) status(id uuid.UUID) model.BudgetStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.budgets[id].Status
}

type fakeWithdrawals struct {
	items []model.Withdrawal
}

func (f *fakeWithdrawals) Create(_ context.Context, w *model.Withdrawal) error {
	if w.ID == uuid.Nil {
		w.ID = model.NewID()
	}
	f.items = append(f.items, *w)
	return nil
}

func (f *fakeWithdrawals) FindAll(_ context.Context, period model.DateRange) ([]model.Withdrawal, error) {
	var out []model.Withdrawal
	for _, w := range f.items {
		if period.Contains(w.Date) {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeProductions struct {
	items []model.Production
	err   error
}

func (f *fakeProductions) Create(_ context.Context, p *model.Production) error {
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, *p)
	return nil
}

func (f *fakeProductions) FindAll(_ context.Context, period model.DateRange) ([]model.Production, error) {
	var out []model.Production
	for _, p := range f.items {
		if period.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCompany struct {
	profile *model.CompanyProfile
}

func (f *fakeCompany) Get(context.Context) (*model.CompanyProfile, error) {
	return f.profile, nil
}

func (f *fakeCompany) Save(_ context.Context, p *model.CompanyProfile) error {
	p.ID = 1
	cp := *p
	f.profile = &cp
	return nil
}

type fakeReports struct {
	summary     repository.SalesSummaryRow
	monthly     []repository.MonthlySalesRow
	methods     []repository.PaymentMethodRow
	top         []repository.TopProductRow
	movement    []repository.StockMovementDay
	inventory   repository.InventoryStats
	withdrawals decimal.Decimal

	movementStart, movementEnd time.Time
	topLimit                   int
}

func (f *fakeReports) SalesSummary(context.Context, model.DateRange) (*repository.SalesSummaryRow, error) {
	row := f.summary
	return &row, nil
}

func (f *fakeReports) MonthlySales(context.Context, int) ([]repository.MonthlySalesRow, error) {
	return f.monthly, nil
}

func (f *fakeReports) PaymentMethods(context.Context, model.DateRange) ([]repository.PaymentMethodRow, error) {
	return f.methods, nil
}

func (f *fakeReports) TopProducts(_ context.Context, _ model.DateRange, limit int) ([]repository.TopProductRow, error) {
	f.topLimit = limit
	return f.top, nil
}

func (f *fakeReports) StockMovement(_ context.Context, start, end time.Time) ([]repository.StockMovementDay, error) {
	f.movementStart, f.movementEnd = start, end
	return f.movement, nil
}

func (f *fakeReports) InventoryStats(context.Context) (*repository.InventoryStats, error) {
	s := f.inventory
	return &s, nil
}

func (f *fakeReports) WithdrawalTotal(context.Context, model.DateRange) (decimal.Decimal, error) {
	return f.withdrawals, nil
}

type fakeUsers struct {
	users map[uuid.UUID]*model.User
}

func newFakeUsers(us ...*model.User) *fakeUsers {
	f := &fakeUsers{users: map[uuid.UUID]*model.User{}}
	for _, u := range us {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindAll(context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = model.NewID()
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *model.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uuid.UUID, hashed string) error {
	f.users[id].Password = hashed
	return nil
}

func (f *fakeUsers) UpdatePrivileges(_ context.Context, id uuid.UUID, privileges []model.Privilege) error {
	f.users[id].Privileges = privileges
	return nil
}

func (f *fakeUsers) UpdateTokenVersion(_ context.Context, id uuid.UUID, version string) error {
	f.users[id].TokenVersion = version
	return nil
}

func (f *fakeUsers) UpdateLastSeen(_ context.Context, id uuid.UUID) error {
	now := time.Now()
	f.users[id].LastSeenAt = &now
	return nil
}

type fakeRoles struct {
	roles map[uint]model.Role
}

func (f *fakeRoles) FindAll(context.Context) ([]model.Role, error) {
	var out []model.Role
	for _, r := range f.roles {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRoles) FindByID(_ context.Context, id uint) (*model.Role, error) {
	r, ok := f.roles[id]
	if !ok {
		return nil, apperror.NewNotFound("role", id)
	}
	return &r, nil
}

func (f *fakeRoles) FindByCode(_ context.Context, code string) (*model.Role, error) {
	for _, r := range f.roles {
		if r.Code == code {
			return &r, nil
		}
	}
	return nil, apperror.NewNotFound("role", code)
}

func (f *fakeRoles) SeedDefaults(context.Context) error { return nil }

type fakePrivileges struct {
	all []model.Privilege
}

func (f *fakePrivileges) FindByCodes(_ context.Context, codes []string) ([]model.Privilege, error) {
	var out []model.Privilege
	for _, p := range f.all {
		for _, c := range codes {
			if p.Code == c {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakePrivileges) FindAll(context.Context) ([]model.Privilege, error) { return f.all, nil }

func (f *fakePrivileges) SeedDefaults(context.Context) error { return nil }
