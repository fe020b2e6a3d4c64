package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	infraRepo "github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-ledger-api/pkg/pagination"
)

// stubTransactor runs fn inline; the fakes below are not transactional.
type stubTransactor struct{}

func (stubTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeFolioRepo struct {
	mu      sync.Mutex
	folios  map[uuid.UUID]entity.Folio
	charges []entity.FolioCharge
}

func newFakeFolioRepo() *fakeFolioRepo {
	return &fakeFolioRepo{folios: map[uuid.UUID]entity.Folio{}}
}

func (r *fakeFolioRepo) Create(_ context.Context, f *entity.Folio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.folios[f.ID] = *f
	return nil
}

func (r *fakeFolioRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Folio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folios[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *fakeFolioRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Folio, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeFolioRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Folio, error) {
	f, err := r.GetByID(ctx, id)
	if f == nil || err != nil {
		return f, err
	}
	f.Charges, _ = r.ListCharges(ctx, id)
	return f, nil
}

func (r *fakeFolioRepo) GetLatestByReservation(_ context.Context, reservationID uuid.UUID) (*entity.Folio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folios {
		if f.ReservationID != nil && *f.ReservationID == reservationID {
			return &f, nil
		}
	}
	return nil, nil
}

func (r *fakeFolioRepo) UpdateTotals(_ context.Context, f *entity.Folio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.folios[f.ID]
	stored.Subtotal, stored.Tax, stored.Total, stored.Balance = f.Subtotal, f.Tax, f.Total, f.Balance
	stored.Status, stored.ClosedAt = f.Status, f.ClosedAt
	r.folios[f.ID] = stored
	return nil
}

func (r *fakeFolioRepo) CreateCharge(_ context.Context, c *entity.FolioCharge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	r.charges = append(r.charges, *c)
	return nil
}

func (r *fakeFolioRepo) ListCharges(_ context.Context, folioID uuid.UUID) ([]entity.FolioCharge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.FolioCharge
	for _, c := range r.charges {
		if c.FolioID == folioID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeFolioRepo) ListUninvoicedCharges(ctx context.Context, folioID uuid.UUID) ([]entity.FolioCharge, error) {
	all, _ := r.ListCharges(ctx, folioID)
	var out []entity.FolioCharge
	for _, c := range all {
		if c.IsInvoiceable && c.InvoiceID == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeFolioRepo) MarkChargesInvoiced(_ context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.charges {
		for _, id := range ids {
			if r.charges[i].ID == id && r.charges[i].InvoiceID == nil {
				r.charges[i].InvoiceID = &invoiceID
				n++
			}
		}
	}
	return n, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []entity.Payment
	counters map[int]int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{counters: map[int]int64{}}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	r.payments = append(r.payments, *p)
	return nil
}

func (r *fakePaymentRepo) ListByFolio(_ context.Context, folioID uuid.UUID) ([]entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Payment
	for _, p := range r.payments {
		if p.FolioID == folioID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) SumByMethodBetween(_ context.Context, method enum.PaymentMethod, from, to time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.Method == method && !p.PaidAt.Before(from) && !p.PaidAt.After(to) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *fakePaymentRepo) NextReferenceSequence(_ context.Context, year int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[year]++
	return r.counters[year], nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) AtomicDecrementStock(_ context.Context, id uuid.UUID, qty decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[id]
	if p.Stock.LessThan(qty) {
		return false, nil
	}
	p.Stock = p.Stock.Sub(qty)
	return true, nil
}

type fakeTenantRepo struct {
	tenant *entity.Tenant
}

func (r *fakeTenantRepo) Create(_ context.Context, t *entity.Tenant) error { r.tenant = t; return nil }
func (r *fakeTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Tenant, error) {
	if r.tenant == nil || r.tenant.ID != id {
		return nil, nil
	}
	return r.tenant, nil
}
func (r *fakeTenantRepo) GetBySlug(_ context.Context, _ string) (*entity.Tenant, error) {
	return r.tenant, nil
}
func (r *fakeTenantRepo) Update(_ context.Context, t *entity.Tenant) error { r.tenant = t; return nil }
func (r *fakeTenantRepo) SlugExists(_ context.Context, _ string) (bool, error) {
	return r.tenant != nil, nil
}

type fakeReservationRepo struct {
	byCode map[string]*entity.Reservation
}

func (r *fakeReservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	r.byCode[res.Code] = res
	return nil
}
func (r *fakeReservationRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	for _, res := range r.byCode {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, nil
}
func (r *fakeReservationRepo) GetByCode(_ context.Context, code string) (*entity.Reservation, error) {
	return r.byCode[code], nil
}
func (r *fakeReservationRepo) AddToTotal(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	res, _ := r.GetByID(context.Background(), id)
	res.TotalAmount = res.TotalAmount.Add(amount)
	return nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]entity.CashierSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]entity.CashierSession{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.CashierSession) error {
	s.ID = uuid.New()
	r.sessions[s.ID] = *s
	return nil
}
func (r *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.CashierSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}
func (r *fakeSessionRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.CashierSession, error) {
	return r.GetByID(ctx, id)
}
func (r *fakeSessionRepo) GetOpen(_ context.Context) (*entity.CashierSession, error) {
	for _, s := range r.sessions {
		if s.IsOpen() {
			return &s, nil
		}
	}
	return nil, nil
}
func (r *fakeSessionRepo) Close(_ context.Context, s *entity.CashierSession) (bool, error) {
	cur, ok := r.sessions[s.ID]
	if !ok || !cur.IsOpen() {
		return false, nil
	}
	r.sessions[s.ID] = *s
	return true, nil
}
func (r *fakeSessionRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.CashierSession, int64, error) {
	var out []entity.CashierSession
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

// ledgerFixture wires the folio ledger over in-memory fakes for one tenant
type ledgerFixture struct {
	ctx          context.Context
	tenant       *entity.Tenant
	folios       *fakeFolioRepo
	payments     *fakePaymentRepo
	products     *fakeProductRepo
	reservations *fakeReservationRepo
	svc          *FolioService
}

func newLedgerFixture(rate string) *ledgerFixture {
	settings := entity.DefaultTenantSettings()
	settings.TaxRate = decimal.RequireFromString(rate)
	tenant := &entity.Tenant{ID: uuid.New(), Name: "Hotel Test", Slug: "hotel-test", Settings: settings}

	f := &ledgerFixture{
		ctx:          infraRepo.WithTenant(context.Background(), tenant.ID),
		tenant:       tenant,
		folios:       newFakeFolioRepo(),
		payments:     newFakePaymentRepo(),
		products:     &fakeProductRepo{products: map[uuid.UUID]*entity.Product{}},
		reservations: &fakeReservationRepo{byCode: map[string]*entity.Reservation{}},
	}
	f.svc = NewFolioService(stubTransactor{}, f.folios, f.payments, f.products, f.reservations,
		&fakeTenantRepo{tenant: tenant}, "PAY", nil, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC) }
	return f
}
