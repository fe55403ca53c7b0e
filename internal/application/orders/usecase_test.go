package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
	"github.com/tu-usuario/compras-pro/internal/domain"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
	"github.com/tu-usuario/compras-pro/internal/domain/repository"
)

const testCompany = "co-1"

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	orders map[string]*entity.GeneratedOrder
}

func newFakeOrderRepo(orders ...*entity.GeneratedOrder) *fakeOrderRepo {
	m := make(map[string]*entity.GeneratedOrder)
	for _, o := range orders {
		m[o.ID] = o
	}
	return &fakeOrderRepo{orders: m}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *entity.GeneratedOrder) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.GeneratedOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ListByCompany(_ context.Context, companyID string, filter repository.OrderFilter) ([]*entity.GeneratedOrder, error) {
	var out []*entity.GeneratedOrder
	for _, o := range f.orders {
		if o.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.ProviderID != "" && o.ProviderID != filter.ProviderID {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id, status string, sentAt *time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	if sentAt != nil {
		o.SentAt = sentAt
	}
	return nil
}

type fakeProductRepo struct {
	stock map[string]int64
}

func (f *fakeProductRepo) Create(*entity.Product) error                    { return nil }
func (f *fakeProductRepo) GetByID(string) (*entity.Product, error)         { return nil, nil }
func (f *fakeProductRepo) GetByCompanyAndSKU(string, string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Update(*entity.Product) error { return nil }
func (f *fakeProductRepo) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Delete(string) error { return nil }

func (f *fakeProductRepo) AdjustStock(_ context.Context, productID string, delta int64) error {
	f.stock[productID] += delta
	return nil
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (f *fakeMovementRepo) Create(mov *entity.StockMovement) error {
	f.movements = append(f.movements, mov)
	return nil
}

func (f *fakeMovementRepo) ListByProduct(string, string, int, int) ([]*entity.StockMovement, error) {
	return f.movements, nil
}

// fakeTxRunner ejecuta el callback directo contra los fakes, sin transacción real.
type fakeTxRunner struct {
	orderRepo   *fakeOrderRepo
	productRepo *fakeProductRepo
	movRepo     *fakeMovementRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	orderRepo repository.GeneratedOrderRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return fn(f.orderRepo, f.productRepo, f.movRepo)
}

func pendingOrder(id string) *entity.GeneratedOrder {
	return &entity.GeneratedOrder{
		ID:         id,
		CompanyID:  testCompany,
		ProviderID: "prov-1",
		Status:     entity.OrderStatusPendingReview,
		Lines: []entity.OrderLine{
			{ProductID: "prod-1", Qty: 20, UnitPrice: decimal.NewFromInt(1000), ProductName: "Tornillo", ProductCode: "SKU-1"},
			{ProductID: "prod-2", Qty: 5, UnitPrice: decimal.NewFromInt(8000), ProductName: "Martillo", ProductCode: "SKU-2"},
		},
		TotalEstimate:  decimal.NewFromInt(60000),
		GenerationDate: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		CreatedAt:      time.Now(),
	}
}

func buildUseCase(orders ...*entity.GeneratedOrder) (*OrderUseCase, *fakeOrderRepo, *fakeProductRepo, *fakeMovementRepo) {
	orderRepo := newFakeOrderRepo(orders...)
	productRepo := &fakeProductRepo{stock: map[string]int64{"prod-1": 3, "prod-2": 0}}
	movRepo := &fakeMovementRepo{}
	tx := &fakeTxRunner{orderRepo: orderRepo, productRepo: productRepo, movRepo: movRepo}
	return NewOrderUseCase(orderRepo, tx), orderRepo, productRepo, movRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkSent_TransicionaYEstampaSentAt(t *testing.T) {
	uc, repo, _, _ := buildUseCase(pendingOrder("ord-1"))

	out, err := uc.MarkSent(context.Background(), testCompany, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusSent, out.Status)
	assert.NotNil(t, out.SentAt)
	assert.Equal(t, entity.OrderStatusSent, repo.orders["ord-1"].Status)
}

func TestCancel_SoloDesdePendingReview(t *testing.T) {
	order := pendingOrder("ord-1")
	order.Status = entity.OrderStatusSent
	uc, _, _, _ := buildUseCase(order)

	_, err := uc.Cancel(context.Background(), testCompany, "ord-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"una orden enviada no puede cancelarse")
}

func TestReceive_SumaStockYRegistraMovimientos(t *testing.T) {
	order := pendingOrder("ord-1")
	order.Status = entity.OrderStatusSent
	uc, repo, productRepo, movRepo := buildUseCase(order)

	out, err := uc.Receive(context.Background(), testCompany, "user-7", "ord-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, out.Status)
	assert.Equal(t, entity.OrderStatusCompleted, repo.orders["ord-1"].Status)

	// Stock sumado por línea: 3+20 y 0+5.
	assert.Equal(t, int64(23), productRepo.stock["prod-1"])
	assert.Equal(t, int64(5), productRepo.stock["prod-2"])

	// Un movimiento "in" por línea, referenciando la orden.
	require.Len(t, movRepo.movements, 2)
	for _, mov := range movRepo.movements {
		assert.Equal(t, entity.MovementTypeIn, mov.Type)
		assert.Equal(t, "ord-1", mov.Reference)
		assert.Equal(t, "user-7", mov.CreatedBy)
	}
}

func TestReceive_RechazaOrdenPendiente(t *testing.T) {
	uc, _, productRepo, _ := buildUseCase(pendingOrder("ord-1"))

	_, err := uc.Receive(context.Background(), testCompany, "user-7", "ord-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"solo una orden enviada puede recibirse")
	assert.Equal(t, int64(3), productRepo.stock["prod-1"], "el stock no debe cambiar")
}

func TestGetByID_OrdenDeOtraEmpresa(t *testing.T) {
	uc, _, _, _ := buildUseCase(pendingOrder("ord-1"))

	_, err := uc.GetByID(context.Background(), "otra-empresa", "ord-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_FechasInvalidas(t *testing.T) {
	uc, _, _, _ := buildUseCase()

	_, err := uc.List(context.Background(), testCompany, dto.ListOrdersRequest{From: "31-08-2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMarkSent_OrdenInexistente(t *testing.T) {
	uc, _, _, _ := buildUseCase()

	_, err := uc.MarkSent(context.Background(), testCompany, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
