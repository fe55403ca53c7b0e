package orders

import (
	"context"

	"github.com/tu-usuario/compras-pro/internal/domain/entity"
	"github.com/tu-usuario/compras-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la recepción de una orden
// (cambio de estado + stock + movimientos) sea todo o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.GeneratedOrderRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// OrderPDFGenerator produce la representación PDF de una orden de compra
// generada, para revisión o envío al proveedor.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.GeneratedOrder, company *entity.Company, provider *entity.Provider) ([]byte, error)
}
