package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/compras-pro/internal/domain/entity"
)

// OrderFilter filtros de listado de órdenes generadas.
type OrderFilter struct {
	Status     string
	ProviderID string
	From       *time.Time // sobre generation_date
	To         *time.Time
	Limit      int
	Offset     int
}

// GeneratedOrderRepository define el puerto de persistencia para GeneratedOrder (DIP).
// Create inserta orden y líneas en una sola transacción (todo o nada) y retorna
// domain.ErrDuplicate si choca contra el índice único de deduplicación
// (company_id, provider_id, product_id, generation_date) entre órdenes abiertas.
type GeneratedOrderRepository interface {
	Create(ctx context.Context, order *entity.GeneratedOrder) error
	GetByID(ctx context.Context, id string) (*entity.GeneratedOrder, error)
	ListByCompany(ctx context.Context, companyID string, f OrderFilter) ([]*entity.GeneratedOrder, error)
	// UpdateStatus cambia el estado y mantiene el flag de línea abierta usado por
	// el índice de deduplicación. sentAt solo se escribe al pasar a sent.
	UpdateStatus(ctx context.Context, id, status string, sentAt *time.Time) error
}
