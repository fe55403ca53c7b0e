package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
	"github.com/tu-usuario/compras-pro/internal/domain"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
	"github.com/tu-usuario/compras-pro/internal/domain/repository"
)

// OrderUseCase ciclo de vida de las órdenes generadas aguas abajo del motor:
// listado, revisión, envío, cancelación y recepción. El motor nunca vuelve a
// tocar una orden ya creada; todas las transiciones pasan por aquí.
type OrderUseCase struct {
	repo     repository.GeneratedOrderRepository
	txRunner TxRunner
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(repo repository.GeneratedOrderRepository, txRunner TxRunner) *OrderUseCase {
	return &OrderUseCase{repo: repo, txRunner: txRunner}
}

// List lista órdenes con filtros de estado, proveedor y rango de fechas de generación.
func (uc *OrderUseCase) List(ctx context.Context, companyID string, in dto.ListOrdersRequest) ([]*dto.OrderResponse, error) {
	in.DefaultPage()
	filter := repository.OrderFilter{
		Status:     in.Status,
		ProviderID: in.ProviderID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.From != "" {
		from, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.To = &to
	}
	orders, err := uc.repo.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

// GetByID obtiene una orden validando pertenencia a la empresa.
func (uc *OrderUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.OrderResponse, error) {
	order, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// MarkSent transiciona pending_review → sent (tras el envío externo al proveedor).
func (uc *OrderUseCase) MarkSent(ctx context.Context, companyID, id string) (*dto.OrderResponse, error) {
	order, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(order.Status, entity.OrderStatusSent) {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	if err := uc.repo.UpdateStatus(ctx, id, entity.OrderStatusSent, &now); err != nil {
		return nil, err
	}
	order.Status = entity.OrderStatusSent
	order.SentAt = &now
	return toOrderResponse(order), nil
}

// Cancel transiciona pending_review → cancelled. Libera la clave de
// deduplicación: el mismo día puede regenerarse una orden para esas líneas.
func (uc *OrderUseCase) Cancel(ctx context.Context, companyID, id string) (*dto.OrderResponse, error) {
	order, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(order.Status, entity.OrderStatusCancelled) {
		return nil, domain.ErrInvalidTransition
	}
	err = uc.txRunner.Run(ctx, func(
		orderRepo repository.GeneratedOrderRepository,
		_ repository.ProductRepository,
		_ repository.StockMovementRepository,
	) error {
		return orderRepo.UpdateStatus(ctx, id, entity.OrderStatusCancelled, nil)
	})
	if err != nil {
		return nil, err
	}
	order.Status = entity.OrderStatusCancelled
	return toOrderResponse(order), nil
}

// Receive transiciona sent → completed y registra la entrada de mercancía:
// por cada línea suma el stock y crea un StockMovement tipo "in" con la orden
// como referencia. Todo en una sola transacción: una caída a mitad no deja
// stock sumado sin movimiento ni orden completada a medias.
func (uc *OrderUseCase) Receive(ctx context.Context, companyID, userID, id string) (*dto.OrderResponse, error) {
	order, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(order.Status, entity.OrderStatusCompleted) {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		orderRepo repository.GeneratedOrderRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		for _, line := range order.Lines {
			if err := productRepo.AdjustStock(ctx, line.ProductID, line.Qty); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ID:        uuid.New().String(),
				CompanyID: companyID,
				ProductID: line.ProductID,
				Type:      entity.MovementTypeIn,
				Quantity:  line.Qty,
				Reference: order.ID,
				Notes:     "recepción de orden de compra",
				CreatedAt: now,
				CreatedBy: userID,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		return orderRepo.UpdateStatus(ctx, id, entity.OrderStatusCompleted, nil)
	})
	if err != nil {
		return nil, err
	}
	order.Status = entity.OrderStatusCompleted
	return toOrderResponse(order), nil
}

func (uc *OrderUseCase) getOwned(ctx context.Context, companyID, id string) (*entity.GeneratedOrder, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func toOrderResponse(o *entity.GeneratedOrder) *dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ProductID:   l.ProductID,
			Qty:         l.Qty,
			UnitPrice:   l.UnitPrice,
			ProductName: l.ProductName,
			ProductCode: l.ProductCode,
		})
	}
	return &dto.OrderResponse{
		ID:               o.ID,
		CompanyID:        o.CompanyID,
		ProviderID:       o.ProviderID,
		Status:           o.Status,
		Lines:            lines,
		TotalEstimate:    o.TotalEstimate,
		RequiresApproval: o.RequiresApproval,
		Notes:            o.Notes,
		GenerationDate:   o.GenerationDate.Format("2006-01-02"),
		SentAt:           o.SentAt,
		CreatedAt:        o.CreatedAt,
	}
}
