package orders

import (
	"context"

	"github.com/tu-usuario/compras-pro/internal/domain"
	"github.com/tu-usuario/compras-pro/internal/domain/repository"
)

// PDFUseCase genera el PDF de una orden de compra para revisión o envío.
type PDFUseCase struct {
	orderRepo    repository.GeneratedOrderRepository
	companyRepo  repository.CompanyRepository
	providerRepo repository.ProviderRepository
	generator    OrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	orderRepo repository.GeneratedOrderRepository,
	companyRepo repository.CompanyRepository,
	providerRepo repository.ProviderRepository,
	generator OrderPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		orderRepo:    orderRepo,
		companyRepo:  companyRepo,
		providerRepo: providerRepo,
		generator:    generator,
	}
}

// GenerateOrderPDF arma el PDF de la orden validando pertenencia a la empresa.
func (uc *PDFUseCase) GenerateOrderPDF(ctx context.Context, companyID, orderID string) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	provider, err := uc.providerRepo.GetByID(order.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, domain.ErrNotFound
	}
	return uc.generator.GenerateOrderPDF(ctx, order, company, provider)
}
