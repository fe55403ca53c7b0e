package replenishment

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
)

// OrderAggregator consolida las líneas disparadas en un borrador de orden por
// proveedor, con el total estimado calculado en decimal exacto.
type OrderAggregator struct{}

// Aggregate agrupa por provider_id. Las líneas dentro de cada borrador van
// ordenadas por product_id ascendente y los borradores por provider_id, para
// resultados reproducibles. RequiresApproval del borrador es el OR de las
// reglas contribuyentes (fusión conservadora: las reglas son por producto,
// la aprobación termina siendo por orden).
func (OrderAggregator) Aggregate(companyID string, date time.Time, lines []TriggeredLine) []*entity.GeneratedOrder {
	byProvider := make(map[string][]TriggeredLine)
	for _, line := range lines {
		byProvider[line.ProviderID] = append(byProvider[line.ProviderID], line)
	}

	providers := make([]string, 0, len(byProvider))
	for id := range byProvider {
		providers = append(providers, id)
	}
	sort.Strings(providers)

	now := time.Now()
	drafts := make([]*entity.GeneratedOrder, 0, len(providers))
	for _, providerID := range providers {
		group := byProvider[providerID]
		sort.Slice(group, func(i, j int) bool { return group[i].ProductID < group[j].ProductID })

		orderLines := make([]entity.OrderLine, 0, len(group))
		requiresApproval := false
		for _, l := range group {
			orderLines = append(orderLines, entity.OrderLine{
				ProductID:   l.ProductID,
				Qty:         l.Qty,
				UnitPrice:   l.UnitPrice,
				ProductName: l.ProductName,
				ProductCode: l.ProductCode,
			})
			requiresApproval = requiresApproval || l.RequiresApproval
		}

		drafts = append(drafts, &entity.GeneratedOrder{
			ID:               uuid.New().String(),
			CompanyID:        companyID,
			ProviderID:       providerID,
			Status:           entity.OrderStatusPendingReview,
			Lines:            orderLines,
			TotalEstimate:    entity.ComputeTotal(orderLines),
			RequiresApproval: requiresApproval,
			Notes:            "generada por reposición automática",
			GenerationDate:   date,
			CreatedAt:        now,
		})
	}
	return drafts
}
