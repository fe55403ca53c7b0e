package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// Stock es el conteo actual en unidades; solo lo mutan los movimientos de
// inventario (ventas, ajustes, recepción de pedidos), nunca el motor de reposición.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Stock       int64           // unidades actuales, siempre >= 0
	Price       decimal.Decimal // precio unitario de compra estimado
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
