package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/compras-pro/internal/application/replenishment"
	"github.com/tu-usuario/compras-pro/internal/domain"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
	"github.com/tu-usuario/compras-pro/internal/domain/repository"
)

var _ repository.GeneratedOrderRepository = (*GeneratedOrderRepo)(nil)
var _ replenishment.OrderStore = (*GeneratedOrderRepo)(nil)

// Beginner es un Querier que además puede abrir transacciones.
// *pgxpool.Pool y pgx.Tx (savepoint anidado) lo satisfacen.
type Beginner interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// GeneratedOrderRepo implementación del puerto GeneratedOrderRepository sobre
// PostgreSQL. También sirve el OrderStore del motor de reposición.
//
// La deduplicación vive en order_lines: cada línea lleva desnormalizados
// company_id, provider_id, product_id, generation_date y el flag is_open, con
//
//	CREATE UNIQUE INDEX order_lines_dedup
//	ON order_lines (company_id, provider_id, product_id, generation_date)
//	WHERE is_open;
//
// Una orden abierta (pending_review o sent) bloquea sus líneas para el resto
// de la ventana; cancelarla o completarla libera las claves.
type GeneratedOrderRepo struct {
	db Beginner
}

// NewGeneratedOrderRepository construye el adaptador de persistencia para órdenes.
func NewGeneratedOrderRepository(db Beginner) *GeneratedOrderRepo {
	return &GeneratedOrderRepo{db: db}
}

// Create inserta la orden y sus líneas en una sola transacción (todo o nada).
// Retorna domain.ErrDuplicate si alguna línea choca con el índice de deduplicación.
func (r *GeneratedOrderRepo) Create(ctx context.Context, order *entity.GeneratedOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO generated_orders (id, company_id, provider_id, status, total_estimate, requires_approval, notes, generation_date, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.CompanyID, order.ProviderID, order.Status, order.TotalEstimate,
		order.RequiresApproval, order.Notes, order.GenerationDate, order.SentAt, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert generated order: %w", err)
	}
	for _, line := range order.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (id, order_id, company_id, provider_id, product_id, qty, unit_price, product_name, product_code, generation_date, is_open)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			uuid.New().String(), order.ID, order.CompanyID, order.ProviderID, line.ProductID,
			line.Qty, line.UnitPrice, line.ProductName, line.ProductCode,
			order.GenerationDate, entity.IsOpen(order.Status),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una orden completa (cabecera + líneas) por ID.
func (r *GeneratedOrderRepo) GetByID(ctx context.Context, id string) (*entity.GeneratedOrder, error) {
	query := `
		SELECT id, company_id, provider_id, status, total_estimate, requires_approval, notes, generation_date, sent_at, created_at
		FROM generated_orders WHERE id = $1`
	var o entity.GeneratedOrder
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CompanyID, &o.ProviderID, &o.Status, &o.TotalEstimate,
		&o.RequiresApproval, &o.Notes, &o.GenerationDate, &o.SentAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get generated order: %w", err)
	}
	lines, err := r.linesByOrders(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[id]
	return &o, nil
}

// ListByCompany lista órdenes por empresa con filtros y paginación.
func (r *GeneratedOrderRepo) ListByCompany(ctx context.Context, companyID string, f repository.OrderFilter) ([]*entity.GeneratedOrder, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, company_id, provider_id, status, total_estimate, requires_approval, notes, generation_date, sent_at, created_at
		FROM generated_orders WHERE company_id = $1`)
	args := []any{companyID}
	if f.Status != "" {
		args = append(args, f.Status)
		sb.WriteString(" AND status = $" + strconv.Itoa(len(args)))
	}
	if f.ProviderID != "" {
		args = append(args, f.ProviderID)
		sb.WriteString(" AND provider_id = $" + strconv.Itoa(len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		sb.WriteString(" AND generation_date >= $" + strconv.Itoa(len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		sb.WriteString(" AND generation_date <= $" + strconv.Itoa(len(args)))
	}
	args = append(args, f.Limit, f.Offset)
	sb.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list generated orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.GeneratedOrder
	var ids []string
	for rows.Next() {
		var o entity.GeneratedOrder
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.ProviderID, &o.Status, &o.TotalEstimate,
			&o.RequiresApproval, &o.Notes, &o.GenerationDate, &o.SentAt, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generated order: %w", err)
		}
		list = append(list, &o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	lines, err := r.linesByOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		o.Lines = lines[o.ID]
	}
	return list, nil
}

// UpdateStatus cambia el estado de la orden y mantiene el flag is_open de sus
// líneas (el índice de deduplicación depende de él). sentAt solo se escribe al
// pasar a sent. Ambas tablas en una transacción.
func (r *GeneratedOrderRepo) UpdateStatus(ctx context.Context, id, status string, sentAt *time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmd, err := tx.Exec(ctx,
		`UPDATE generated_orders SET status = $2, sent_at = COALESCE($3, sent_at) WHERE id = $1`,
		id, status, sentAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	_, err = tx.Exec(ctx,
		`UPDATE order_lines SET is_open = $2 WHERE order_id = $1`,
		id, entity.IsOpen(status),
	)
	if err != nil {
		return fmt.Errorf("update order lines flag: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// OpenLineKeys devuelve las claves (proveedor, producto) ya cubiertas por
// órdenes abiertas en la fecha de generación.
func (r *GeneratedOrderRepo) OpenLineKeys(ctx context.Context, companyID string, date time.Time) (map[replenishment.LineKey]struct{}, error) {
	query := `
		SELECT provider_id, product_id FROM order_lines
		WHERE company_id = $1 AND generation_date = $2 AND is_open`
	rows, err := r.db.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("open line keys: %w", err)
	}
	defer rows.Close()
	keys := make(map[replenishment.LineKey]struct{})
	for rows.Next() {
		var k replenishment.LineKey
		if err := rows.Scan(&k.ProviderID, &k.ProductID); err != nil {
			return nil, fmt.Errorf("scan line key: %w", err)
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

func (r *GeneratedOrderRepo) linesByOrders(ctx context.Context, orderIDs []string) (map[string][]entity.OrderLine, error) {
	query := `
		SELECT order_id, product_id, qty, unit_price, product_name, product_code
		FROM order_lines WHERE order_id = ANY($1) ORDER BY product_id`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.OrderLine)
	for rows.Next() {
		var orderID string
		var l entity.OrderLine
		if err := rows.Scan(&orderID, &l.ProductID, &l.Qty, &l.UnitPrice, &l.ProductName, &l.ProductCode); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out[orderID] = append(out[orderID], l)
	}
	return out, rows.Err()
}
