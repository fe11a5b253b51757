package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"woolshop/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"customer_name"`
	Phone       string          `db:"customer_phone"`
	Address     string          `db:"customer_address"`
	Note        string          `db:"note"`
	Status      string          `db:"status"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	CreatedAt   string          `db:"created_at"`
	UpdatedAt   string          `db:"updated_at"`
}

// itemRow carries a line item plus the live catalog projection; the product
// columns are NULL when the referenced product has been deleted since.
type itemRow struct {
	OrderID    string              `db:"order_id"`
	ProductID  string              `db:"product_id"`
	Qty        int                 `db:"qty"`
	Price      decimal.Decimal     `db:"price"`
	Name       *string             `db:"name"`
	Slug       *string             `db:"slug"`
	LivePrice  decimal.NullDecimal `db:"live_price"`
	ImagesJSON *string             `db:"images_json"`
}

const orderColumns = `
  id, customer_name, customer_phone, customer_address, note, status,
  total_amount, created_at, COALESCE(updated_at,'') AS updated_at`

// Create persists the order header and all line items in one transaction.
func (r *OrderRepo) Create(o domain.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders(id, customer_name, customer_phone, customer_address, note, status, total_amount)
	  VALUES(?,?,?,?,?,?,?)
	`, o.ID, o.Customer.Name, o.Customer.Phone, o.Customer.Address, o.Note, o.Status, o.TotalAmount); err != nil {
		return err
	}
	for i, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, line_no, product_id, qty, price)
		  VALUES(?,?,?,?,?)
		`, o.ID, i+1, it.ProductID, it.Quantity, it.Price); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var row orderRow
	if err := r.db.Get(&row, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id); err != nil {
		return domain.Order{}, err
	}
	o := row.toDomain()

	items, err := r.itemsFor([]string{id})
	if err != nil {
		return domain.Order{}, err
	}
	if its := items[id]; its != nil {
		o.Items = its
	}
	return o, nil
}

func (r *OrderRepo) List(status string, limit, offset int) ([]domain.Order, error) {
	where, args := `1=1`, []any{}
	if status != "" {
		where, args = `status = ?`, append(args, status)
	}
	args = append(args, limit, offset)

	var rows []orderRow
	err := r.db.Select(&rows, `
	  SELECT `+orderColumns+`
	  FROM orders
	  WHERE `+where+`
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []domain.Order{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	items, err := r.itemsFor(ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Order, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
		if its := items[row.ID]; its != nil {
			out[i].Items = its
		}
	}
	return out, nil
}

func (r *OrderRepo) Count(status string) (int, error) {
	var n int
	if status == "" {
		return n, r.db.Get(&n, `SELECT COUNT(*) FROM orders`)
	}
	return n, r.db.Get(&n, `SELECT COUNT(*) FROM orders WHERE status = ?`, status)
}

func (r *OrderRepo) UpdateStatus(id, status string) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type StatusCount struct {
	Status      string          `db:"status" json:"status"`
	Count       int             `db:"n" json:"count"`
	TotalAmount decimal.Decimal `db:"amount" json:"totalAmount"`
}

type OrderStats struct {
	TotalOrders     int             `json:"totalOrders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	StatusBreakdown []StatusCount   `json:"statusBreakdown"`
}

// Stats aggregates order counts and revenue; cancelled orders do not count
// toward revenue.
func (r *OrderRepo) Stats() (OrderStats, error) {
	var s OrderStats
	if err := r.db.Get(&s.TotalOrders, `SELECT COUNT(*) FROM orders`); err != nil {
		return s, err
	}
	if err := r.db.Get(&s.TotalRevenue, `
	  SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status != 'cancelled'
	`); err != nil {
		return s, err
	}
	s.StatusBreakdown = []StatusCount{}
	err := r.db.Select(&s.StatusBreakdown, `
	  SELECT status, COUNT(*) AS n, COALESCE(SUM(total_amount), 0) AS amount
	  FROM orders
	  GROUP BY status
	  ORDER BY status`)
	return s, err
}

func (r *OrderRepo) itemsFor(orderIDs []string) (map[string][]domain.OrderItem, error) {
	query, args, err := sqlx.In(`
	  SELECT oi.order_id, oi.product_id, oi.qty, oi.price,
	         p.name, p.slug, p.price AS live_price, p.images_json
	  FROM order_items oi
	  LEFT JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id IN (?)
	  ORDER BY oi.order_id, oi.line_no`, orderIDs)
	if err != nil {
		return nil, err
	}
	var rows []itemRow
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}

	out := make(map[string][]domain.OrderItem, len(orderIDs))
	for _, row := range rows {
		it := domain.OrderItem{ProductID: row.ProductID, Quantity: row.Qty, Price: row.Price}
		if row.Name != nil {
			p := &domain.OrderProduct{Name: *row.Name, Images: []string{}}
			if row.Slug != nil {
				p.Slug = *row.Slug
			}
			if row.LivePrice.Valid {
				p.Price = row.LivePrice.Decimal
			}
			if row.ImagesJSON != nil {
				_ = json.Unmarshal([]byte(*row.ImagesJSON), &p.Images)
			}
			it.Product = p
		}
		out[row.OrderID] = append(out[row.OrderID], it)
	}
	return out, nil
}

func (row orderRow) toDomain() domain.Order {
	return domain.Order{
		ID: row.ID,
		Customer: domain.Customer{
			Name:    row.Name,
			Phone:   row.Phone,
			Address: row.Address,
		},
		Note:        row.Note,
		Status:      row.Status,
		TotalAmount: row.TotalAmount,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Items:       []domain.OrderItem{},
	}
}
