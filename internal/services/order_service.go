package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"woolshop/internal/domain"
	"woolshop/internal/repos"
)

type OrderService struct {
	Orders   *repos.OrderRepo
	Products *repos.ProductRepo
}

func NewOrderService(orders *repos.OrderRepo, products *repos.ProductRepo) *OrderService {
	return &OrderService{Orders: orders, Products: products}
}

type OrderLine struct {
	ProductID string
	Quantity  int
}

type OrderInput struct {
	Items    []OrderLine
	Customer domain.Customer
	Note     string
}

// Create validates every referenced product in one batch lookup, computes
// the total from live catalog prices (the client cart is never trusted for
// pricing), and persists the order atomically with status "new". A single
// missing product fails the whole submission before anything is written.
func (s *OrderService) Create(in OrderInput) (domain.Order, error) {
	ids := make([]string, len(in.Items))
	for i, line := range in.Items {
		ids[i] = line.ProductID
	}
	products, err := s.Products.GetByIDs(ids)
	if err != nil {
		return domain.Order{}, err
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, len(in.Items))
	for i, line := range in.Items {
		p, ok := products[line.ProductID]
		if !ok {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrProductMissing, line.ProductID)
		}
		// Duplicate product ids stay separate lines; quantities are only
		// merged by the cart layer before submission.
		items[i] = domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     p.Price,
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	o := domain.Order{
		ID:          uuid.NewString(),
		Items:       items,
		Customer:    in.Customer,
		Note:        in.Note,
		Status:      domain.OrderStatusNew,
		TotalAmount: total,
	}
	if err := s.Orders.Create(o); err != nil {
		return domain.Order{}, err
	}
	// Re-read for timestamps and populated product details.
	return s.Get(o.ID)
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	o, err := s.Orders.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	return o, err
}

func (s *OrderService) List(status string, page, limit int) ([]domain.Order, *Pagination, error) {
	if status != "" && !domain.ValidOrderStatus(status) {
		return nil, nil, ErrBadStatus
	}
	page, limit = clampPage(page, limit, 20)

	total, err := s.Orders.Count(status)
	if err != nil {
		return nil, nil, err
	}
	orders, err := s.Orders.List(status, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}
	return orders, paginate(page, limit, total), nil
}

// UpdateStatus moves an order to any of the three known states; there is no
// transition workflow beyond vocabulary validation.
func (s *OrderService) UpdateStatus(id, status string) (domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, ErrBadStatus
	}
	n, err := s.Orders.UpdateStatus(id, status)
	if err != nil {
		return domain.Order{}, err
	}
	if n == 0 {
		return domain.Order{}, ErrNotFound
	}
	return s.Get(id)
}

func (s *OrderService) Stats() (repos.OrderStats, error) {
	return s.Orders.Stats()
}
