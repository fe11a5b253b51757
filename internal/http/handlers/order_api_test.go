package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderBody(items []fiber.Map) fiber.Map {
	return fiber.Map{
		"items": items,
		"customer": fiber.Map{
			"name":    "Trần Thị Lan",
			"phone":   "0901 234 567",
			"address": "12 Hàng Gai, Hà Nội",
		},
		"note": "giao giờ hành chính",
	}
}

func TestOrderCreateAPI(t *testing.T) {
	app, db := newTestApp(t)
	p1 := productIDBySlug(t, db, "moc-khoa-gau-bong-mini")  // 45000
	p2 := productIDBySlug(t, db, "gau-bong-len-trung-binh") // 120000

	resp := doJSON(t, app, "POST", "/api/orders", orderBody([]fiber.Map{
		{"productId": p1, "quantity": 2},
		{"productId": p2, "quantity": 1},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	e := decode(t, resp)
	assert.True(t, e.Success)

	var order struct {
		ID          string  `json:"id"`
		Status      string  `json:"status"`
		TotalAmount float64 `json:"totalAmount"`
		Items       []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
			Product   *struct {
				Name string `json:"name"`
			} `json:"product"`
		} `json:"items"`
		Customer struct {
			Name string `json:"name"`
		} `json:"customer"`
	}
	dataInto(t, e, &order)
	assert.Equal(t, "new", order.Status)
	assert.Equal(t, float64(210000), order.TotalAmount)
	require.Len(t, order.Items, 2)
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "Móc khóa gấu bông mini", order.Items[0].Product.Name)
	assert.Equal(t, "Trần Thị Lan", order.Customer.Name)

	// The order is readable publicly by id.
	resp = doJSON(t, app, "GET", "/api/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOrderCreateAPI_ClientPriceIgnored(t *testing.T) {
	app, db := newTestApp(t)
	p1 := productIDBySlug(t, db, "moc-khoa-hoa-tulip") // 35000

	// A tampered cart sends its own price and total; both are ignored.
	body := orderBody([]fiber.Map{
		{"productId": p1, "quantity": 1, "price": 1},
	})
	body["totalAmount"] = 1

	resp := doJSON(t, app, "POST", "/api/orders", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order struct {
		TotalAmount float64 `json:"totalAmount"`
	}
	dataInto(t, decode(t, resp), &order)
	assert.Equal(t, float64(35000), order.TotalAmount)
}

func TestOrderCreateAPI_MissingProduct(t *testing.T) {
	app, db := newTestApp(t)
	p1 := productIDBySlug(t, db, "moc-khoa-hoa-tulip")

	resp := doJSON(t, app, "POST", "/api/orders", orderBody([]fiber.Map{
		{"productId": p1, "quantity": 1},
		{"productId": uuid.NewString(), "quantity": 1},
	}))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	e := decode(t, resp)
	assert.False(t, e.Success)
	assert.Contains(t, e.Message, "product does not exist")

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM orders`))
	assert.Zero(t, n, "no partial order may be written")
}

func TestOrderCreateAPI_Validation(t *testing.T) {
	app, db := newTestApp(t)
	p1 := productIDBySlug(t, db, "moc-khoa-hoa-tulip")

	// empty items
	resp := doJSON(t, app, "POST", "/api/orders", orderBody([]fiber.Map{}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// zero quantity
	resp = doJSON(t, app, "POST", "/api/orders", orderBody([]fiber.Map{
		{"productId": p1, "quantity": 0},
	}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// missing phone
	body := orderBody([]fiber.Map{{"productId": p1, "quantity": 1}})
	body["customer"] = fiber.Map{"name": "Lan"}
	resp = doJSON(t, app, "POST", "/api/orders", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrderStatusAPI(t *testing.T) {
	app, db := newTestApp(t)
	p1 := productIDBySlug(t, db, "moc-khoa-hoa-tulip")

	resp := doJSON(t, app, "POST", "/api/orders", orderBody([]fiber.Map{
		{"productId": p1, "quantity": 1},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order struct {
		ID string `json:"id"`
	}
	dataInto(t, decode(t, resp), &order)

	// Status change is an admin operation.
	resp = doJSON(t, app, "PATCH", "/api/orders/"+order.ID+"/status", fiber.Map{"status": "confirmed"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	admin := adminLogin(t, app)

	resp = doJSON(t, app, "PATCH", "/api/orders/"+order.ID+"/status", fiber.Map{"status": "shipped"}, admin...)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, decode(t, resp).Success)

	resp = doJSON(t, app, "PATCH", "/api/orders/"+order.ID+"/status", fiber.Map{"status": "confirmed"}, admin...)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		Status string `json:"status"`
	}
	dataInto(t, decode(t, resp), &updated)
	assert.Equal(t, "confirmed", updated.Status)

	// Admin listing with status filter and envelope pagination.
	resp = doJSON(t, app, "GET", "/api/orders?status=confirmed", nil, admin...)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	e := decode(t, resp)
	require.NotNil(t, e.Pagination)
	assert.Equal(t, 1, e.Pagination.Total)
	assert.Equal(t, 1, e.Pagination.Pages)

	// Stats route must not be swallowed by the :id route.
	resp = doJSON(t, app, "GET", "/api/orders/stats", nil, admin...)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		TotalOrders  int     `json:"totalOrders"`
		TotalRevenue float64 `json:"totalRevenue"`
	}
	dataInto(t, decode(t, resp), &stats)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, float64(35000), stats.TotalRevenue)
}
