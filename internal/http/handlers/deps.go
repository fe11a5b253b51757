package handlers

import (
	"github.com/jmoiron/sqlx"

	"woolshop/internal/config"
	"woolshop/internal/repos"
	"woolshop/internal/services"
)

type Deps struct {
	ProductHandler *ProductHandler
	OrderHandler   *OrderHandler
	ContactHandler *ContactHandler
	UploadHandler  *UploadHandler
	AuthHandler    *AuthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	productRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	contactRepo := repos.NewContactRepo(db)

	catalogSvc := services.NewCatalogService(productRepo)
	orderSvc := services.NewOrderService(orderRepo, productRepo)
	contactSvc := services.NewContactService(contactRepo)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc},
		ContactHandler: &ContactHandler{Contacts: contactSvc},
		UploadHandler:  &UploadHandler{Dir: cfg.UploadDir},
		AuthHandler:    &AuthHandler{Auth: auth},
	}
}
