package handlers

import (
	"github.com/jmoiron/sqlx"

	"shopkart/internal/payment"
	"shopkart/internal/repos"
	"shopkart/internal/services"
)

type Deps struct {
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	CheckoutHandler *CheckoutHandler
	AuthHandler     *AuthHandler
	Auth            *services.AuthService
}

func NewDeps(db *sqlx.DB, gw payment.Gateway) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	querySvc := services.NewQueryService(prodRepo, catRepo)
	checkoutSvc := services.NewCheckoutService(gw, orderRepo, prodRepo)
	authSvc := &services.AuthService{Users: userRepo}

	return &Deps{
		ProductHandler:  &ProductHandler{Query: querySvc, Catalog: catalogSvc},
		CategoryHandler: &CategoryHandler{Query: querySvc, Catalog: catalogSvc},
		CheckoutHandler: &CheckoutHandler{Checkout: checkoutSvc},
		AuthHandler:     &AuthHandler{Auth: authSvc},
		Auth:            authSvc,
	}
}
