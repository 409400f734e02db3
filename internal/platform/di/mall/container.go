// internal/platform/di/mall/container.go
package mall

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	mallrouter "phonemall/internal/adapters/in/http/mall"
	mallHandler "phonemall/internal/adapters/in/http/mall/handler"
	"phonemall/internal/adapters/out/mail"
	"phonemall/internal/application/cartstore"
	mallquery "phonemall/internal/application/query/mall"
	"phonemall/internal/application/usecase"
	shared "phonemall/internal/platform/di/shared"
)

// Container is the storefront DI container.
// Pure DI: build deps only.
type Container struct {
	Infra *shared.Infra
	Repos *shared.Repos

	Carts      *cartstore.Registry
	Catalog    *mallquery.CatalogQuery
	CheckoutUC *usecase.CheckoutUsecase
	OrderUC    *usecase.OrderUsecase
	UserUC     *usecase.UserUsecase
}

func NewContainer(inf *shared.Infra, repos *shared.Repos) *Container {
	cfg := inf.Config

	c := &Container{Infra: inf, Repos: repos}

	c.Carts = cartstore.NewRegistry(cartstore.RegistryConfig{
		Local:      inf.LocalCarts,
		Remote:     repos.Carts,
		Logger:     log.WithField("component", "cart_registry"),
		SessionTTL: cfg.CartSessionTTL,
	})

	c.Catalog = mallquery.NewCatalogQuery(repos.Products, repos.Brands, repos.Categories, repos.Images)

	var mailer usecase.OrderMailer
	if inf.Mail != nil {
		mailer = mail.NewOrderMailer(inf.Mail, cfg.MailFrom, "", cfg.MallBaseURL)
	}
	c.CheckoutUC = usecase.NewCheckoutUsecase(repos.Carts, repos.Products, repos.Orders, mailer)
	c.OrderUC = usecase.NewOrderUsecase(repos.Orders)
	c.UserUC = usecase.NewUserUsecase(repos.Users)

	return c
}

// RouterDeps builds the /mall handler set.
func (c *Container) RouterDeps() mallrouter.Deps {
	return mallrouter.Deps{
		Catalog: mallHandler.NewCatalogHandler(c.Catalog),
		Cart:    mallHandler.NewCartHandler(c.Carts, c.Repos.Products, c.Repos.Images),
		Me:      mallHandler.NewMeHandler(c.UserUC, c.CheckoutUC, c.OrderUC, c.Carts, c.Repos.Images),
	}
}

func (c *Container) Router() http.Handler {
	return mallrouter.NewRouter(c.RouterDeps())
}

// Run sweeps idle cart sessions until ctx is done.
func (c *Container) Run(ctx context.Context) {
	c.Carts.Run(ctx, cartstore.DefaultSweepInterval)
}

// Close flushes every open cart session.
func (c *Container) Close(ctx context.Context) error {
	return c.Carts.Close(ctx)
}
