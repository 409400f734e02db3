// internal/platform/di/console/container.go
package console

import (
	"net/http"

	consolerouter "phonemall/internal/adapters/in/http/console"
	consoleHandler "phonemall/internal/adapters/in/http/console/handler"
	"phonemall/internal/application/usecase"
	shared "phonemall/internal/platform/di/shared"
)

// Container is the back-office DI container.
type Container struct {
	ProductUC  *usecase.ProductUsecase
	CategoryUC *usecase.CategoryUsecase
	BrandUC    *usecase.BrandUsecase
	OrderUC    *usecase.OrderUsecase
	UserUC     *usecase.UserUsecase
}

func NewContainer(repos *shared.Repos) *Container {
	var images usecase.ProductImageStore
	if repos.ImageStore != nil {
		images = repos.ImageStore
	}
	return &Container{
		ProductUC:  usecase.NewProductUsecase(repos.Products, images),
		CategoryUC: usecase.NewCategoryUsecase(repos.Categories),
		BrandUC:    usecase.NewBrandUsecase(repos.Brands),
		OrderUC:    usecase.NewOrderUsecase(repos.Orders),
		UserUC:     usecase.NewUserUsecase(repos.Users),
	}
}

func (c *Container) Router() http.Handler {
	return consolerouter.NewRouter(consolerouter.Deps{
		Admins:     c.UserUC,
		Products:   consoleHandler.NewProductHandler(c.ProductUC),
		Categories: consoleHandler.NewCategoryHandler(c.CategoryUC),
		Brands:     consoleHandler.NewBrandHandler(c.BrandUC),
		Orders:     consoleHandler.NewOrderHandler(c.OrderUC),
		Users:      consoleHandler.NewUserHandler(c.UserUC),
	})
}
