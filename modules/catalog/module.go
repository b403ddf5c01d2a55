package catalog

import (
	"github.com/almashriq/backoffice/modules/catalog/infrastructure/persistence"
	"github.com/almashriq/backoffice/modules/catalog/presentation/controllers"
	"github.com/almashriq/backoffice/modules/catalog/services"
	"github.com/almashriq/backoffice/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewItemService(persistence.NewItemRepository()),
	)
	app.RegisterControllers(
		controllers.NewItemAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "catalog"
}
