package quotation

import (
	"github.com/almashriq/backoffice/modules/quotation/infrastructure/persistence"
	"github.com/almashriq/backoffice/modules/quotation/presentation/controllers"
	"github.com/almashriq/backoffice/modules/quotation/services"
	"github.com/almashriq/backoffice/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewQuotationService(persistence.NewQuotationRepository()),
	)
	app.RegisterControllers(
		controllers.NewQuotationAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "quotation"
}
