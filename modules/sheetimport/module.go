package sheetimport

import (
	"github.com/sirupsen/logrus"

	catalogpersistence "github.com/almashriq/backoffice/modules/catalog/infrastructure/persistence"
	quotationpersistence "github.com/almashriq/backoffice/modules/quotation/infrastructure/persistence"
	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
	"github.com/almashriq/backoffice/modules/sheetimport/infrastructure/scoring"
	"github.com/almashriq/backoffice/modules/sheetimport/presentation/controllers"
	"github.com/almashriq/backoffice/modules/sheetimport/services"
	"github.com/almashriq/backoffice/pkg/application"
	"github.com/almashriq/backoffice/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	store := services.NewSessionStore(conf.Import.SessionTTL)
	importService := services.NewImportService(services.ImportServiceOptions{
		Items:      catalogpersistence.NewItemRepository(),
		Quotations: quotationpersistence.NewQuotationRepository(),
		Scorer:     scoring.FromConfig(conf),
		Store:      store,
		Publisher:  app.EventPublisher(),
		Logger:     app.Logger(),
		Transform: importing.TransformConfig{
			PlaceholderClient: conf.Import.PlaceholderClient,
		},
		Reconcile: importing.ReconcilerConfig{
			DuplicateCutoff: conf.Import.DuplicateCutoff,
			AmbiguousCutoff: conf.Import.AmbiguousCutoff,
			MaxCandidates:   conf.Import.MaxCandidates,
		},
	})

	app.RegisterServices(
		importService,
		store,
	)

	app.RegisterControllers(
		controllers.NewImportAPIController(app),
	)

	// audit trail for committed imports
	log := app.Logger()
	app.EventPublisher().Subscribe(func(event *services.ImportCommittedEvent) error {
		log.WithFields(logrus.Fields{
			"session_id":   event.SessionID,
			"quotation_id": event.QuotationID,
			"inserted":     event.Inserted,
			"skipped":      event.Skipped,
		}).Info("import batch committed")
		return nil
	})

	return nil
}

func (m *Module) Name() string {
	return "sheetimport"
}
