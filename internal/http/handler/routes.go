package handler

import (
	"github.com/gofiber/fiber/v2"

	"hotelapi/internal/service"
)

// Deps are the collaborators routes are built from. DB and Reports may be nil.
type Deps struct {
	DB        Pinger
	Cleanings service.CleaningService
	Reports   service.ReportService
}

// RegisterRoutes attaches the API routes to app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	app.Post("/cleanings", ScheduleCleaning(d.Cleanings))
	app.Get("/cleanings", ListCleanings(d.Cleanings))
	app.Get("/employees/:id/cleanings", ListEmployeeCleanings(d.Cleanings))

	app.Get("/rooms/:number/cleaning", GetRoomCleaning(d.Cleanings))
	app.Delete("/rooms/:number/cleaning", RemoveRoomCleaning(d.Cleanings))
	app.Post("/rooms/:number/cleaning/start", StartCleaning(d.Cleanings))
	app.Post("/rooms/:number/cleaning/finish", FinishCleaning(d.Cleanings))

	if d.Reports != nil {
		app.Post("/reports/cleanings", ExportReport(d.Reports))
		app.Get("/reports/cleanings/:name", DownloadReport(d.Reports))
	}
}
