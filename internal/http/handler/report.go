package handler

import (
	"github.com/gofiber/fiber/v2"

	"hotelapi/internal/service"
)

// ExportReport snapshots the cleaning queue to object storage.
//
// @Summary  Export the cleaning queue as CSV
// @Tags     reports
// @Produce  json
// @Success  201 {object} service.Report
// @Failure  500 {object} errorPayload
// @Router   /reports/cleanings [post]
func ExportReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rep, err := svc.ExportQueue(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Location("/reports/cleanings/" + rep.Name)
		return c.Status(fiber.StatusCreated).JSON(rep)
	}
}

// DownloadReport streams a previously exported report.
//
// @Summary  Download an exported report
// @Tags     reports
// @Produce  text/csv
// @Param    name path string true "report name, e.g. cleanings-1700000000000.csv"
// @Success  200 {file} file
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /reports/cleanings/{name} [get]
func DownloadReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		rc, info, err := svc.Open(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Attachment(name)
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, int(info.Size))
	}
}
