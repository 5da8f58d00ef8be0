package webui

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/events"
	"github.com/crmdesk/crmdesk/internal/export"
	"github.com/crmdesk/crmdesk/internal/repository"
)

// exportCustomers loads the same filtered and ordered set the list view shows
func (h *Handler) exportCustomers(c echo.Context) (repository.CustomerFilter, []*domain.Customer, error) {
	filter := customerFilter(c)
	customers, err := h.crm.ListCustomers(c.Request().Context(), filter)
	return filter, customers, err
}

func attachment(c echo.Context, contentType, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, contentType, body)
}

func (h *Handler) exportCSV(c echo.Context) error {
	filter, customers, err := h.exportCustomers(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, customers); err != nil {
		return err
	}
	h.audit(c, events.ActionExport, fmt.Sprintf("csv rows=%d", len(customers)))
	return attachment(c, export.ContentTypeCSV, export.Filename(filter, "csv"), buf.Bytes())
}

func (h *Handler) exportXLSX(c echo.Context) error {
	filter, customers, err := h.exportCustomers(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, customers); err != nil {
		return err
	}
	h.audit(c, events.ActionExport, fmt.Sprintf("xlsx rows=%d", len(customers)))
	return attachment(c, export.ContentTypeXLSX, export.Filename(filter, "xlsx"), buf.Bytes())
}

func (h *Handler) exportPDF(c echo.Context) error {
	filter, customers, err := h.exportCustomers(c)
	if err != nil {
		return err
	}
	doc := export.BuildDocument(customers, h.now())
	body, err := h.pdf.Render(c.Request().Context(), doc)
	if err != nil {
		zap.L().Error("pdf export failed", zap.Int("rows", len(doc.Rows)), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "PDF generation failed").SetInternal(err)
	}
	h.audit(c, events.ActionExport, fmt.Sprintf("pdf rows=%d", len(customers)))
	return attachment(c, export.ContentTypePDF, export.Filename(filter, "pdf"), body)
}
