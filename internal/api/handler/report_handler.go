package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forgeline/qc-system/internal/core/domain"
	"github.com/forgeline/qc-system/internal/core/ports"
	"github.com/forgeline/qc-system/internal/metrics"
)

// ReportHandler serves one section-shaped department's route group.
type ReportHandler struct {
	service ports.ReportService
	dept    domain.Department
}

func NewReportHandler(service ports.ReportService, dept domain.Department) *ReportHandler {
	return &ReportHandler{service: service, dept: dept}
}

// tableUpdateRequest is the (date, section, payload) triple of a merge.
type tableUpdateRequest struct {
	Date    string `json:"date"    validate:"required"`
	Section string `json:"section" validate:"required"`
	Payload any    `json:"payload" validate:"required"`
}

// TableUpdate handles POST /api/<department>/table-update — merges the
// payload into the named section of the date's bucket.
//
// @Summary      Merge a payload into a named section
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body      tableUpdateRequest  true  "Section merge"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /api/{department}/table-update [post]
func (h *ReportHandler) TableUpdate(c echo.Context) error {
	var req tableUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bucket, err := h.service.MergeSection(c.Request().Context(), ports.MergeSectionInput{
		Department: h.dept,
		Date:       req.Date,
		Section:    req.Section,
		Payload:    req.Payload,
	})
	if err != nil {
		return err
	}

	metrics.SectionMergesTotal.WithLabelValues(string(h.dept), req.Section).Inc()
	return c.JSON(http.StatusOK, ok(bucket))
}

// CurrentDate handles GET /api/<department>/current-date.
func (h *ReportHandler) CurrentDate(c echo.Context) error {
	bucket, err := h.service.CurrentDate(c.Request().Context(), h.dept)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(bucket))
}

// GetByDate handles GET /api/<department>/by-date?date=YYYY-MM-DD.
func (h *ReportHandler) GetByDate(c echo.Context) error {
	bucket, err := h.service.GetByDate(c.Request().Context(), h.dept, c.QueryParam("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(bucket))
}

// Range serves both GET /grouped and GET /filter; section buckets have no
// sub-array to flatten, so the two views coincide.
func (h *ReportHandler) Range(c echo.Context) error {
	buckets, err := h.service.Range(c.Request().Context(), h.dept, ports.DateRangeInput{
		Start: c.QueryParam("startDate"),
		End:   c.QueryParam("endDate"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okCount(buckets, len(buckets)))
}

// Delete handles DELETE /api/<department>/:id — removes a whole bucket.
// Registered behind the admin gate.
func (h *ReportHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteBucket(c.Request().Context(), h.dept, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okMessage("record deleted"))
}
