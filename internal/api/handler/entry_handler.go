package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forgeline/qc-system/internal/core/domain"
	"github.com/forgeline/qc-system/internal/core/ports"
	"github.com/forgeline/qc-system/internal/metrics"
)

// EntryHandler serves one entry-shaped department's route group. The same
// handler type is instantiated per department; the department is fixed at
// registration, never read from the request.
type EntryHandler struct {
	service ports.EntryService
	dept    domain.Department
}

func NewEntryHandler(service ports.EntryService, dept domain.Department) *EntryHandler {
	return &EntryHandler{service: service, dept: dept}
}

// Create handles POST /api/<department>.
//
// @Summary      Submit a test entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        body  body      createEntryRequest  true  "Test entry"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      403   {object}  envelope
// @Router       /api/{department} [post]
func (h *EntryHandler) Create(c echo.Context) error {
	var req createEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateEntryInput{
		Department:    h.dept,
		Date:          req.Date,
		PartName:      req.PartName,
		DateCode:      req.DateCode,
		Specification: req.Specification,
		Observed:      req.Observed,
		Result:        req.Result,
		Remarks:       req.Remarks,
		Shift:         req.Shift,
		Operator:      req.Operator,
	})
	if err != nil {
		return err
	}

	metrics.EntriesCreatedTotal.WithLabelValues(string(h.dept)).Inc()
	return c.JSON(http.StatusCreated, ok(created))
}

// Update handles PUT /api/<department>/:id. The body is a free-form field map
// checked against the entry allow-list by the service.
func (h *EntryHandler) Update(c echo.Context) error {
	fields := map[string]any{}
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	entry, err := h.service.Update(c.Request().Context(), h.dept, c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(entry))
}

// Delete handles DELETE /api/<department>/:id.
func (h *EntryHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), h.dept, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okMessage("entry deleted"))
}

// CurrentDate handles GET /api/<department>/current-date.
func (h *EntryHandler) CurrentDate(c echo.Context) error {
	bucket, err := h.service.CurrentDate(c.Request().Context(), h.dept)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(bucket))
}

// GetByDate handles GET /api/<department>/by-date?date=YYYY-MM-DD.
func (h *EntryHandler) GetByDate(c echo.Context) error {
	bucket, err := h.service.GetByDate(c.Request().Context(), h.dept, c.QueryParam("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okCount(bucket, len(bucket.Entries)))
}

// Filter handles GET /api/<department>/filter?startDate=&endDate= and returns
// the flattened entry list annotated with parent dates.
func (h *EntryHandler) Filter(c echo.Context) error {
	entries, err := h.service.Filter(c.Request().Context(), h.dept, ports.DateRangeInput{
		Start: c.QueryParam("startDate"),
		End:   c.QueryParam("endDate"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okCount(entries, len(entries)))
}

// Grouped handles GET /api/<department>/grouped?startDate=&endDate=.
func (h *EntryHandler) Grouped(c echo.Context) error {
	buckets, err := h.service.Grouped(c.Request().Context(), h.dept, ports.DateRangeInput{
		Start: c.QueryParam("startDate"),
		End:   c.QueryParam("endDate"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okCount(buckets, len(buckets)))
}
