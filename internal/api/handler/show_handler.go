package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/setlist-live/setlist/internal/api/metrics"
	"github.com/setlist-live/setlist/internal/core/domain"
	"github.com/setlist-live/setlist/internal/core/ports"
)

// ShowHandler handles HTTP requests for shows and venues.
type ShowHandler struct {
	showService ports.ShowService
}

func NewShowHandler(showService ports.ShowService) *ShowHandler {
	return &ShowHandler{showService: showService}
}

// CreateShow handles POST /v1/shows — promoters and admins only.
//
// @Summary      Create a show
// @Tags         shows
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createShowRequest  true  "Show details"
// @Success      201   {object}  showResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /shows [post]
func (h *ShowHandler) CreateShow(c echo.Context) error {
	callerID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createShowRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	show, err := h.showService.CreateShow(c.Request().Context(), ports.CreateShowInput{
		Title:       req.Title,
		Description: req.Description,
		VenueID:     req.VenueID,
		ArtistIDs:   req.ArtistIDs,
		StartsAt:    req.StartsAt,
		DoorPrice:   req.DoorPrice,
		Currency:    req.Currency,
		PromoterID:  callerID,
		Role:        role,
	})
	if err != nil {
		return err
	}

	metrics.ShowsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toShowResponse(show))
}

// GetShow handles GET /v1/shows/:id.
//
// @Summary      Get a show
// @Tags         shows
// @Produce      json
// @Param        id   path      string  true  "Show id"
// @Success      200  {object}  showResponse
// @Failure      404  {object}  errorResponse
// @Router       /shows/{id} [get]
func (h *ShowHandler) GetShow(c echo.Context) error {
	show, err := h.showService.GetShow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShowResponse(show))
}

// ListShows handles GET /v1/shows.
//
// @Summary      List shows
// @Tags         shows
// @Produce      json
// @Param        venue_id   query     string  false  "Filter by venue"
// @Param        status     query     string  false  "Filter by status"
// @Param        date_from  query     string  false  "RFC3339 lower bound on starts_at"
// @Param        date_to    query     string  false  "RFC3339 upper bound on starts_at"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  map[string]interface{}
// @Router       /shows [get]
func (h *ShowHandler) ListShows(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	filter := ports.ListShowsFilter{
		VenueID: c.QueryParam("venue_id"),
		Status:  domain.ShowStatus(c.QueryParam("status")),
		Page:    page,
		Limit:   limit,
	}
	if v := c.QueryParam("date_from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateFrom = t
		}
	}
	if v := c.QueryParam("date_to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateTo = t
		}
	}

	result, err := h.showService.ListShows(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := make([]showResponse, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, toShowResponse(s))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": items,
		"pagination": paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// UpdateShowStatus handles PUT /v1/shows/:id/status.
//
// @Summary      Update show status
// @Tags         shows
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Show id"
// @Param        body  body      updateShowStatusRequest  true  "New status"
// @Success      200   {object}  showResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /shows/{id}/status [put]
func (h *ShowHandler) UpdateShowStatus(c echo.Context) error {
	callerID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateShowStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	show, err := h.showService.UpdateShowStatus(c.Request().Context(), c.Param("id"), domain.ShowStatus(req.Status), callerID, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShowResponse(show))
}

// CreateVenue handles POST /v1/venues — venue owners and admins only.
//
// @Summary      Create a venue
// @Tags         venues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createVenueRequest  true  "Venue details"
// @Success      201   {object}  venueResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /venues [post]
func (h *ShowHandler) CreateVenue(c echo.Context) error {
	callerID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createVenueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	venue, err := h.showService.CreateVenue(c.Request().Context(), ports.CreateVenueInput{
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Capacity: req.Capacity,
		OwnerID:  callerID,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toVenueResponse(venue))
}

// GetVenue handles GET /v1/venues/:id.
//
// @Summary      Get a venue
// @Tags         venues
// @Produce      json
// @Param        id   path      string  true  "Venue id"
// @Success      200  {object}  venueResponse
// @Failure      404  {object}  errorResponse
// @Router       /venues/{id} [get]
func (h *ShowHandler) GetVenue(c echo.Context) error {
	venue, err := h.showService.GetVenue(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVenueResponse(venue))
}

// ListVenues handles GET /v1/venues.
//
// @Summary      List venues
// @Tags         venues
// @Produce      json
// @Param        city   query     string  false  "Filter by city"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  map[string]interface{}
// @Router       /venues [get]
func (h *ShowHandler) ListVenues(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	venues, total, err := h.showService.ListVenues(c.Request().Context(), c.QueryParam("city"), page, limit)
	if err != nil {
		return err
	}

	items := make([]venueResponse, 0, len(venues))
	for _, v := range venues {
		items = append(items, toVenueResponse(v))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  items,
		"total": total,
	})
}
