package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/setlist-live/setlist/internal/core/ports"
)

// ArtistHandler handles HTTP requests for artist profiles.
type ArtistHandler struct {
	artistService ports.ArtistService
}

func NewArtistHandler(artistService ports.ArtistService) *ArtistHandler {
	return &ArtistHandler{artistService: artistService}
}

// Get handles GET /v1/artists/:username.
//
// @Summary      Get an artist by username
// @Tags         artists
// @Produce      json
// @Param        username  path      string  true  "Artist username"
// @Success      200       {object}  artistResponse
// @Failure      404       {object}  errorResponse
// @Router       /artists/{username} [get]
func (h *ArtistHandler) Get(c echo.Context) error {
	view, err := h.artistService.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artistResponse{
		User:    toUserResponse(view.User),
		Profile: toArtistProfileResponse(view.Profile),
	})
}

// UpdateOwn handles PUT /v1/artists/me — artists editing their own profile.
//
// @Summary      Update own artist profile
// @Tags         artists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateArtistProfileRequest  true  "Changed fields only"
// @Success      200   {object}  artistProfileResponse
// @Failure      403   {object}  errorResponse
// @Router       /artists/me [put]
func (h *ArtistHandler) UpdateOwn(c echo.Context) error {
	callerID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateArtistProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	profile, err := h.artistService.UpdateOwn(c.Request().Context(), callerID, role, ports.UpdateArtistFields{
		Bio:         req.Bio,
		Genres:      req.Genres,
		Instruments: req.Instruments,
		Location:    req.Location,
		Website:     req.Website,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArtistProfileResponse(profile))
}

// List handles GET /v1/artists — public artist browsing.
//
// @Summary      List artists
// @Tags         artists
// @Produce      json
// @Param        genre     query     string  false  "Filter by genre"
// @Param        location  query     string  false  "Filter by location"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  map[string]interface{}
// @Router       /artists [get]
func (h *ArtistHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.artistService.List(c.Request().Context(), ports.ListArtistsFilter{
		Genre:    c.QueryParam("genre"),
		Location: c.QueryParam("location"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	items := make([]artistResponse, 0, len(result.Items))
	for _, v := range result.Items {
		items = append(items, artistResponse{
			User:    toUserResponse(v.User),
			Profile: toArtistProfileResponse(v.Profile),
		})
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
