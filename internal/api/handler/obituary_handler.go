package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/obituaryapp/obituary-api/internal/api/metrics"
	"github.com/obituaryapp/obituary-api/internal/core/domain"
	"github.com/obituaryapp/obituary-api/internal/core/ports"
)

// ObituaryHandler handles HTTP requests for obituary records.
type ObituaryHandler struct {
	service ports.ObituaryService
	photos  ports.PhotoStore
}

func NewObituaryHandler(service ports.ObituaryService, photos ports.PhotoStore) *ObituaryHandler {
	return &ObituaryHandler{service: service, photos: photos}
}

// List handles GET /api/obituaries.
//
// @Summary      List obituaries
// @Tags         obituaries
// @Produce      json
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        pageSize  query     int     false  "Records per page (max 100)"
// @Param        search    query     string  false  "Substring match on full name"
// @Success      200       {object}  listObituariesResponse
// @Failure      500       {object}  errorResponse
// @Router       /api/obituaries [get]
func (h *ObituaryHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	res, err := h.service.List(c.Request().Context(), ports.ListObituariesFilter{
		Search:   c.QueryParam("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return err
	}

	items := make([]obituaryResponse, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, toObituaryResponse(o))
	}

	return c.JSON(http.StatusOK, listObituariesResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	})
}

// Get handles GET /api/obituaries/:id.
//
// @Summary      Get an obituary by id
// @Tags         obituaries
// @Produce      json
// @Param        id   path      int  true  "Record id"
// @Success      200  {object}  obituaryResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/obituaries/{id} [get]
func (h *ObituaryHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "obituary not found")
	}

	o, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toObituaryResponse(o))
}

// Create handles POST /api/obituaries (multipart form).
//
// @Summary      Create an obituary
// @Tags         obituaries
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        FullName     formData  string  true   "Full name"
// @Param        DateOfBirth  formData  string  true   "Date of birth (YYYY-MM-DD)"
// @Param        DateOfDeath  formData  string  true   "Date of death (YYYY-MM-DD)"
// @Param        Biography    formData  string  true   "Biography"
// @Param        Photo        formData  file    false  "JPEG or PNG photo, max 5 MiB"
// @Success      201  {object}  obituaryResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/obituaries [post]
func (h *ObituaryHandler) Create(c echo.Context) error {
	requester, err := requesterFromContext(c)
	if err != nil {
		return err
	}

	var form createObituaryForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dob, err := parseDate(form.DateOfBirth)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid DateOfBirth")
	}
	dod, err := parseDate(form.DateOfDeath)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid DateOfDeath")
	}
	if dob.After(dod) {
		return echo.NewHTTPError(http.StatusBadRequest, domain.ErrInvalidDateRange.Error())
	}

	photoURL, err := h.savePhoto(c)
	if err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateObituaryInput{
		FullName:    form.FullName,
		DateOfBirth: dob,
		DateOfDeath: dod,
		Biography:   form.Biography,
		PhotoURL:    photoURL,
		CreatorID:   requester.ID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toObituaryResponse(created))
}

// savePhoto validates and persists the optional multipart photo, returning
// its public path. A missing file is not an error. The declared content type
// is never trusted; only the leading bytes decide the format.
func (h *ObituaryHandler) savePhoto(c echo.Context) (string, error) {
	fileHeader, err := c.FormFile("Photo")
	if err != nil {
		return "", nil // no photo supplied
	}

	if fileHeader.Size > MaxPhotoSize {
		metrics.UploadsRejectedTotal.WithLabelValues("too_large").Inc()
		return "", echo.NewHTTPError(http.StatusBadRequest, domain.ErrImageTooLarge.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid image file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxPhotoSize+1))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid image file")
	}
	if len(data) > MaxPhotoSize {
		metrics.UploadsRejectedTotal.WithLabelValues("too_large").Inc()
		return "", echo.NewHTTPError(http.StatusBadRequest, domain.ErrImageTooLarge.Error())
	}

	ext, ok := detectImageExt(data)
	if !ok {
		metrics.UploadsRejectedTotal.WithLabelValues("unsupported_format").Inc()
		return "", echo.NewHTTPError(http.StatusBadRequest, domain.ErrUnsupportedImage.Error())
	}

	return h.photos.Save(c.Request().Context(), data, ext)
}

// Update handles PUT /api/obituaries/:id (JSON body).
//
// @Summary      Update an obituary
// @Tags         obituaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                    true  "Record id"
// @Param        body  body  updateObituaryRequest  true  "Updated fields"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/obituaries/{id} [put]
func (h *ObituaryHandler) Update(c echo.Context) error {
	requester, err := requesterFromContext(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "obituary not found")
	}

	var req updateObituaryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date_of_birth")
	}
	dod, err := parseDate(req.DateOfDeath)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date_of_death")
	}

	if err := h.service.Update(c.Request().Context(), requester, ports.UpdateObituaryInput{
		ID:          id,
		FullName:    req.FullName,
		DateOfBirth: dob,
		DateOfDeath: dod,
		Biography:   req.Biography,
		PhotoURL:    req.PhotoURL,
	}); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/obituaries/:id.
//
// @Summary      Delete an obituary
// @Tags         obituaries
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Record id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/obituaries/{id} [delete]
func (h *ObituaryHandler) Delete(c echo.Context) error {
	requester, err := requesterFromContext(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "obituary not found")
	}

	if err := h.service.Delete(c.Request().Context(), requester, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
