package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/places-sync/internal/service"
)

// AdminUploadHandler handles CSV seeding for administrators.
type AdminUploadHandler struct {
	placesService *service.PlacesService
}

// NewAdminUploadHandler wires a handler backed by the places service.
func NewAdminUploadHandler(placesService *service.PlacesService) *AdminUploadHandler {
	return &AdminUploadHandler{placesService: placesService}
}

// UploadCSV handles POST /admin/places/upload-csv requests. Rows become pending places.
func (h *AdminUploadHandler) UploadCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing csv file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	summary, err := h.placesService.ImportPlacesCSV(c.Request().Context(), file)
	if err != nil {
		var validationErr service.CSVValidationError
		if errors.As(err, &validationErr) {
			return Error(c, http.StatusBadRequest, validationErr.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to process csv")
	}

	return Success(c, http.StatusOK, "places CSV processed", summary)
}
