package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labsyncpro/labsync-api/internal/service"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
	"github.com/labsyncpro/labsync-api/pkg/response"
)

// ImportHandler exposes bulk import endpoints.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler constructs handler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Users godoc
// @Summary Bulk-import user accounts from CSV
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file with email,full_name,role,password columns"
// @Success 200 {object} response.Envelope
// @Router /import/users [post]
func (h *ImportHandler) Users(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	summary, err := h.imports.ImportUsers(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
