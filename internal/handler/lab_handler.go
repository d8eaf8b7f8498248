package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/labsyncpro/labsync-api/internal/models"
	"github.com/labsyncpro/labsync-api/internal/service"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
	"github.com/labsyncpro/labsync-api/pkg/response"
)

// LabHandler exposes lab and workstation inventory endpoints.
type LabHandler struct {
	labs *service.LabService
}

// NewLabHandler constructs handler.
func NewLabHandler(labs *service.LabService) *LabHandler {
	return &LabHandler{labs: labs}
}

// List godoc
// @Summary List labs
// @Tags Labs
// @Produce json
// @Param available query bool false "Filter by availability"
// @Param search query string false "Search by name"
// @Success 200 {object} response.Envelope
// @Router /labs [get]
func (h *LabHandler) List(c *gin.Context) {
	filter := models.LabFilter{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid available flag"))
			return
		}
		filter.Available = &available
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	labs, total, err := h.labs.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, labs, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get a lab
// @Tags Labs
// @Produce json
// @Param id path string true "Lab ID"
// @Success 200 {object} response.Envelope
// @Router /labs/{id} [get]
func (h *LabHandler) Get(c *gin.Context) {
	lab, err := h.labs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lab, nil)
}

// Create godoc
// @Summary Register a lab
// @Tags Labs
// @Accept json
// @Produce json
// @Param payload body service.LabRequest true "Lab payload"
// @Success 201 {object} response.Envelope
// @Router /labs [post]
func (h *LabHandler) Create(c *gin.Context) {
	var req service.LabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lab, err := h.labs.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lab)
}

// Update godoc
// @Summary Update a lab
// @Tags Labs
// @Accept json
// @Produce json
// @Param id path string true "Lab ID"
// @Param payload body service.LabRequest true "Lab payload"
// @Success 200 {object} response.Envelope
// @Router /labs/{id} [put]
func (h *LabHandler) Update(c *gin.Context) {
	var req service.LabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lab, err := h.labs.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lab, nil)
}

// Delete godoc
// @Summary Delete a lab
// @Tags Labs
// @Param id path string true "Lab ID"
// @Success 204
// @Router /labs/{id} [delete]
func (h *LabHandler) Delete(c *gin.Context) {
	if err := h.labs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListComputers godoc
// @Summary List workstations in a lab
// @Tags Labs
// @Produce json
// @Param id path string true "Lab ID"
// @Success 200 {object} response.Envelope
// @Router /labs/{id}/computers [get]
func (h *LabHandler) ListComputers(c *gin.Context) {
	computers, err := h.labs.ListComputers(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, computers, nil)
}

// UpsertComputer godoc
// @Summary Create or update a workstation record
// @Tags Labs
// @Accept json
// @Produce json
// @Param id path string true "Lab ID"
// @Param payload body service.ComputerRequest true "Computer payload"
// @Success 200 {object} response.Envelope
// @Router /labs/{id}/computers [put]
func (h *LabHandler) UpsertComputer(c *gin.Context) {
	var req service.ComputerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	computer, err := h.labs.UpsertComputer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, computer, nil)
}
