package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/amirphl/panel-registry/app/dto"
	"github.com/amirphl/panel-registry/app/middleware"
	businessflow "github.com/amirphl/panel-registry/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ResourceHandlerInterface defines the CRUD endpoints served for each resource type
type ResourceHandlerInterface interface {
	List(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Export(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// ResourceHandler serves one resource type through its flow
type ResourceHandler[C, U, R any] struct {
	flow           businessflow.ResourceFlow[C, U, R]
	validator      *validator.Validate
	requestTimeout time.Duration
}

// NewResourceHandler creates a handler for the resource type served by flow
func NewResourceHandler[C, U, R any](flow businessflow.ResourceFlow[C, U, R], requestTimeout time.Duration) ResourceHandlerInterface {
	return &ResourceHandler[C, U, R]{
		flow:           flow,
		validator:      validator.New(),
		requestTimeout: requestTimeout,
	}
}

func (h *ResourceHandler[C, U, R]) endpoint(suffix string) string {
	return "/api/v1/" + h.flow.Kind().Name + suffix
}

// List returns every record of the resource type
// @Summary List records
// @Tags Resources
// @Produce json
// @Success 200 {object} dto.APIResponse "Records retrieved"
// @Failure 404 {object} dto.APIResponse "No records exist"
// @Router /api/v1/{resource} [get]
func (h *ResourceHandler[C, U, R]) List(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, h.endpoint(""), h.requestTimeout)
	defer cancel()

	items, err := h.flow.List(ctx)
	if err != nil {
		return h.handleFlowError(c, err, "LIST_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, fmt.Sprintf("%d %s retrieved", len(items), h.flow.Kind().Plural), items)
}

// Create registers a new record
// @Summary Create record
// @Tags Resources
// @Accept json
// @Produce json
// @Success 201 {object} dto.APIResponse "Record created"
// @Failure 400 {object} dto.APIResponse "Malformed body"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Failure 422 {object} dto.APIResponse "Validation failed"
// @Router /api/v1/{resource} [post]
func (h *ResourceHandler[C, U, R]) Create(c fiber.Ctx) error {
	var req C
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := createRequestContext(c, h.endpoint(""), h.requestTimeout)
	defer cancel()

	created, err := h.flow.Create(ctx, &req, clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "CREATE_FAILED")
	}

	middleware.RecordEvent(h.flow.Kind().Name, middleware.OperationCreate)
	return SuccessResponse(c, fiber.StatusCreated, h.flow.Kind().Label+" created successfully", created)
}

// Export downloads every record as an xlsx workbook
// @Summary Export records
// @Tags Resources
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "Workbook"
// @Failure 404 {object} dto.APIResponse "No records exist"
// @Router /api/v1/{resource}/export [get]
func (h *ResourceHandler[C, U, R]) Export(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, h.endpoint("/export"), h.requestTimeout)
	defer cancel()

	content, err := h.flow.Export(ctx)
	if err != nil {
		return h.handleFlowError(c, err, "EXPORT_FAILED")
	}

	c.Set(fiber.HeaderContentType, businessflow.ExportContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", businessflow.ExportFilename(h.flow.Kind())))
	return c.Status(fiber.StatusOK).Send(content)
}

// Get returns one record
// @Summary Get record
// @Tags Resources
// @Produce json
// @Param id path int true "Record id"
// @Success 200 {object} dto.APIResponse "Record retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid id"
// @Failure 404 {object} dto.APIResponse "Record not found"
// @Router /api/v1/{resource}/{id} [get]
func (h *ResourceHandler[C, U, R]) Get(c fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_ID", nil)
	}

	ctx, cancel := createRequestContext(c, h.endpoint("/"+c.Params("id")), h.requestTimeout)
	defer cancel()

	record, err := h.flow.Get(ctx, id)
	if err != nil {
		return h.handleFlowError(c, err, "GET_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, h.flow.Kind().Label+" retrieved successfully", record)
}

// Update changes the submitted fields of a record
// @Summary Update record
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path int true "Record id"
// @Success 200 {object} dto.APIResponse "Record updated"
// @Failure 400 {object} dto.APIResponse "Invalid id or nothing changed"
// @Failure 404 {object} dto.APIResponse "Record not found"
// @Failure 422 {object} dto.APIResponse "Validation failed"
// @Router /api/v1/{resource}/{id} [put]
func (h *ResourceHandler[C, U, R]) Update(c fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_ID", nil)
	}

	var req U
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := createRequestContext(c, h.endpoint("/"+c.Params("id")), h.requestTimeout)
	defer cancel()

	updated, err := h.flow.Update(ctx, id, &req, clientMetadata(c))
	if err != nil {
		return h.handleFlowError(c, err, "UPDATE_FAILED")
	}

	middleware.RecordEvent(h.flow.Kind().Name, middleware.OperationUpdate)
	return SuccessResponse(c, fiber.StatusOK, h.flow.Kind().Label+" updated successfully", updated)
}

// Delete removes a record
// @Summary Delete record
// @Tags Resources
// @Produce json
// @Param id path int true "Record id"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteResponse} "Record deleted"
// @Failure 400 {object} dto.APIResponse "Invalid id"
// @Failure 404 {object} dto.APIResponse "Record not found"
// @Router /api/v1/{resource}/{id} [delete]
func (h *ResourceHandler[C, U, R]) Delete(c fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_ID", nil)
	}

	ctx, cancel := createRequestContext(c, h.endpoint("/"+c.Params("id")), h.requestTimeout)
	defer cancel()

	if err := h.flow.Delete(ctx, id, clientMetadata(c)); err != nil {
		return h.handleFlowError(c, err, "DELETE_FAILED")
	}

	middleware.RecordEvent(h.flow.Kind().Name, middleware.OperationDelete)
	return SuccessResponse(c, fiber.StatusOK, h.flow.Kind().DeletedMessage(id), dto.DeleteResponse{ID: id})
}

func (h *ResourceHandler[C, U, R]) handleFlowError(c fiber.Ctx, err error, fallbackCode string) error {
	code := businessErrorCode(err, fallbackCode)
	message := businessflow.MessageOf(err, "Internal server error")

	switch {
	case businessflow.IsRecordNotFound(err), businessflow.IsNoRecords(err):
		return ErrorResponse(c, fiber.StatusNotFound, message, code, nil)
	case businessflow.IsDuplicateEmail(err):
		return ErrorResponse(c, fiber.StatusConflict, message, code, nil)
	case businessflow.IsUpdateFailed(err):
		return ErrorResponse(c, fiber.StatusBadRequest, message, code, nil)
	case businessflow.IsInvalidRecord(err):
		return ErrorResponse(c, fiber.StatusUnprocessableEntity, message, code, nil)
	case businessflow.IsStoreUnavailable(err):
		log.Printf("%s request failed: %v", h.flow.Kind().Name, err)
		return ErrorResponse(c, fiber.StatusServiceUnavailable, message, code, nil)
	default:
		log.Printf("%s request failed: %v", h.flow.Kind().Name, err)
		return ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
	}
}
