package workspace

import (
	"cowork/infras/otel"
	availabilityService "cowork/internal/domains/availability/service"
	bookingDto "cowork/internal/domains/booking/model/dto"
	"cowork/internal/domains/workspace/model"
	"cowork/internal/domains/workspace/model/dto"
	"cowork/internal/domains/workspace/service"
	"cowork/shared"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/timezone"
	"cowork/shared/validator"
	"cowork/transport/http/response"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service      service.Workspace
	availability availabilityService.Availability
	otel         otel.Otel
}

func New(service service.Workspace, availability availabilityService.Availability, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		availability: availability,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/workspaces", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateWorkspace)
		routerGroup.Get("/", handler.GetWorkspaces)
		routerGroup.Get("/available", handler.GetAvailable)
		routerGroup.Get("/available/now", handler.GetAvailableNow)
		routerGroup.Get("/{id}", handler.GetWorkspaceByID)
		routerGroup.Delete("/{id}", handler.DeleteWorkspace)
		routerGroup.Delete("/name/{name}", handler.DeleteWorkspaceByName)
	})
}

// CreateWorkspace handles the creation of a new workspace.
// @Summary Create a new workspace
// @Description Create a workspace with a unique name and an optional image.
// @Tags Workspace
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Workspace name"
// @Param image formData file false "Workspace image"
// @Success 201 {object} response.Data[dto.WorkspaceResponse] "Workspace created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/workspaces [post]
// @Security BearerAuth
func (handler *Handler) CreateWorkspace(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateWorkspace")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		err = failure.BadRequest(fmt.Errorf("invalid multipart form: %w", err))

		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateWorkspaceRequest{
		Name: request.FormValue(model.FieldName),
	}

	file, fileHeader, err := request.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create workspace")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Workspace created successfully by user " + shared.ActorFromContext(ctx))

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetWorkspaces lists the catalog.
// @Summary Get all workspaces
// @Tags Workspace
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Data[dto.GetWorkspacesResponse] "List of workspaces"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/workspaces [get]
func (handler *Handler) GetWorkspaces(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWorkspaces")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sortable(model.FieldName, constant.FieldCreatedAt)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldName),
				Table:    model.TableName,
			},
		},
	}

	workspaces, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get workspaces")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, workspaces)
}

// GetAvailable lists workspaces free for the whole of [start, end).
// @Summary Get available workspaces
// @Description Boundaries use yyyy-MM-ddTHH:mm:ss in the service timezone. A booking ending exactly at start does not block.
// @Tags Workspace
// @Produce json
// @Param start query string true "Interval start"
// @Param end query string true "Interval end"
// @Success 200 {object} response.Data[[]dto.WorkspaceResponse] "Available workspaces"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/workspaces/available [get]
func (handler *Handler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailable")
	defer scope.End()

	query := r.URL.Query()

	iv, err := bookingDto.ParseInterval(query.Get(constant.RequestParamStart), query.Get(constant.RequestParamEnd))
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid availability interval")

		response.WithError(w, err)

		return
	}

	workspaces, err := handler.availability.Available(ctx, iv)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available workspaces")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.FromModels(workspaces))
}

// GetAvailableNow lists workspaces with no booking active at the current instant.
// @Summary Get workspaces available now
// @Tags Workspace
// @Produce json
// @Success 200 {object} response.Data[[]dto.WorkspaceResponse] "Available workspaces"
// @Failure 500 {object} response.Error
// @Router /v1/workspaces/available/now [get]
func (handler *Handler) GetAvailableNow(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableNow")
	defer scope.End()

	workspaces, err := handler.availability.AvailableAt(ctx, timezone.Now())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get workspaces available now")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.FromModels(workspaces))
}

// GetWorkspaceByID retrieves a workspace by its ID.
// @Summary Get a workspace by ID
// @Tags Workspace
// @Produce json
// @Param id path string true "Workspace ID"
// @Success 200 {object} response.Data[dto.WorkspaceResponse] "Workspace details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/workspaces/{id} [get]
func (handler *Handler) GetWorkspaceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWorkspaceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id, service.ErrWorkspaceNotFound); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	workspace, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get workspace by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, workspace)
}

// DeleteWorkspace deletes a workspace and, through the cascade, its bookings.
// @Summary Delete a workspace by ID
// @Tags Workspace
// @Produce json
// @Param id path string true "Workspace ID"
// @Success 200 {object} response.Message "Workspace deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/workspaces/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteWorkspace")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id, service.ErrWorkspaceNotFound); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete workspace")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Workspace deleted successfully by user " + shared.ActorFromContext(ctx))

	response.WithMessage(w, http.StatusOK, "Workspace deleted successfully")
}

// DeleteWorkspaceByName deletes a workspace by its unique name.
// @Summary Delete a workspace by name
// @Tags Workspace
// @Produce json
// @Param name path string true "Workspace name"
// @Success 200 {object} response.Message "Workspace deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/workspaces/name/{name} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteWorkspaceByName(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteWorkspaceByName")
	defer scope.End()

	name := chi.URLParam(r, constant.RequestParamName)

	if err := handler.service.DeleteByName(ctx, name); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("name", name).Msg("failed to delete workspace")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Workspace deleted successfully")
}
