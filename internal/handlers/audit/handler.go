package audit

import (
	"cowork/infras/otel"
	"cowork/internal/domains/audit/model"
	"cowork/internal/domains/audit/service"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Audit
	otel    otel.Otel
}

func New(service service.Audit, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/audits", handler.GetAudits)
}

// GetAudits lists the audit trail, newest first.
// @Summary Get audit records
// @Tags Audit
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param action query string false "Filter by action, e.g. booking.rejected"
// @Param actor query string false "Filter by actor id"
// @Success 200 {object} response.Data[dto.GetAuditsResponse] "Audit records"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/audits [get]
// @Security BearerAuth
func (handler *Handler) GetAudits(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAudits")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sortable(model.FieldCreatedAt, model.FieldAction, model.FieldActor)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldAction, model.FieldActor} {
		if value := r.URL.Query().Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	audits, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get audit records")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, audits)
}
