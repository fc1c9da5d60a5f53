package dto

import (
	"cowork/internal/domains/audit/model"
	"cowork/shared"
	"cowork/shared/constant"
	"cowork/shared/timezone"
)

type AuditResponse struct {
	ID        string `json:"id"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"`
}

func (r *AuditResponse) FromModel(model model.Audit) {
	r.ID = model.ID
	r.Actor = model.Actor
	r.Action = model.Action
	r.Detail = model.Detail
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetAuditsResponse struct {
	Audits    []AuditResponse `json:"audits"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetAuditsResponse) FromModels(models []model.Audit, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Audits = make([]AuditResponse, len(models))
	for i, mod := range models {
		r.Audits[i].FromModel(mod)
	}
}
