package dto

import (
	"cowork/internal/domains/workspace/model"
	"cowork/shared"
	gDto "cowork/shared/dto"
	gModel "cowork/shared/model"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
)

type CreateWorkspaceRequest struct {
	Name      string                `json:"name"  validate:"required,min=3,max=30"`
	Image     *multipart.FileHeader `json:"image" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile multipart.File        `json:"-"`
}

func (c *CreateWorkspaceRequest) ToModel(actor, imageURL string, now time.Time) model.Workspace {
	return model.Workspace{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Image:    imageURL,
		Metadata: gModel.NewMetadata(actor, now),
	}
}

type WorkspaceResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	gDto.Metadata
}

func (r *WorkspaceResponse) FromModel(model model.Workspace) {
	r.ID = model.ID
	r.Name = model.Name
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}

type GetWorkspacesResponse struct {
	Workspaces []WorkspaceResponse `json:"workspaces"`
	TotalPage  int                 `json:"total_page"`
	TotalData  int                 `json:"total_data"`
}

func (r *GetWorkspacesResponse) FromModels(models []model.Workspace, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Workspaces = FromModels(models)
}

func FromModels(models []model.Workspace) []WorkspaceResponse {
	res := make([]WorkspaceResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
