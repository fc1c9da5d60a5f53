package model

import "cowork/shared/model"

const (
	TableName  = "workspaces"
	EntityName = "workspace"

	FieldID    = "id"
	FieldName  = "name"
	FieldImage = "image"
)

type Workspace struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Image string `db:"image"`
	model.Metadata
}
