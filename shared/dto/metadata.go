package dto

import (
	"cowork/shared/constant"
	"cowork/shared/model"
	"cowork/shared/timezone"
)

// Metadata is the creation and modification stamp shown on every resource.
// Instants are rendered as RFC 3339 in the application timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at"`
	ModifiedBy string `json:"modified_by"`
}

func (m *Metadata) FromModel(stamp model.Metadata) {
	*m = Metadata{
		CreatedAt:  timezone.Format(stamp.CreatedAt, constant.DateFormat),
		CreatedBy:  stamp.CreatedBy,
		ModifiedAt: timezone.Format(stamp.ModifiedAt, constant.DateFormat),
		ModifiedBy: stamp.ModifiedBy,
	}
}
