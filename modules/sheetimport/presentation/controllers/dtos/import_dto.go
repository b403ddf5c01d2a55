package dtos

import (
	"github.com/go-playground/validator/v10"

	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
)

var validate = validator.New()

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details []string          `json:"details,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
}

type PreviewRequest struct {
	Mapping map[string]string `json:"mapping" validate:"required,min=1"`
}

func (d *PreviewRequest) Validate() error {
	return validate.Struct(d)
}

func (d *PreviewRequest) ToMapping() importing.Mapping {
	m := make(importing.Mapping, len(d.Mapping))
	for key, label := range d.Mapping {
		m[key] = label
	}
	return m
}

type ConfirmRequest struct {
	ApprovedRows []int `json:"approved_rows" validate:"dive,gt=0"`
}

func (d *ConfirmRequest) Validate() error {
	return validate.Struct(d)
}
