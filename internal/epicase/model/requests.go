package model

import (
	"strconv"
	"strings"
)

// CreateRecordReq - Create a record of the kind given in the path
type CreateRecordReq struct {
	Fields map[string]any `json:"fields" validate:"required"`
}

func (r *CreateRecordReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// UpdateRecordReq - Proposed field values. Fields left out are untouched; a null
// value clears the field. An empty proposal is a valid no-op.
type UpdateRecordReq struct {
	Fields map[string]any `json:"fields"`
}

func (r *UpdateRecordReq) Validate() error {
	if r.Fields == nil {
		r.Fields = map[string]any{}
	}
	return nil
}

// ListRecordsReq - Paginated listing
type ListRecordsReq struct {
	IncludeDeleted bool `query:"include_deleted"`
	Page           int  `query:"page" validate:"omitempty,min=1"`
	Size           int  `query:"size" validate:"omitempty,min=1,max=100"`
}

func (r *ListRecordsReq) Validate() error {
	// Set default pagination
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = 20
	}
	if r.Size > 100 {
		r.Size = 100
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// Filter converts the request to a repository filter.
func (r *ListRecordsReq) Filter() RecordFilter {
	return RecordFilter{IncludeDeleted: r.IncludeDeleted, Page: r.Page, Size: r.Size}
}

// RestoreVersionReq - Restore the prior state captured by a history entry
type RestoreVersionReq struct {
	HistoryIndex *int `json:"historyIndex" validate:"required,min=0"`
}

func (r *RestoreVersionReq) Validate() error {
	if r.HistoryIndex == nil {
		return &ErrorDetail{Code: CodeBadRequest, Message: "historyIndex is required"}
	}
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// CompareVersionReq - Compare the current fields with a history entry
type CompareVersionReq struct {
	Index string `query:"index"`

	index int
}

func (r *CompareVersionReq) Validate() error {
	r.Index = strings.TrimSpace(r.Index)
	if r.Index == "" {
		return &ErrorDetail{Code: CodeBadRequest, Message: "index is required"}
	}
	n, err := strconv.Atoi(r.Index)
	if err != nil || n < 0 {
		return &ErrorDetail{Code: CodeBadRequest, Message: "index must be a non-negative integer"}
	}
	r.index = n
	return nil
}

// HistoryIndex returns the index parsed by Validate.
func (r *CompareVersionReq) HistoryIndex() int {
	return r.index
}
