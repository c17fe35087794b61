package model

import (
	"time"

	"epicase/internal/epicase/history"
)

// RecordResp is the client view of a record. The edit log is served by the history
// endpoint and is left out here.
type RecordResp struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Fields    history.Fields `json:"fields"`
	IsDeleted bool           `json:"isDeleted"`
	DeletedAt *time.Time     `json:"deletedAt,omitempty"`
	DeletedBy string         `json:"deletedBy,omitempty"`
	CreatedBy string         `json:"createdBy"`
	UpdatedBy string         `json:"updatedBy"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Revision  int64          `json:"revision"`
	Versions  int            `json:"versions"`
}

func NewRecordResp(rec *Record) *RecordResp {
	fields := rec.Fields
	if fields == nil {
		fields = history.Fields{}
	}
	return &RecordResp{
		ID:        rec.ID.Hex(),
		Kind:      rec.Kind,
		Fields:    fields,
		IsDeleted: rec.IsDeleted,
		DeletedAt: rec.DeletedAt,
		DeletedBy: rec.DeletedBy,
		CreatedBy: rec.CreatedBy,
		UpdatedBy: rec.UpdatedBy,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Revision:  rec.Revision,
		Versions:  len(rec.History),
	}
}

type UpdateRecordResp struct {
	Record  *RecordResp    `json:"record"`
	Changes history.Fields `json:"changes"`
	Changed bool           `json:"changed"`
}

type ListRecordsResp struct {
	Data       []*RecordResp `json:"data"`
	Page       int           `json:"page"`
	Size       int           `json:"size"`
	TotalCount int64         `json:"total_count"`
}

type HistoryResp struct {
	TotalChanges int                     `json:"totalChanges"`
	Timeline     []history.TimelineEntry `json:"timeline"`
}

type CompareResp struct {
	Index    int                            `json:"index"`
	Action   history.Action                 `json:"action"`
	EditedAt time.Time                      `json:"editedAt"`
	EditedBy string                         `json:"editedBy"`
	Added    history.Fields                 `json:"added"`
	Modified map[string]history.FieldChange `json:"modified"`
	Removed  history.Fields                 `json:"removed"`
}
