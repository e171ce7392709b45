package models

import "time"

// Change types for load plan revision diffs
const (
	ChangeTypeAdded    = "added"
	ChangeTypeModified = "modified"
	ChangeTypeDeleted  = "deleted"
)

// Item types. The comparator only emits 'awb' today; the rest are the
// taxonomy used by other report tooling.
const (
	ItemTypeAWB        = "awb"
	ItemTypeULDSection = "uld_section"
	ItemTypeSector     = "sector"
	ItemTypeComment    = "comment"
	ItemTypeHeader     = "header"
)

// FieldDelta holds the raw old and new values of one changed field.
// Raw values are stored as-is; normalization only decides whether a
// field counts as changed.
type FieldDelta struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// LoadPlanChange is one immutable audit record produced by comparing
// two revisions of a load plan. FieldChanges is populated only for
// 'modified' records and contains only fields whose normalized values
// differ. OriginalData/RevisedData keep the full snapshots for audit
// context.
type LoadPlanChange struct {
	ID              int                   `json:"id"`
	LoadPlanID      int                   `json:"load_plan_id"`
	Revision        int                   `json:"revision"`
	ChangeType      string                `json:"change_type"`
	ItemType        string                `json:"item_type"`
	OriginalItemID  *int                  `json:"original_item_id"`
	RevisedItemID   *int                  `json:"revised_item_id"`
	SerialNumber    string                `json:"serial_number"`
	ULDSectionIndex *int                  `json:"uld_section_index"`
	SectorIndex     *int                  `json:"sector_index"`
	FieldChanges    map[string]FieldDelta `json:"field_changes,omitempty"`
	OriginalData    *LoadPlanItem         `json:"original_data,omitempty"`
	RevisedData     *LoadPlanItem         `json:"revised_data,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// CompareRequest represents the request body for a revision comparison
type CompareRequest struct {
	OriginalRevision int `json:"original_revision"`
	RevisedRevision  int `json:"revised_revision"`
}
