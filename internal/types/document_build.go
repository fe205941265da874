package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Build statuses.
const (
	BuildPending  = "pending"
	BuildRunning  = "running"
	BuildComplete = "complete"
	BuildFailed   = "failed"
)

// DocumentBuild records one document construction run. Phase and DocumentID
// together make a failed build resumable: anything that died at or after
// the snapshot phase still has its empty table shapes in place and only
// needs cell population re-run.
type DocumentBuild struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Program    string            `gorm:"index;not null" json:"program"`
	DocType    string            `gorm:"index;not null" json:"docType"`
	Title      string            `gorm:"not null" json:"title"`
	FolderID   string            `json:"folderId,omitempty"`
	Status     string            `gorm:"index;not null" json:"status"`
	Phase      string            `json:"phase,omitempty"`
	DocumentID string            `json:"documentId,omitempty"`
	URL        string            `json:"url,omitempty"`
	Error      string            `json:"error,omitempty"`
	Data       datatypes.JSONMap `json:"data,omitempty"`
	CreatedAt  time.Time         `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time         `gorm:"not null" json:"updatedAt"`
}

func (DocumentBuild) TableName() string {
	return "document_build"
}

// DataMap converts the stored JSON payload back to the flat string map the
// engine substitutes against.
func (b *DocumentBuild) DataMap() map[string]string {
	out := make(map[string]string, len(b.Data))
	for k, v := range b.Data {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// JSONData converts a flat data map into the stored JSON payload.
func JSONData(data map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
