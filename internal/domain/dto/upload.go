package dto

import (
	"time"

	"github.com/guttosm/fipe-service/internal/domain/model"
)

// FileResponse is the public view of an uploaded file.
type FileResponse struct {
	ID           string    `json:"id" example:"65f0c2a1e4b0a1b2c3d4e5f6"`
	Filename     string    `json:"filename" example:"file-1710000000000-0b7e.png"`
	OriginalName string    `json:"originalName" example:"documento.png"`
	MimeType     string    `json:"mimetype" example:"image/png"`
	Size         int64     `json:"size" example:"20480"`
	URL          string    `json:"url" example:"/api/upload/files/file-1710000000000-0b7e.png"`
	UploadedAt   time.Time `json:"uploadedAt"`
} // @name FileResponse

// NewFileResponse builds the public view of f.
func NewFileResponse(f *model.FileRecord) FileResponse {
	return FileResponse{
		ID:           f.ID.Hex(),
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		URL:          f.URL(),
		UploadedAt:   f.CreatedAt,
	}
}

// NewFileResponses maps a list of records.
func NewFileResponses(files []*model.FileRecord) []FileResponse {
	out := make([]FileResponse, len(files))
	for i, f := range files {
		out[i] = NewFileResponse(f)
	}
	return out
}
