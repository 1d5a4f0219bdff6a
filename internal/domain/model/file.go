package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileRecord is the metadata of an uploaded file. The content lives on disk under Filename.
type FileRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"uploadedBy"`
	Field        string             `bson:"field" json:"field"`
	OriginalName string             `bson:"original_name" json:"originalName"`
	Filename     string             `bson:"filename" json:"filename"`
	MimeType     string             `bson:"mime_type" json:"mimetype"`
	Size         int64              `bson:"size" json:"size"`
	CreatedAt    time.Time          `bson:"created_at" json:"uploadedAt"`
}

// URL is the public path serving the file inline.
func (f *FileRecord) URL() string {
	return "/api/upload/files/" + f.Filename
}
