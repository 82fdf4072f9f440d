package models

import "time"

// FileResourceType identifies what an uploaded file belongs to
type FileResourceType string

const (
	FileCourseSyllabus  FileResourceType = "COURSE_SYLLABUS"
	FileInstitutionLogo FileResourceType = "INSTITUTION_LOGO"
)

// File represents an uploaded asset
type File struct {
	ID           int64            `json:"id" db:"id"`
	FileName     string           `json:"fileName" db:"file_name"`
	FileURL      string           `json:"fileUrl" db:"file_url"`
	FileSize     int64            `json:"fileSize" db:"file_size"`
	FileType     string           `json:"fileType" db:"file_type"` // MIME type
	ResourceType FileResourceType `json:"resourceType" db:"resource_type"`
	ResourceID   *int64           `json:"resourceId,omitempty" db:"resource_id"`
	UploadedBy   *int64           `json:"uploadedBy,omitempty" db:"uploaded_by"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
}
