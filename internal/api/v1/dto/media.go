package dto

// UploadCreateDTO asks for a presigned upload URL
type UploadCreateDTO struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
}

// UploadResponseDTO is the presigned upload ticket
type UploadResponseDTO struct {
	UploadURL   string `json:"upload_url"`
	StoragePath string `json:"storage_path"`
	Kind        string `json:"kind"`
}

// DownloadURLResponseDTO is a presigned download link
type DownloadURLResponseDTO struct {
	URL string `json:"url"`
}
