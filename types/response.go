package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type UploadResponse struct {
	DocumentID   string `json:"document_id"`
	OriginalName string `json:"original_name,omitempty"`
	DownloadURL  string `json:"download_url,omitempty"`
}
