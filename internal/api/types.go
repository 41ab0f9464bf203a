package api

// ChatRequest represents an incoming chat request. The message and the
// optional files arrive either as multipart form fields or, when no
// file is attached, as a plain JSON body.
type ChatRequest struct {
	Message string `form:"message" json:"message"`
	Model   string `form:"model"   json:"model"`
}

// UploadedFile is a single attached document or image: raw bytes plus
// the filename and media type declared by the client.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ChatResponse is the successful reply to a chat request. The image
// URLs are set only on the vision path so the client can render the
// upload and delete it later.
type ChatResponse struct {
	Response     string `json:"response"`
	Model        string `json:"model"`
	ImageURL     string `json:"imageUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// ModelInfo is one entry of the merged tags+ps model listing.
type ModelInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
}

// ModelsResponse is the reply to GET /api/models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// StatusResponse is the reply to GET /api/status.
type StatusResponse struct {
	Connected        bool `json:"connected"`
	HasRunningModels bool `json:"hasRunningModels"`
}

// ShowRequest for POST /api/show, relayed to the backend.
type ShowRequest struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// DeleteImagesRequest for DELETE /api/conversation-images.
type DeleteImagesRequest struct {
	ImageURLs []string `json:"imageUrls"`
}

// DeleteImagesResponse reports how many originals were removed.
type DeleteImagesResponse struct {
	Deleted int `json:"deleted"`
}
