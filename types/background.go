package types

// Background is a background video known to the backend
type Background struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// BackgroundListResponse is the payload of GET /api/py/available-backgrounds.
// Backgrounds and Paths are index-aligned.
type BackgroundListResponse struct {
	Backgrounds []string `json:"backgrounds"`
	Paths       []string `json:"paths"`
}

// DownloadResponse is the payload of GET /api/py/download-video/
type DownloadResponse struct {
	Message  string `json:"message,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

// FilenameResponse is returned by the TTS and compose endpoints
type FilenameResponse struct {
	Message  string `json:"message,omitempty"`
	Filename string `json:"filename"`
}

// BackgroundStatus is the snapshot of the Background Manager page
type BackgroundStatus struct {
	Backgrounds    []Background `json:"backgrounds"`
	Selected       string       `json:"selected,omitempty"`
	Input          string       `json:"input"`
	Downloading    bool         `json:"downloading"`
	PreviewURL     string       `json:"preview_url,omitempty"`
	PreviewLoading bool         `json:"preview_loading"`
	Logs           []LogEntry   `json:"logs"`
	Error          string       `json:"error,omitempty"`
}
