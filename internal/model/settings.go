package model

// OpenFileLocation decides the page a document opens on.
type OpenFileLocation string

const (
	OpenLastReadPage OpenFileLocation = "last_read_page"
	OpenFirstPage    OpenFileLocation = "first_page"
)

// DefaultZoomMode decides the initial zoom of a newly opened document.
type DefaultZoomMode string

const (
	DefaultZoomFitWidth     DefaultZoomMode = "fit_width"
	DefaultZoomFixed100     DefaultZoomMode = "fixed_100"
	DefaultZoomRememberLast DefaultZoomMode = "remember_last"
)

// ValidOpenFileLocations are the allowed open-location policies.
var ValidOpenFileLocations = map[OpenFileLocation]bool{
	OpenLastReadPage: true,
	OpenFirstPage:    true,
}

// ValidDefaultZoomModes are the allowed default zoom policies.
var ValidDefaultZoomModes = map[DefaultZoomMode]bool{
	DefaultZoomFitWidth:     true,
	DefaultZoomFixed100:     true,
	DefaultZoomRememberLast: true,
}

// ReaderSettings holds the process-wide reader preferences.
type ReaderSettings struct {
	OpenFileLocation    OpenFileLocation `json:"openFileLocation"`
	DefaultZoomMode     DefaultZoomMode  `json:"defaultZoomMode"`
	ArxivDownloadFolder string           `json:"arxivDownloadFolder,omitempty"`

	// AI fields are stored opaquely and never validated.
	AIEnabled  bool   `json:"aiEnabled"`
	AIProvider string `json:"aiProvider,omitempty"`
	AIAPIKey   string `json:"aiApiKey,omitempty"`
	AIModel    string `json:"aiModel,omitempty"`
}

// DefaultReaderSettings returns the fallback settings.
func DefaultReaderSettings() ReaderSettings {
	return ReaderSettings{
		OpenFileLocation: OpenLastReadPage,
		DefaultZoomMode:  DefaultZoomFitWidth,
	}
}
