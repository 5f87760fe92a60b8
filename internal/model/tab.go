package model

import "time"

// ZoomMode is the zoom behaviour of an open tab.
type ZoomMode string

const (
	ZoomFitWidth ZoomMode = "fit_width"
	ZoomCustom   ZoomMode = "custom"
)

// Scale bounds applied when a tab is created.
const (
	MinScale = 0.25
	MaxScale = 4.0
)

// Tab is one open document view.
type Tab struct {
	ID          string      `json:"id"`
	Ref         DocumentRef `json:"-"`
	FileName    string      `json:"fileName"`
	DocumentKey string      `json:"documentKey"`
	Page        int         `json:"page"`
	Scale       float64     `json:"scale"`
	ZoomMode    ZoomMode    `json:"zoomMode"`
	ScrollTop   *float64    `json:"scrollTop,omitempty"`
	OpenedAt    time.Time   `json:"openedAt"`
}
