// Package workspace wires the tab session to the remembered view state: it
// seeds new tabs from settings, page memory and zoom memory, and writes page
// and scale changes back through.
package workspace

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"github.com/rcliao/paperdesk/internal/logging"
	"github.com/rcliao/paperdesk/internal/model"
	"github.com/rcliao/paperdesk/internal/position"
	"github.com/rcliao/paperdesk/internal/session"
	"github.com/rcliao/paperdesk/internal/settings"
	"github.com/rcliao/paperdesk/internal/zoom"
)

// Workspace is the reader state of one running application.
type Workspace struct {
	Tabs     *session.Manager
	Zoom     *zoom.Memory
	Pages    *position.Memory
	Settings *settings.Store

	log *log.Logger
}

// New assembles a Workspace from its parts.
func New(tabs *session.Manager, z *zoom.Memory, pages *position.Memory, st *settings.Store, logger *log.Logger) *Workspace {
	return &Workspace{
		Tabs:     tabs,
		Zoom:     z,
		Pages:    pages,
		Settings: st,
		log:      logging.OrDiscard(logger).With("component", "workspace"),
	}
}

// Open opens ref, or focuses its existing tab, and returns the tab id.
func (w *Workspace) Open(ctx context.Context, ref model.DocumentRef) string {
	opts := w.initialView(ref)
	id := w.Tabs.Open(ref, opts)
	if id != "" {
		w.log.Debug("open", "tab", id, "page", opts.InitialPage, "scale", opts.InitialScale, "mode", opts.InitialZoomMode)
	}
	return id
}

// initialView computes the view a new tab for ref would start with.
func (w *Workspace) initialView(ref model.DocumentRef) session.OpenOptions {
	cfg := w.Settings.Current()
	key := w.Tabs.Key(ref)

	var opts session.OpenOptions
	if cfg.OpenFileLocation == model.OpenLastReadPage {
		if page, ok := w.Pages.Get(key); ok {
			opts.InitialPage = page
		}
	}

	switch cfg.DefaultZoomMode {
	case model.DefaultZoomFixed100:
		opts.InitialScale = 1
		opts.InitialZoomMode = model.ZoomCustom
	case model.DefaultZoomRememberLast:
		if scale, ok := w.Zoom.Get(key); ok {
			opts.InitialScale = scale
			opts.InitialZoomMode = model.ZoomCustom
		} else {
			opts.InitialZoomMode = model.ZoomFitWidth
		}
	default:
		opts.InitialZoomMode = model.ZoomFitWidth
	}
	return opts
}

// Close closes the tab.
func (w *Workspace) Close(id string) {
	w.Tabs.Close(id)
}

// Switch focuses the tab.
func (w *Workspace) Switch(id string) {
	w.Tabs.Switch(id)
}

// SetScale applies a custom zoom scale to the tab and remembers it for the
// document. Invalid scales are ignored; valid ones are clamped to the
// supported range.
func (w *Workspace) SetScale(ctx context.Context, id string, scale float64) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return
	}
	scale = math.Max(model.MinScale, math.Min(model.MaxScale, scale))
	tab, ok := w.Tabs.Tab(id)
	if !ok {
		return
	}
	mode := model.ZoomCustom
	w.Tabs.Update(id, session.Patch{Scale: &scale, ZoomMode: &mode})
	w.Zoom.Set(ctx, tab.DocumentKey, scale)
}

// FitWidth switches the tab to fit-width zoom. The remembered scale is kept.
func (w *Workspace) FitWidth(id string) {
	mode := model.ZoomFitWidth
	w.Tabs.Update(id, session.Patch{ZoomMode: &mode})
}

// SetPage moves the tab to page and remembers it. Pages below 1 are ignored.
func (w *Workspace) SetPage(ctx context.Context, id string, page int) {
	if page < 1 {
		return
	}
	tab, ok := w.Tabs.Tab(id)
	if !ok {
		return
	}
	w.Tabs.Update(id, session.Patch{Page: &page})
	w.Pages.Set(ctx, tab.DocumentKey, page)
}

// Scroll records the tab's scroll offset.
func (w *Workspace) Scroll(id string, offset float64) {
	w.Tabs.Update(id, session.Patch{ScrollTop: &offset})
}
