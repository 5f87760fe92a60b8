// Package session manages the set of open document tabs.
//
// Every operation is a silent no-op on unknown tab ids. Callers are UI event
// handlers where doing nothing is the safe response to a stale id. Manager is
// not safe for concurrent use; it is owned by a single event loop.
package session

import (
	"math"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/paperdesk/internal/dockey"
	"github.com/rcliao/paperdesk/internal/model"
)

// OpenOptions seeds the view state of a newly created tab. Zero values mean
// unset: page 1, scale 1, custom zoom.
type OpenOptions struct {
	InitialPage     int
	InitialScale    float64
	InitialZoomMode model.ZoomMode
}

// Patch lists the mutable tab fields to change. Nil fields are left alone.
type Patch struct {
	Page      *int
	Scale     *float64
	ZoomMode  *model.ZoomMode
	ScrollTop *float64
}

// Manager owns the open tabs in open order and tracks the active one.
type Manager struct {
	resolver dockey.Resolver
	now      func() time.Time
	entropy  *ulid.MonotonicEntropy

	tabs   []*model.Tab
	active string
}

// NewManager creates an empty session. A nil resolver means dockey.Structural.
func NewManager(resolver dockey.Resolver) *Manager {
	if resolver == nil {
		resolver = dockey.Structural{}
	}
	return &Manager{
		resolver: resolver,
		now:      time.Now,
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (m *Manager) newID() string {
	return ulid.MustNew(ulid.Timestamp(m.now()), m.entropy).String()
}

// Open activates the tab already showing ref, or creates and activates a new
// one. It returns the tab id, or "" for a nil reference.
func (m *Manager) Open(ref model.DocumentRef, opts OpenOptions) string {
	ref = normalize(ref)
	if ref == nil {
		return ""
	}
	key := m.resolver.Resolve(ref)

	for _, t := range m.tabs {
		if sameDocument(t.Ref, ref) {
			m.active = t.ID
			return t.ID
		}
	}

	page := 1
	if opts.InitialPage > 1 {
		page = opts.InitialPage
	}
	scale := 1.0
	if opts.InitialScale != 0 && !math.IsNaN(opts.InitialScale) && !math.IsInf(opts.InitialScale, 0) {
		scale = clamp(opts.InitialScale, model.MinScale, model.MaxScale)
	}
	mode := model.ZoomCustom
	if opts.InitialZoomMode == model.ZoomFitWidth {
		mode = model.ZoomFitWidth
	}

	t := &model.Tab{
		ID:          m.newID(),
		Ref:         ref,
		FileName:    ref.DisplayName(),
		DocumentKey: key,
		Page:        page,
		Scale:       scale,
		ZoomMode:    mode,
		OpenedAt:    m.now(),
	}
	m.tabs = append(m.tabs, t)
	m.active = t.ID
	return t.ID
}

// Close removes the tab. When it was active, focus moves to the tab that
// slides into its slot, or the new last tab, or nothing.
func (m *Manager) Close(id string) {
	idx := m.index(id)
	if idx < 0 {
		return
	}
	m.tabs = append(m.tabs[:idx], m.tabs[idx+1:]...)

	if m.active != id {
		return
	}
	if len(m.tabs) == 0 {
		m.active = ""
		return
	}
	m.active = m.tabs[min(idx, len(m.tabs)-1)].ID
}

// Switch makes id the active tab. The id is not checked.
func (m *Manager) Switch(id string) {
	m.active = id
}

// Update merges p into the tab. Identity, reference, name and key never change.
func (m *Manager) Update(id string, p Patch) {
	idx := m.index(id)
	if idx < 0 {
		return
	}
	t := m.tabs[idx]
	if p.Page != nil {
		t.Page = *p.Page
	}
	if p.Scale != nil {
		t.Scale = *p.Scale
	}
	if p.ZoomMode != nil {
		t.ZoomMode = *p.ZoomMode
	}
	if p.ScrollTop != nil {
		v := *p.ScrollTop
		t.ScrollTop = &v
	}
}

// Key returns the DocumentKey the manager assigns to ref.
func (m *Manager) Key(ref model.DocumentRef) string {
	ref = normalize(ref)
	if ref == nil {
		return ""
	}
	return m.resolver.Resolve(ref)
}

// ActiveTab returns a copy of the active tab.
func (m *Manager) ActiveTab() (model.Tab, bool) {
	return m.Tab(m.active)
}

// ActiveID returns the active id, which may name a closed tab after Switch.
func (m *Manager) ActiveID() string {
	return m.active
}

// Tab returns a copy of the tab with the given id.
func (m *Manager) Tab(id string) (model.Tab, bool) {
	if idx := m.index(id); idx >= 0 {
		return clone(m.tabs[idx]), true
	}
	return model.Tab{}, false
}

// Tabs returns copies of all tabs in open order.
func (m *Manager) Tabs() []model.Tab {
	out := make([]model.Tab, len(m.tabs))
	for i, t := range m.tabs {
		out[i] = clone(t)
	}
	return out
}

// Len returns the number of open tabs.
func (m *Manager) Len() int {
	return len(m.tabs)
}

func (m *Manager) index(id string) int {
	if id == "" {
		return -1
	}
	for i, t := range m.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// sameDocument compares paths exactly and files by name and size. File
// modification time is ignored so reselecting the same file reuses its tab.
func sameDocument(a, b model.DocumentRef) bool {
	switch x := a.(type) {
	case model.PathRef:
		y, ok := b.(model.PathRef)
		return ok && x == y
	case model.FileRef:
		y, ok := b.(model.FileRef)
		return ok && x.Name == y.Name && x.Size == y.Size
	}
	return false
}

func normalize(ref model.DocumentRef) model.DocumentRef {
	if f, ok := ref.(*model.FileRef); ok {
		if f == nil {
			return nil
		}
		return *f
	}
	return ref
}

func clone(t *model.Tab) model.Tab {
	c := *t
	if t.ScrollTop != nil {
		v := *t.ScrollTop
		c.ScrollTop = &v
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
