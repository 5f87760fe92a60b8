package session

import (
	"testing"
	"time"

	"github.com/rcliao/paperdesk/internal/model"
)

func ptr[T any](v T) *T { return &v }

func openAll(t *testing.T, m *Manager, paths ...string) []string {
	t.Helper()
	ids := make([]string, len(paths))
	for i, p := range paths {
		ids[i] = m.Open(model.PathRef(p), OpenOptions{})
	}
	return ids
}

func TestOpenCreatesActiveTab(t *testing.T) {
	m := NewManager(nil)

	id := m.Open(model.PathRef("/papers/attention.pdf"), OpenOptions{})
	if id == "" {
		t.Fatal("expected non-empty tab id")
	}

	tab, ok := m.ActiveTab()
	if !ok {
		t.Fatal("expected an active tab")
	}
	if tab.ID != id {
		t.Errorf("active tab = %s, want %s", tab.ID, id)
	}
	if tab.FileName != "attention.pdf" {
		t.Errorf("FileName = %q, want attention.pdf", tab.FileName)
	}
	if tab.DocumentKey != "path:/papers/attention.pdf" {
		t.Errorf("DocumentKey = %q", tab.DocumentKey)
	}
	if tab.Page != 1 || tab.Scale != 1 || tab.ZoomMode != model.ZoomCustom {
		t.Errorf("unexpected defaults: page=%d scale=%v mode=%s", tab.Page, tab.Scale, tab.ZoomMode)
	}
	if tab.ScrollTop != nil {
		t.Error("expected no scroll offset")
	}
}

func TestOpenDedupPath(t *testing.T) {
	m := NewManager(nil)
	ref := model.PathRef("/papers/a.pdf")

	first := m.Open(ref, OpenOptions{})
	m.Open(model.PathRef("/papers/b.pdf"), OpenOptions{})
	second := m.Open(ref, OpenOptions{InitialPage: 9})

	if first != second {
		t.Errorf("reopening should return the same id: %s != %s", first, second)
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 tabs, got %d", m.Len())
	}
	if m.ActiveID() != first {
		t.Errorf("dedup should activate existing tab, active=%s", m.ActiveID())
	}
	if tab, _ := m.Tab(first); tab.Page != 1 {
		t.Errorf("dedup must not reseed the tab, page=%d", tab.Page)
	}
}

func TestOpenDedupFileIgnoresModTime(t *testing.T) {
	m := NewManager(nil)
	base := time.UnixMilli(1700000000000)

	a := m.Open(model.FileRef{Name: "a.pdf", Size: 100, ModTime: base}, OpenOptions{})
	b := m.Open(&model.FileRef{Name: "a.pdf", Size: 100, ModTime: base.Add(time.Minute)}, OpenOptions{})
	if a != b {
		t.Error("same name and size should dedup even with different mtime")
	}

	c := m.Open(model.FileRef{Name: "a.pdf", Size: 200, ModTime: base}, OpenOptions{})
	if c == a {
		t.Error("different size should open a new tab")
	}

	d := m.Open(model.PathRef("a.pdf"), OpenOptions{})
	if d == a || d == c {
		t.Error("path ref should never dedup against a file ref")
	}
	if m.Len() != 3 {
		t.Errorf("expected 3 tabs, got %d", m.Len())
	}
}

func TestOpenAfterCloseGetsNewID(t *testing.T) {
	m := NewManager(nil)
	ref := model.PathRef("/papers/a.pdf")

	first := m.Open(ref, OpenOptions{})
	m.Close(first)
	second := m.Open(ref, OpenOptions{})

	if first == second {
		t.Error("reopen after close should get a fresh id")
	}
}

func TestOpenOptions(t *testing.T) {
	tests := []struct {
		name      string
		opts      OpenOptions
		wantPage  int
		wantScale float64
		wantMode  model.ZoomMode
	}{
		{"defaults", OpenOptions{}, 1, 1, model.ZoomCustom},
		{"page kept", OpenOptions{InitialPage: 12}, 12, 1, model.ZoomCustom},
		{"page floor", OpenOptions{InitialPage: -3}, 1, 1, model.ZoomCustom},
		{"scale kept", OpenOptions{InitialScale: 1.5}, 1, 1.5, model.ZoomCustom},
		{"scale clamped high", OpenOptions{InitialScale: 10}, 1, 4, model.ZoomCustom},
		{"scale clamped low", OpenOptions{InitialScale: 0.1}, 1, 0.25, model.ZoomCustom},
		{"fit width", OpenOptions{InitialZoomMode: model.ZoomFitWidth}, 1, 1, model.ZoomFitWidth},
		{"other mode is custom", OpenOptions{InitialZoomMode: "page_fit"}, 1, 1, model.ZoomCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(nil)
			id := m.Open(model.PathRef("/x.pdf"), tt.opts)
			tab, _ := m.Tab(id)
			if tab.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tab.Page, tt.wantPage)
			}
			if tab.Scale != tt.wantScale {
				t.Errorf("Scale = %v, want %v", tab.Scale, tt.wantScale)
			}
			if tab.ZoomMode != tt.wantMode {
				t.Errorf("ZoomMode = %s, want %s", tab.ZoomMode, tt.wantMode)
			}
		})
	}
}

func TestOpenNil(t *testing.T) {
	m := NewManager(nil)
	if id := m.Open(nil, OpenOptions{}); id != "" {
		t.Errorf("expected empty id for nil ref, got %q", id)
	}
	var f *model.FileRef
	if id := m.Open(f, OpenOptions{}); id != "" {
		t.Errorf("expected empty id for nil file ref, got %q", id)
	}
	if m.Len() != 0 {
		t.Errorf("expected no tabs, got %d", m.Len())
	}
}

func TestCloseActiveMiddle(t *testing.T) {
	m := NewManager(nil)
	ids := openAll(t, m, "A", "B", "C")
	m.Switch(ids[1])

	m.Close(ids[1])

	if m.ActiveID() != ids[2] {
		t.Errorf("closing B should activate C, got %s", m.ActiveID())
	}
}

func TestCloseActiveLast(t *testing.T) {
	m := NewManager(nil)
	ids := openAll(t, m, "A", "B", "C")

	m.Close(ids[2])

	if m.ActiveID() != ids[1] {
		t.Errorf("closing C should activate B, got %s", m.ActiveID())
	}
}

func TestCloseActiveFirst(t *testing.T) {
	m := NewManager(nil)
	ids := openAll(t, m, "A", "B", "C")
	m.Switch(ids[0])

	m.Close(ids[0])

	if m.ActiveID() != ids[1] {
		t.Errorf("closing A should activate B, got %s", m.ActiveID())
	}
}

func TestCloseInactiveKeepsFocus(t *testing.T) {
	m := NewManager(nil)
	ids := openAll(t, m, "A", "B", "C")
	m.Switch(ids[0])

	m.Close(ids[1])

	if m.ActiveID() != ids[0] {
		t.Errorf("closing inactive tab should keep focus, got %s", m.ActiveID())
	}
	tabs := m.Tabs()
	if len(tabs) != 2 || tabs[0].ID != ids[0] || tabs[1].ID != ids[2] {
		t.Errorf("unexpected remaining order %v", tabs)
	}
}

func TestCloseLastRemaining(t *testing.T) {
	m := NewManager(nil)
	ids := openAll(t, m, "A")

	m.Close(ids[0])

	if m.ActiveID() != "" {
		t.Errorf("expected no active tab, got %s", m.ActiveID())
	}
	if _, ok := m.ActiveTab(); ok {
		t.Error("ActiveTab should report false on an empty session")
	}
}

func TestCloseUnknown(t *testing.T) {
	m := NewManager(nil)
	ids := openAll(t, m, "A", "B")

	m.Close("nope")

	if m.Len() != 2 || m.ActiveID() != ids[1] {
		t.Error("closing an unknown id should change nothing")
	}
}

func TestSwitchUnchecked(t *testing.T) {
	m := NewManager(nil)
	ids := openAll(t, m, "A", "B")

	m.Switch(ids[0])
	if m.ActiveID() != ids[0] {
		t.Errorf("expected %s active, got %s", ids[0], m.ActiveID())
	}

	m.Switch("ghost")
	if m.ActiveID() != "ghost" {
		t.Errorf("switch should set the id unconditionally, got %s", m.ActiveID())
	}
	if _, ok := m.ActiveTab(); ok {
		t.Error("ActiveTab should report false for a dangling id")
	}
}

func TestUpdateIsolation(t *testing.T) {
	m := NewManager(nil)
	ids := openAll(t, m, "/a.pdf", "/b.pdf")
	m.Update(ids[0], Patch{Page: ptr(7)})
	before, _ := m.Tab(ids[0])
	otherBefore, _ := m.Tab(ids[1])

	m.Update(ids[0], Patch{Scale: ptr(2.0)})

	after, _ := m.Tab(ids[0])
	if after.Scale != 2 {
		t.Errorf("Scale = %v, want 2", after.Scale)
	}
	if after.Page != before.Page || after.FileName != before.FileName ||
		after.DocumentKey != before.DocumentKey || after.ZoomMode != before.ZoomMode || after.ID != before.ID {
		t.Errorf("update changed other fields: before=%+v after=%+v", before, after)
	}
	if other, _ := m.Tab(ids[1]); other != otherBefore {
		t.Errorf("update affected another tab: %+v", other)
	}
}

func TestUpdateAllFields(t *testing.T) {
	m := NewManager(nil)
	id := m.Open(model.PathRef("/a.pdf"), OpenOptions{})

	m.Update(id, Patch{
		Page:      ptr(3),
		Scale:     ptr(0.5),
		ZoomMode:  ptr(model.ZoomFitWidth),
		ScrollTop: ptr(120.5),
	})

	tab, _ := m.Tab(id)
	if tab.Page != 3 || tab.Scale != 0.5 || tab.ZoomMode != model.ZoomFitWidth {
		t.Errorf("unexpected tab %+v", tab)
	}
	if tab.ScrollTop == nil || *tab.ScrollTop != 120.5 {
		t.Errorf("ScrollTop = %v, want 120.5", tab.ScrollTop)
	}
}

func TestUpdateUnknownIsNoOp(t *testing.T) {
	m := NewManager(nil)
	id := m.Open(model.PathRef("/a.pdf"), OpenOptions{})

	m.Update("nope", Patch{Page: ptr(99)})

	if tab, _ := m.Tab(id); tab.Page != 1 {
		t.Errorf("unknown id update touched a tab: page=%d", tab.Page)
	}
}

func TestQueriesReturnCopies(t *testing.T) {
	m := NewManager(nil)
	id := m.Open(model.PathRef("/a.pdf"), OpenOptions{})
	m.Update(id, Patch{ScrollTop: ptr(10.0)})

	tab, _ := m.Tab(id)
	tab.Page = 50
	*tab.ScrollTop = 999

	tabs := m.Tabs()
	tabs[0].Scale = 3

	got, _ := m.Tab(id)
	if got.Page != 1 || got.Scale != 1 || *got.ScrollTop != 10 {
		t.Errorf("mutating a copy leaked into the session: %+v", got)
	}
}
