package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/paperdesk/internal/model"
)

var (
	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AAFF"))

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

func textOutput() bool {
	return formatFlag == "text"
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// tabView is the JSON shape of a tab in command output.
type tabView struct {
	Index int `json:"index"`
	model.Tab
	Active bool `json:"active"`
}

func renderTabs(w io.Writer, tabs []model.Tab, activeID string) {
	if !textOutput() {
		views := make([]tabView, len(tabs))
		for i, t := range tabs {
			views[i] = tabView{Index: i + 1, Tab: t, Active: t.ID == activeID}
		}
		printJSON(w, views)
		return
	}

	if len(tabs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no open tabs"))
		return
	}
	for i, t := range tabs {
		fmt.Fprintln(w, tabLine(i+1, t, t.ID == activeID))
	}
}

func tabLine(index int, t model.Tab, active bool) string {
	zoom := fmt.Sprintf("%.0f%%", t.Scale*100)
	if t.ZoomMode == model.ZoomFitWidth {
		zoom = "fit"
	}
	var sb strings.Builder
	marker := "  "
	style := tabStyle
	if active {
		marker = "> "
		style = activeStyle
	}
	sb.WriteString(style.Render(fmt.Sprintf("%s#%d %s", marker, index, t.FileName)))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  p.%d  %s  %s", t.Page, zoom, t.ID)))
	return sb.String()
}
