package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRenderBarModelUpdate(t *testing.T) {
	var m tea.Model = RenderBarModel{Message: "Rendering"}

	m, _ = m.Update(renderTickMsg{done: 5, total: 10})
	bar := m.(RenderBarModel)
	if bar.Done != 5 || bar.Total != 10 {
		t.Errorf("model = %+v", bar)
	}

	_, cmd := m.Update(renderDoneMsg{})
	if cmd == nil {
		t.Error("done message should quit the program")
	}
}

func TestRenderBarModelView(t *testing.T) {
	m := RenderBarModel{Message: "Rendering", Done: 5, Total: 10}
	view := m.View()

	if !strings.Contains(view, "(5/10)") {
		t.Errorf("view should show counts, got %q", view)
	}
	if !strings.Contains(view, "50%") {
		t.Errorf("view should show the percentage, got %q", view)
	}
}

func TestRenderBarModelViewEmptyTotal(t *testing.T) {
	m := RenderBarModel{Message: "Rendering"}
	view := m.View()

	if !strings.Contains(view, "(0/0)") {
		t.Errorf("view should handle a zero total, got %q", view)
	}
}
