package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func pickerItems(labels ...string) []PickerItem {
	out := make([]PickerItem, len(labels))
	for i, l := range labels {
		out[i] = PickerItem{ID: i + 1, Label: l}
	}
	return out
}

func typeRunes(p *Picker, s string) {
	for _, r := range s {
		p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewPicker_ShowsAllItems(t *testing.T) {
	p := NewPicker("Pick", pickerItems("a", "b", "c"))
	if len(p.filtered) != 3 {
		t.Fatalf("expected 3 visible items, got %d", len(p.filtered))
	}
}

func TestPicker_TypingFilters(t *testing.T) {
	p := NewPicker("Pick", pickerItems("leg day", "long run", "yoga"))

	typeRunes(p, "lr")
	if len(p.filtered) != 1 || p.filtered[0].Label != "long run" {
		t.Fatalf("query 'lr' should match only 'long run', got %+v", p.filtered)
	}

	p.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	p.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if len(p.filtered) != 3 {
		t.Fatalf("cleared query should show all items, got %d", len(p.filtered))
	}
}

func TestPicker_SpaceIsPartOfQuery(t *testing.T) {
	p := NewPicker("Pick", pickerItems("leg day", "legday"))
	typeRunes(p, "leg")
	p.Update(tea.KeyMsg{Type: tea.KeySpace})
	if p.query != "leg " {
		t.Fatalf("query = %q, want %q", p.query, "leg ")
	}
	if len(p.filtered) != 1 {
		t.Fatalf("expected only 'leg day', got %+v", p.filtered)
	}
}

func TestPicker_NavigateAndChoose(t *testing.T) {
	p := NewPicker("Pick", pickerItems("a", "b", "c"))

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 2 {
		t.Fatalf("cursor should stop at last item, got %d", p.cursor)
	}
	p.Update(tea.KeyMsg{Type: tea.KeyUp})

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should quit")
	}
	if p.chosen == nil || p.chosen.ID != 2 {
		t.Fatalf("expected item 2 chosen, got %+v", p.chosen)
	}
}

func TestPicker_Cancel(t *testing.T) {
	p := NewPicker("Pick", pickerItems("a"))
	p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !p.canceled || p.chosen != nil {
		t.Fatal("esc should cancel without choosing")
	}
}

func TestPicker_EnterWithNoMatches(t *testing.T) {
	p := NewPicker("Pick", pickerItems("a"))
	typeRunes(p, "zzz")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.chosen != nil {
		t.Fatalf("nothing should be chosen, got %+v", p.chosen)
	}
}

func TestPicker_ScrollKeepsCursorVisible(t *testing.T) {
	labels := make([]string, 30)
	for i := range labels {
		labels[i] = "item"
	}
	p := NewPicker("Pick", pickerItems(labels...))
	p.Update(tea.WindowSizeMsg{Width: 80, Height: 12})

	for i := 0; i < 20; i++ {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if p.cursor < p.offset || p.cursor >= p.offset+p.visible() {
		t.Fatalf("cursor %d outside viewport [%d,%d)", p.cursor, p.offset, p.offset+p.visible())
	}
}
