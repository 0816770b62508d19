package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/reps/internal/ui"
)

// PickerItem is one row of a Picker.
type PickerItem struct {
	ID     int
	Label  string
	Detail string
}

func (it PickerItem) filterValue() string {
	if it.Detail == "" {
		return it.Label
	}
	return it.Label + " " + it.Detail
}

type pickerKeyMap struct {
	Up, Down, Choose, Cancel key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Choose: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
}

// Picker is a fuzzy-filtered list used to choose a workout or goal when
// a command is run without an ID.
type Picker struct {
	title  string
	height int

	items    []PickerItem
	filtered []PickerItem
	query    string
	cursor   int
	offset   int
	chosen   *PickerItem
	canceled bool

	termHeight int
}

// NewPicker creates a Picker titled title over items.
func NewPicker(title string, items []PickerItem) *Picker {
	p := &Picker{title: title, height: 10, items: items, termHeight: 24}
	p.applyFilter()
	return p
}

// RunPicker shows a picker and returns the chosen item, or nil when the
// user canceled.
func RunPicker(title string, items []PickerItem) (*PickerItem, error) {
	p := NewPicker(title, items)
	m, err := tea.NewProgram(p).Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	result := m.(*Picker)
	if result.canceled {
		return nil, nil
	}
	return result.chosen, nil
}

func (p *Picker) Init() tea.Cmd { return nil }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.termHeight = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickerKeys.Cancel):
			p.canceled = true
			return p, tea.Quit
		case key.Matches(msg, pickerKeys.Choose):
			if len(p.filtered) > 0 {
				chosen := p.filtered[p.cursor]
				p.chosen = &chosen
			}
			return p, tea.Quit
		case key.Matches(msg, pickerKeys.Up):
			p.move(-1)
		case key.Matches(msg, pickerKeys.Down):
			p.move(1)
		case msg.Type == tea.KeyBackspace:
			if r := []rune(p.query); len(r) > 0 {
				p.query = string(r[:len(r)-1])
				p.applyFilter()
			}
		case msg.Type == tea.KeySpace:
			p.query += " "
			p.applyFilter()
		case msg.Type == tea.KeyRunes:
			p.query += string(msg.Runes)
			p.applyFilter()
		}
	}
	return p, nil
}

func (p *Picker) View() string {
	var b strings.Builder
	b.WriteString("  " + ui.Title.Render(p.title) + "\n\n")
	b.WriteString("  " + ui.Accent.Render("> ") + p.query + ui.Accent.Render("▎") + "\n\n")

	if len(p.filtered) == 0 {
		b.WriteString("  " + ui.Muted.Render("No matches") + "\n")
	}
	end := min(p.offset+p.visible(), len(p.filtered))
	for i := p.offset; i < end; i++ {
		b.WriteString(renderPickerRow(p.filtered[i], i == p.cursor) + "\n")
	}

	b.WriteString("\n" + ui.Muted.Render(fmt.Sprintf("  %d/%d %s ↑↓ move %s enter choose %s esc cancel",
		len(p.filtered), len(p.items), ui.IconDot, ui.IconDot, ui.IconDot)) + "\n")
	return b.String()
}

func (p *Picker) move(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor > len(p.filtered)-1 {
		p.cursor = max(len(p.filtered)-1, 0)
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if vis := p.visible(); p.cursor >= p.offset+vis {
		p.offset = p.cursor - vis + 1
	}
}

func (p *Picker) visible() int {
	h := p.height
	if h > p.termHeight-6 {
		h = p.termHeight - 6
	}
	return max(h, 3)
}

func (p *Picker) applyFilter() {
	p.cursor, p.offset = 0, 0
	if p.query == "" {
		p.filtered = append(p.filtered[:0], p.items...)
		return
	}

	type hit struct {
		item  PickerItem
		score int
	}
	var hits []hit
	for _, it := range p.items {
		if ok, sc := FuzzyMatch(p.query, it.filterValue()); ok {
			hits = append(hits, hit{it, sc})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	p.filtered = p.filtered[:0]
	for _, h := range hits {
		p.filtered = append(p.filtered, h.item)
	}
}

func renderPickerRow(it PickerItem, selected bool) string {
	pointer := "  "
	label := lipgloss.NewStyle()
	if selected {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
		label = ui.Accent
	}
	row := "  " + pointer + label.Render(it.Label)
	if it.Detail != "" {
		row += "  " + ui.Muted.Render(it.Detail)
	}
	return row
}
