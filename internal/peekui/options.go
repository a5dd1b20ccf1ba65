package peekui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/wesen/viewpeek/pkg/tealayout"
	"github.com/wesen/viewpeek/pkg/trigger"
)

// optionsModal edits the sampler options at runtime.
type optionsModal struct {
	open   bool
	focus  int
	fields []optionField
	err    string
}

type optionField struct {
	label string
	hint  string
	input textinput.Model
	// apply validates the parsed value and stores it.
	apply func(m *Model, v float64) error
	value func(m Model) float64
}

func optionFields() []optionField {
	return []optionField{
		{
			label: "Sample distance",
			hint:  " (cells between points)",
			value: func(m Model) float64 { return m.Sampler.Options().SampleDistance },
			apply: func(m *Model, v float64) error {
				if v <= 0 {
					return fmt.Errorf("sample distance must be > 0")
				}
				o := m.Sampler.Options()
				o.SampleDistance = v
				m.Sampler.SetOptions(o)
				return nil
			},
		},
		{
			label: "View threshold",
			hint:  " (fraction, strict >)",
			value: func(m Model) float64 { return m.Sampler.Options().ViewThreshold },
			apply: func(m *Model, v float64) error {
				if v <= 0 || v > 1 {
					return fmt.Errorf("view threshold must be in (0,1]")
				}
				o := m.Sampler.Options()
				o.ViewThreshold = v
				m.Sampler.SetOptions(o)
				return nil
			},
		},
		{
			label: "Coverage threshold",
			hint:  " (% of element in viewport)",
			value: func(m Model) float64 { return m.Sampler.Options().CoverageThreshold },
			apply: func(m *Model, v float64) error {
				if v <= 0 || v > 100 {
					return fmt.Errorf("coverage threshold must be in (0,100]")
				}
				o := m.Sampler.Options()
				o.CoverageThreshold = v
				m.Sampler.SetOptions(o)
				return nil
			},
		},
	}
}

// openOptions opens the modal with the current option values.
func (m Model) openOptions() (Model, tea.Cmd) {
	m.opts = optionsModal{open: true, fields: optionFields()}
	for i := range m.opts.fields {
		f := &m.opts.fields[i]
		f.input = textinput.New()
		f.input.Prompt = ""
		f.input.CharLimit = 12
		f.input.SetValue(strconv.FormatFloat(f.value(m), 'g', -1, 64))
	}
	cmd := m.opts.fields[0].input.Focus()
	return m, cmd
}

// handleOptionsKeys processes keys when the options modal is open.
func (m Model) handleOptionsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "escape":
		m.opts.open = false
		return m, nil

	case "enter":
		return m.applyOptions()

	case "tab", "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = len(m.opts.fields) - 1
		}
		m.opts.fields[m.opts.focus].input.Blur()
		m.opts.focus = (m.opts.focus + step) % len(m.opts.fields)
		cmd := m.opts.fields[m.opts.focus].input.Focus()
		return m, cmd

	default:
		var cmd tea.Cmd
		f := &m.opts.fields[m.opts.focus]
		f.input, cmd = f.input.Update(msg)
		return m, cmd
	}
}

// applyOptions validates every field, stores the values and resamples.
// The modal stays open on the first invalid field.
func (m Model) applyOptions() (Model, tea.Cmd) {
	values := make([]float64, len(m.opts.fields))
	for i, f := range m.opts.fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.input.Value()), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			m.opts.err = fmt.Sprintf("%s: not a number", f.label)
			return m, nil
		}
		values[i] = v
	}
	prev := m.Sampler.Options()
	for i, f := range m.opts.fields {
		if err := f.apply(&m, values[i]); err != nil {
			m.Sampler.SetOptions(prev)
			m.opts.err = err.Error()
			return m, nil
		}
	}
	m.opts.open = false
	m.logger.Info("peekui: options changed",
		"sample_distance", values[0], "view_threshold", values[1], "coverage_threshold", values[2])
	return m, m.force(trigger.Manual)
}

// buildOptionsLayer renders the options modal centered on screen.
func buildOptionsLayer(m Model, screenW, screenH int) *lipgloss.Layer {
	bg := c("#0a1510")
	titleStyle := lipgloss.NewStyle().Foreground(toolbarColor).Background(bg).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(c("#ddaa44")).Background(bg)
	hintStyle := lipgloss.NewStyle().Foreground(c("#336655")).Background(bg).Italic(true)
	errStyle := lipgloss.NewStyle().Foreground(markOccluded).Background(bg).Bold(true)

	lines := []string{titleStyle.Render("  SAMPLER OPTIONS"), ""}
	for i, f := range m.opts.fields {
		marker := "  "
		if i == m.opts.focus {
			marker = "▸ "
		}
		lines = append(lines,
			labelStyle.Render(marker+f.label+":")+hintStyle.Render(f.hint),
			"  "+f.input.View(),
			"",
		)
	}
	if m.opts.err != "" {
		lines = append(lines, errStyle.Render("  "+m.opts.err), "")
	}
	lines = append(lines, hintStyle.Render("  [tab] next  [enter] apply  [esc] cancel"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(c("#00d4a0")).
		Background(bg).
		Width(52).
		Padding(1, 2)

	return tealayout.ModalLayer(strings.Join(lines, "\n"), screenW, screenH, boxStyle).ID("options")
}
