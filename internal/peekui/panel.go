package peekui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/wesen/viewpeek/pkg/cellbuf"
	"github.com/wesen/viewpeek/pkg/tealayout"
)

// panelBG is slightly lighter than the canvas background.
var panelBG = c("#1a2a20")

var (
	panelTitleStyle = lipgloss.NewStyle().
			Foreground(c("#00ffc8")).
			Background(panelBG).
			Bold(true)

	panelDimStyle = lipgloss.NewStyle().
			Foreground(c("#336655")).
			Background(panelBG)

	panelTextStyle = lipgloss.NewStyle().
			Foreground(c("#00d4a0")).
			Background(panelBG)

	panelKeyStyle = lipgloss.NewStyle().
			Foreground(c("#ddaa44")).
			Background(panelBG)

	panelValStyle = lipgloss.NewStyle().
			Foreground(c("#00ffc8")).
			Background(panelBG)

	panelSepStyle = lipgloss.NewStyle().
			Foreground(c("#1a4a3a")).
			Background(panelBG)

	sectionStyles = tealayout.SectionStyles{
		Title: panelTitleStyle,
		Rule:  panelDimStyle,
		Pad:   lipgloss.NewStyle().Background(panelBG),
	}
)

// sparkStyles renders the history sparkline on the panel background.
var sparkStyles = map[cellbuf.StyleKey]lipgloss.Style{
	0: lipgloss.NewStyle().Background(panelBG),
	1: lipgloss.NewStyle().Foreground(inViewBorder).Background(panelBG),
}

func kv(key string, val any) string {
	return panelKeyStyle.Render(fmt.Sprintf("  %-11s", key)) + panelValStyle.Render(fmt.Sprint(val))
}

// statsLines summarizes the last pass.
func statsLines(m Model) []string {
	rep := m.Report
	if rep.Seq == 0 {
		return []string{panelDimStyle.Render("  (no pass yet)")}
	}
	opts := m.Sampler.Options()
	return []string{
		kv("pass", rep.Seq),
		kv("tracked", rep.Tracked),
		kv("sampled", rep.Candidates),
		kv("in view", len(rep.InView())),
		kv("elapsed", rep.Elapsed.Round(time.Microsecond)),
		kv("distance", opts.SampleDistance),
		kv("threshold", fmt.Sprintf(">%g", opts.ViewThreshold)),
		kv("hit test", m.HitMode),
	}
}

// triggerLines shows what the throttle did with recent events.
func triggerLines(m Model) []string {
	st := m.Gate.Stats()
	last := string(st.Last)
	if last == "" {
		last = "-"
	}
	return []string{
		kv("fired", st.Fired),
		kv("coalesced", st.Coalesced),
		kv("dropped", st.Dropped),
		kv("frames", st.Frames),
		kv("last", last),
	}
}

// selectionLines describes the selected element and plots its history.
func selectionLines(m Model, width int) []string {
	e := m.Selected()
	if e == nil {
		return []string{panelDimStyle.Render("  click an element")}
	}
	cls := e.Classification
	state := "not sampled"
	switch {
	case cls.Sampled && cls.InView:
		state = "in view"
	case cls.Sampled:
		state = "hidden"
	}
	lines := []string{
		kv("element", fmt.Sprintf("#%d", e.ID)),
		kv("bounds", fmt.Sprintf("%d,%d %dx%d", e.Bounds.Min.X, e.Bounds.Min.Y, e.Bounds.Dx(), e.Bounds.Dy())),
		kv("state", state),
	}
	if cls.Sampled {
		lines = append(lines, kv("visible", fmt.Sprintf("%d/%d = %d%%", cls.Visible, cls.Total, cls.Percentage)))
	}

	history := m.Sampler.History()
	if history == nil {
		return lines
	}
	recs := history.Records(e.ID)
	values := make([]int, len(recs))
	for i, r := range recs {
		values[i] = r.Percentage
	}
	sw := max(0, width-4)
	buf := cellbuf.New(sw, 1, 0)
	buf.Sparkline(0, 0, sw, values, 100, 1)
	lines = append(lines,
		kv("history", fmt.Sprintf("%d passes", len(recs))),
		panelTextStyle.Render("  ")+buf.Render(sparkStyles),
	)
	return lines
}

func helpLines() []string {
	return []string{
		panelTextStyle.Render("  drag: move element"),
		panelTextStyle.Render("  arrows/wheel: scroll"),
		panelTextStyle.Render("  [space] sample  [p] points"),
		panelTextStyle.Render("  [h] hit mode  [o] options"),
		panelTextStyle.Render("  [x] delete  [q] quit"),
	}
}

// buildPanelLayers renders the side panel sections top to bottom.
func buildPanelLayers(m Model, panel tealayout.Region) []*lipgloss.Layer {
	pr := panel.Rect
	if pr.Dx() <= 2 || pr.Dy() <= 0 {
		return nil
	}
	x := pr.Min.X + 1
	w := pr.Dx() - 1

	layers := []*lipgloss.Layer{
		tealayout.FillLayer(panel, lipgloss.NewStyle().Background(panelBG), "panel-bg", 0),
		tealayout.VerticalSeparator(pr.Min.X, pr.Min.Y, pr.Dy(), panelSepStyle),
	}

	sections := []struct {
		id, title string
		lines     []string
	}{
		{"panel-stats", "VISIBILITY", statsLines(m)},
		{"panel-triggers", "TRIGGERS", triggerLines(m)},
		{"panel-selection", "SELECTION", selectionLines(m, w)},
		{"panel-help", "HELP", helpLines()},
	}
	y := pr.Min.Y
	for _, s := range sections {
		h := min(len(s.lines)+2, pr.Max.Y-y)
		if h <= 0 {
			break
		}
		layers = append(layers, tealayout.SectionLayer(s.id, " "+s.title, s.lines, x, y, w, h, sectionStyles))
		y += h
	}
	return layers
}

// footerText is the status line.
func footerText(m Model) string {
	sel := "none"
	if e := m.Selected(); e != nil {
		sel = fmt.Sprintf("#%d", e.ID)
		if e.Classification.Sampled {
			sel += " " + e.Classification.Label()
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, " Mouse: (%d,%d)  Origin: (%d,%d)  Sel: %s  Elements: %d",
		m.MouseX, m.MouseY, m.Cam.Origin.X, m.Cam.Origin.Y, sel, len(m.Scene.Tracked()))
	if m.Gate.Pending() {
		b.WriteString("  [frame pending]")
	}
	return b.String()
}
