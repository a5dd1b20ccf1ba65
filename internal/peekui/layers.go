package peekui

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wesen/viewpeek/pkg/cellbuf"
	"github.com/wesen/viewpeek/pkg/drawutil"
	"github.com/wesen/viewpeek/pkg/scene"
	"github.com/wesen/viewpeek/pkg/visibility"
)

// Element layers are stacked above the canvas background in paint order.
const elementZBase = 10

const nodeLayerPrefix = "node-"

// cellbuf style keys for the canvas background layer.
const (
	styleBG    cellbuf.StyleKey = 0
	styleGrid  cellbuf.StyleKey = 1
	styleGhost cellbuf.StyleKey = 2
	styleArrow cellbuf.StyleKey = 3
)

var bufStyles = map[cellbuf.StyleKey]lipgloss.Style{
	styleBG:    lipgloss.NewStyle().Foreground(c("#1a3a2a")).Background(colorBG),
	styleGrid:  lipgloss.NewStyle().Foreground(c("#0e2e20")).Background(colorBG),
	styleGhost: lipgloss.NewStyle().Foreground(c("#665522")).Background(colorBG),
	styleArrow: lipgloss.NewStyle().Foreground(dragBorder).Background(colorBG).Bold(true),
}

// nodeLayerID names the layer of a scene node.
func nodeLayerID(id visibility.ID) string {
	return nodeLayerPrefix + strconv.Itoa(int(id))
}

// parseNodeLayerID maps a layer ID back to its scene node.
func parseNodeLayerID(layerID string) (visibility.ID, bool) {
	rest, ok := strings.CutPrefix(layerID, nodeLayerPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return visibility.ID(n), true
}

// buildCanvasLayer renders the grid and the drag ghost/arrow into a
// cellbuf and returns it as the Z=0 background of the canvas.
func buildCanvasLayer(m Model, canvas image.Rectangle) *lipgloss.Layer {
	w, h := canvas.Dx(), canvas.Dy()
	if w <= 0 || h <= 0 {
		return lipgloss.NewLayer("").X(canvas.Min.X).Y(canvas.Min.Y).Z(0)
	}
	buf := cellbuf.New(w, h, styleBG)
	origin := m.Cam.Origin
	drawutil.Grid(buf, origin, image.Pt(6, 3), styleGrid)

	if m.Drag.Active() {
		drawutil.DashedRect(buf, m.DragStart.Sub(origin), styleGhost)
		from := scene.Center(m.DragStart).Sub(origin)
		if e := m.Scene.Element(m.Drag.Target()); e != nil {
			to := scene.Center(e.Bounds).Sub(origin)
			drawutil.Arrow(buf, from, to, styleArrow, styleArrow)
		}
	}

	return lipgloss.NewLayer(buf.Render(bufStyles)).X(canvas.Min.X).Y(canvas.Min.Y).Z(0).ID("canvas")
}

// buildNodeLayers creates one layer per scene node intersecting the
// canvas, clipped to it, with Z following the scene's paint order.
func buildNodeLayers(m Model, canvas image.Rectangle) []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	dragging := m.Drag.Active()

	for i, e := range m.Scene.Elements() {
		screen := e.Bounds.Sub(m.Cam.Origin).Add(canvas.Min)
		vis := screen.Intersect(canvas)
		if vis.Empty() {
			continue
		}
		crop := vis.Sub(screen.Min)

		var content string
		switch {
		case e.Tracked:
			selected := m.HasSelection && e.ID == m.SelectedID
			content = elementStyle(e, selected, dragging && e.ID == m.Drag.Target()).
				Render(cropRunes(boxRunes(screen.Dx(), screen.Dy(), fillRune(e)), crop))
		default:
			content = childStyle(m.Scene, e).Render(cropRunes(textRunes(e.Text, screen.Dx(), screen.Dy()), crop))
		}

		layers = append(layers, lipgloss.NewLayer(content).
			X(vis.Min.X).Y(vis.Min.Y).Z(elementZBase+i).
			ID(nodeLayerID(e.ID)))
	}
	return layers
}

// buildPointLayers marks the sample points of the last pass: green where
// the element was found, red where something covered it.
func buildPointLayers(m Model, canvas image.Rectangle, z int) []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	for _, res := range m.Report.Results {
		for _, pt := range res.Points {
			col := markMissed
			switch pt.Outcome {
			case visibility.PointVisible:
				col = markVisible
			case visibility.PointOccluded:
				col = markOccluded
			case visibility.PointOutside:
				continue
			}
			sp := pt.At.Add(canvas.Min)
			if !sp.In(canvas) {
				continue
			}
			layers = append(layers, lipgloss.NewLayer(lipgloss.NewStyle().Foreground(col).Bold(true).Render("•")).
				X(sp.X).Y(sp.Y).Z(z).
				ID(fmt.Sprintf("pt-%d-%d-%d", res.ID, sp.X, sp.Y)))
		}
	}
	return layers
}

func elementStyle(e *scene.Element, selected, dragging bool) lipgloss.Style {
	cls := e.Classification
	st := lipgloss.NewStyle().Foreground(borderColor(cls.Sampled, cls.InView, selected, dragging))
	if cls.InView {
		return st.Background(c(e.Color))
	}
	return st.Background(colorDim)
}

func childStyle(s *scene.Scene, e *scene.Element) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(labelText).Bold(true).Background(colorDim)
	if p, ok := s.Parent(e.ID); ok {
		if pe := s.Element(p); pe != nil && pe.InView() {
			st = st.Background(c(pe.Color))
		}
	}
	return st
}

func fillRune(e *scene.Element) rune {
	if e.Classification.Sampled && !e.InView() {
		return '░'
	}
	return ' '
}

// blankRunes returns a w×h block of fill.
func blankRunes(w, h int, fill rune) [][]rune {
	grid := make([][]rune, h)
	for y := range grid {
		row := make([]rune, w)
		for x := range row {
			row[x] = fill
		}
		grid[y] = row
	}
	return grid
}

// boxRunes draws a w×h box with a single-line border.
func boxRunes(w, h int, fill rune) [][]rune {
	grid := blankRunes(w, h, fill)
	if w < 2 || h < 2 {
		return grid
	}
	for x := 1; x < w-1; x++ {
		grid[0][x] = '─'
		grid[h-1][x] = '─'
	}
	for y := 1; y < h-1; y++ {
		grid[y][0] = '│'
		grid[y][w-1] = '│'
	}
	grid[0][0], grid[0][w-1] = '┌', '┐'
	grid[h-1][0], grid[h-1][w-1] = '└', '┘'
	return grid
}

// textRunes left-aligns text in a w×h block.
func textRunes(text string, w, h int) [][]rune {
	grid := blankRunes(w, h, ' ')
	if h > 0 {
		for i, r := range []rune(text) {
			if i >= w {
				break
			}
			grid[0][i] = r
		}
	}
	return grid
}

// cropRunes returns the rows and columns of grid inside r as text.
func cropRunes(grid [][]rune, r image.Rectangle) string {
	lines := make([]string, 0, r.Dy())
	for y := r.Min.Y; y < r.Max.Y && y < len(grid); y++ {
		row := grid[y]
		lines = append(lines, string(row[max(0, r.Min.X):min(len(row), r.Max.X)]))
	}
	return strings.Join(lines, "\n")
}
