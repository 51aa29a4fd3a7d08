package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	minPlotWidth        = 10
	axisSeparator       = " │ "
	axisLabelWidth      = 6
	terminalWidthBackup = 80
	plotMark            = '•'
)

// PlotWidthFor returns the plot area width that fits into totalWidth columns.
func PlotWidthFor(totalWidth int) int {
	width := totalWidth - axisLabelWidth - len([]rune(axisSeparator))
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderScoreCurve plots values as a column chart. A zero width uses the
// terminal width.
func RenderScoreCurve(w io.Writer, title string, values []float64, width, height int) error {
	if len(values) == 0 {
		return nil
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if height < 2 {
		height = 2
	}
	cols := resample(values, width)
	minVal, maxVal := bounds(values)
	span := maxVal - minVal

	grid := make([][]rune, height)
	for row := range grid {
		grid[row] = []rune(strings.Repeat(" ", len(cols)))
	}
	for x, v := range cols {
		level := height / 2
		if span > 1e-9 {
			level = int(math.Round((v - minVal) / span * float64(height-1)))
		}
		grid[height-1-level][x] = plotMark
	}

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for row, line := range grid {
		label := ""
		switch row {
		case 0:
			label = formatAxis(maxVal)
		case height - 1:
			label = formatAxis(minVal)
		}
		if _, err := fmt.Fprintf(w, "%*s%s%s\n", axisLabelWidth, label, axisSeparator, string(line)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%*s%s%d sessions, latest %.0f\n", axisLabelWidth, "", axisSeparator, len(values), values[len(values)-1])
	return err
}

func formatAxis(v float64) string {
	if math.Abs(v) >= 100000 {
		return fmt.Sprintf("%.0fk", v/1000)
	}
	return fmt.Sprintf("%.0f", v)
}

// resample stretches or squeezes values onto width columns.
func resample(values []float64, width int) []float64 {
	if len(values) <= width {
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	for x := 0; x < width; x++ {
		start := x * len(values) / width
		end := (x + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[x] = sum / float64(end-start)
	}
	return out
}
