// Package report renders MATSim output statistics.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ErrNoIterations is returned for a modestats file without data rows.
var ErrNoIterations = errors.New("modestats: no iterations")

// ModeStats holds the mode shares per iteration of modestats.csv.
type ModeStats struct {
	Modes      []string
	Iterations []int
	// Shares maps a mode to one share per iteration.
	Shares map[string][]float64
}

// ReadModeStats parses the file at path.
func ReadModeStats(path string) (*ModeStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ms, err := ParseModeStats(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ms, nil
}

// ParseModeStats reads the ';' separated table whose header is
// "iteration;<mode>;<mode>...".
func ParseModeStats(r io.Reader) (*ModeStats, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoIterations
		}
		return nil, fmt.Errorf("modestats header: %w", err)
	}
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "iteration") {
		return nil, fmt.Errorf("modestats: unexpected header %q", strings.Join(header, ";"))
	}
	ms := &ModeStats{Modes: header[1:], Shares: make(map[string][]float64, len(header)-1)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("modestats row: %w", err)
		}
		it, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("modestats iteration %q: %w", rec[0], err)
		}
		ms.Iterations = append(ms.Iterations, it)
		for i, mode := range ms.Modes {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("modestats %s at iteration %d: %w", mode, it, err)
			}
			ms.Shares[mode] = append(ms.Shares[mode], v)
		}
	}
	if len(ms.Iterations) == 0 {
		return nil, ErrNoIterations
	}
	return ms, nil
}

// Final returns the shares of the last iteration.
func (m *ModeStats) Final() map[string]float64 {
	out := make(map[string]float64, len(m.Modes))
	last := len(m.Iterations) - 1
	for _, mode := range m.Modes {
		out[mode] = m.Shares[mode][last]
	}
	return out
}

// Ranked lists the modes by descending final share.
func (m *ModeStats) Ranked() []string {
	final := m.Final()
	modes := append([]string(nil), m.Modes...)
	sort.SliceStable(modes, func(i, j int) bool { return final[modes[i]] > final[modes[j]] })
	return modes
}

// Chart builds a line chart with one series per mode.
func (m *ModeStats) Chart(title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Iteration"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Share"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Top: "bottom"}),
	)

	xAxis := make([]string, len(m.Iterations))
	for i, it := range m.Iterations {
		xAxis[i] = strconv.Itoa(it)
	}
	line.SetXAxis(xAxis)
	for _, mode := range m.Ranked() {
		data := make([]opts.LineData, len(m.Shares[mode]))
		for i, v := range m.Shares[mode] {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(mode, data)
	}
	return line
}

// Render writes the chart HTML to w.
func (m *ModeStats) Render(w io.Writer, title string) error {
	if err := m.Chart(title).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderFile writes the chart HTML to path.
func (m *ModeStats) RenderFile(path, title string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return m.Render(f, title)
}
