// Package charts renders the dashboard aggregate payloads as terminal
// graphics. Each panel owns one instance per visualization kind and follows
// the destroy-and-recreate contract: a redraw rebuilds every instance, and a
// redraw only happens when the supplied aggregate actually changed.
package charts

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/guptarohit/asciigraph"

	"parking-cli/parking"
)

// Kind identifies a chart instance within a panel.
type Kind int

const (
	Line Kind = iota
	Donut
	Bar
)

// chart is one rendered instance. The frame is the resource a redraw
// releases and recreates.
type chart struct {
	kind  Kind
	title string
	frame string
}

const plotWidth = 56

// LotPanel draws the lot-oriented aggregates: daily reservations (line),
// revenue by lot (donut), occupancy per lot (bar).
type LotPanel struct {
	out      io.Writer
	charts   []*chart
	last     *parking.AdminChartData
	rebuilds int
}

func NewLotPanel(out io.Writer) *LotPanel {
	return &LotPanel{out: out}
}

// Render shows the panel. Instances are torn down and rebuilt only when data
// differs by deep comparison from the last render; otherwise the cached
// frames are reprinted as-is.
func (p *LotPanel) Render(data parking.AdminChartData) {
	if p.charts == nil || p.last == nil || !reflect.DeepEqual(*p.last, data) {
		p.charts = nil // release old frames before recreating
		p.charts = []*chart{
			{kind: Line, title: "Weekly Reservations Trend",
				frame: lineChart(dateLabels(data.DailyReservations), dateValues(data.DailyReservations))},
			{kind: Donut, title: "Revenue by Lot", frame: donutChart(revenueRows(data.LotRevenue))},
			{kind: Bar, title: "Occupancy per Lot", frame: occupancyChart(data.LotOccupancy)},
		}
		snapshot := data
		p.last = &snapshot
		p.rebuilds++
	}
	p.print()
}

// Close releases every chart instance. The next Render starts from scratch.
func (p *LotPanel) Close() {
	p.charts = nil
	p.last = nil
}

func (p *LotPanel) print() {
	for _, c := range p.charts {
		fmt.Fprintf(p.out, "\n%s\n%s\n", c.title, c.frame)
	}
}

// UsagePanel draws the user-oriented aggregates: daily usage (line), lot
// distribution (donut), status breakdown (bar).
type UsagePanel struct {
	out      io.Writer
	charts   []*chart
	last     *parking.UserChartData
	rebuilds int
}

func NewUsagePanel(out io.Writer) *UsagePanel {
	return &UsagePanel{out: out}
}

func (p *UsagePanel) Render(data parking.UserChartData) {
	if p.charts == nil || p.last == nil || !reflect.DeepEqual(*p.last, data) {
		p.charts = nil
		p.charts = []*chart{
			{kind: Line, title: "Daily Usage (7 days)",
				frame: lineChart(dateLabels(data.DailyUsage), dateValues(data.DailyUsage))},
			{kind: Donut, title: "Lot Distribution", frame: donutChart(lotCountRows(data.LotDistribution))},
			{kind: Bar, title: "Status Breakdown", frame: countChart(data.StatusBreakdown)},
		}
		snapshot := data
		p.last = &snapshot
		p.rebuilds++
	}
	p.print()
}

func (p *UsagePanel) Close() {
	p.charts = nil
	p.last = nil
}

func (p *UsagePanel) print() {
	for _, c := range p.charts {
		fmt.Fprintf(p.out, "\n%s\n%s\n", c.title, c.frame)
	}
}

// ------------------ rendering helpers ------------------

func dateLabels(points []parking.DatePoint) []string {
	labels := make([]string, len(points))
	for i, pt := range points {
		labels[i] = pt.Date
	}
	return labels
}

func dateValues(points []parking.DatePoint) []float64 {
	values := make([]float64, len(points))
	for i, pt := range points {
		values[i] = float64(pt.Count)
	}
	return values
}

func lineChart(labels []string, values []float64) string {
	if len(values) == 0 {
		return "  (no data)"
	}
	plot := asciigraph.Plot(values,
		asciigraph.Height(8),
		asciigraph.Width(plotWidth),
		asciigraph.Offset(3),
	)
	span := ""
	if len(labels) > 0 {
		span = fmt.Sprintf("  %s .. %s", labels[0], labels[len(labels)-1])
	}
	return plot + "\n" + span
}

type donutRow struct {
	label string
	value float64
}

func revenueRows(rows []parking.LotRevenue) []donutRow {
	out := make([]donutRow, len(rows))
	for i, r := range rows {
		out[i] = donutRow{label: r.LotName, value: r.Revenue}
	}
	return out
}

func lotCountRows(rows []parking.LotCount) []donutRow {
	out := make([]donutRow, len(rows))
	for i, r := range rows {
		out[i] = donutRow{label: r.Lot, value: float64(r.Count)}
	}
	return out
}

// donutChart renders each slice as its share of the whole.
func donutChart(rows []donutRow) string {
	var total float64
	for _, r := range rows {
		total += r.value
	}
	if total == 0 {
		return "  (no data)"
	}
	var sb strings.Builder
	for _, r := range rows {
		share := r.value / total
		width := int(share*float64(plotWidth)/2 + 0.5)
		fmt.Fprintf(&sb, "  %-18s %-28s %5.1f%%\n",
			parking.Truncate(r.label, 18), strings.Repeat("█", width), share*100)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// occupancyChart renders occupied vs available per lot on one row each.
func occupancyChart(rows []parking.LotOccupancy) string {
	if len(rows) == 0 {
		return "  (no data)"
	}
	max := 0
	for _, r := range rows {
		if r.Occupied+r.Available > max {
			max = r.Occupied + r.Available
		}
	}
	if max == 0 {
		return "  (no data)"
	}
	var sb strings.Builder
	for _, r := range rows {
		occ := r.Occupied * plotWidth / 2 / max
		avail := r.Available * plotWidth / 2 / max
		fmt.Fprintf(&sb, "  %-18s %s%s %d/%d occupied\n",
			parking.Truncate(r.LotName, 18),
			strings.Repeat("█", occ), strings.Repeat("░", avail),
			r.Occupied, r.Occupied+r.Available)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// countChart renders labelled counters as horizontal bars.
func countChart(rows []parking.LabelCount) string {
	if len(rows) == 0 {
		return "  (no data)"
	}
	max := 0
	for _, r := range rows {
		if r.Count > max {
			max = r.Count
		}
	}
	if max == 0 {
		return "  (no data)"
	}
	var sb strings.Builder
	for _, r := range rows {
		width := r.Count * plotWidth / 2 / max
		fmt.Fprintf(&sb, "  %-18s %s %d\n",
			parking.Truncate(r.Label, 18), strings.Repeat("█", width), r.Count)
	}
	return strings.TrimRight(sb.String(), "\n")
}
