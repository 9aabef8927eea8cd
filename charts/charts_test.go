package charts

import (
	"bytes"
	"strings"
	"testing"

	"parking-cli/parking"
)

func adminData() parking.AdminChartData {
	return parking.AdminChartData{
		DailyReservations: []parking.DatePoint{
			{Date: "2026-08-26", Count: 2},
			{Date: "2026-08-27", Count: 5},
			{Date: "2026-08-28", Count: 3},
		},
		LotRevenue: []parking.LotRevenue{
			{LotName: "Lot A", Revenue: 300},
			{LotName: "Lot B", Revenue: 100},
		},
		LotOccupancy: []parking.LotOccupancy{
			{LotName: "Lot A", Occupied: 3, Available: 7},
			{LotName: "Lot B", Occupied: 0, Available: 5},
		},
	}
}

func TestLotPanelRedrawsOnlyOnChange(t *testing.T) {
	var buf bytes.Buffer
	panel := NewLotPanel(&buf)

	data := adminData()
	panel.Render(data)
	if panel.rebuilds != 1 {
		t.Fatalf("first render: rebuilds = %d, want 1", panel.rebuilds)
	}

	// Deeply equal payload: instances must survive untouched.
	panel.Render(adminData())
	if panel.rebuilds != 1 {
		t.Fatalf("equal render: rebuilds = %d, want 1", panel.rebuilds)
	}

	changed := adminData()
	changed.LotOccupancy[0].Occupied = 9
	changed.LotOccupancy[0].Available = 1
	panel.Render(changed)
	if panel.rebuilds != 2 {
		t.Fatalf("changed render: rebuilds = %d, want 2", panel.rebuilds)
	}
}

func TestLotPanelCloseReleasesInstances(t *testing.T) {
	var buf bytes.Buffer
	panel := NewLotPanel(&buf)

	panel.Render(adminData())
	panel.Close()
	if panel.charts != nil || panel.last != nil {
		t.Fatal("Close must drop chart instances and the cached aggregate")
	}

	// Same data after Close still rebuilds from scratch.
	panel.Render(adminData())
	if panel.rebuilds != 2 {
		t.Fatalf("render after close: rebuilds = %d, want 2", panel.rebuilds)
	}
}

func TestLotPanelOutputHasAllThreeCharts(t *testing.T) {
	var buf bytes.Buffer
	panel := NewLotPanel(&buf)
	panel.Render(adminData())

	out := buf.String()
	for _, title := range []string{"Weekly Reservations Trend", "Revenue by Lot", "Occupancy per Lot"} {
		if !strings.Contains(out, title) {
			t.Errorf("output missing %q", title)
		}
	}
	if !strings.Contains(out, "3/10 occupied") {
		t.Errorf("occupancy row missing:\n%s", out)
	}
	if !strings.Contains(out, "75.0%") || !strings.Contains(out, "25.0%") {
		t.Errorf("revenue shares missing:\n%s", out)
	}
}

func TestUsagePanelRedrawContract(t *testing.T) {
	data := parking.UserChartData{
		DailyUsage: []parking.DatePoint{{Date: "2026-08-28", Count: 1}, {Date: "2026-08-29", Count: 2}},
		LotDistribution: []parking.LotCount{
			{Lot: "Lot A", Count: 3},
			{Lot: "Lot B", Count: 1},
		},
		StatusBreakdown: []parking.LabelCount{
			{Label: "active", Count: 1},
			{Label: "completed", Count: 3},
		},
	}

	var buf bytes.Buffer
	panel := NewUsagePanel(&buf)
	panel.Render(data)
	panel.Render(data)
	if panel.rebuilds != 1 {
		t.Fatalf("rebuilds = %d, want 1", panel.rebuilds)
	}

	out := buf.String()
	for _, title := range []string{"Daily Usage (7 days)", "Lot Distribution", "Status Breakdown"} {
		if !strings.Contains(out, title) {
			t.Errorf("output missing %q", title)
		}
	}
}

func TestEmptySeriesRenderPlaceholders(t *testing.T) {
	if got := lineChart(nil, nil); !strings.Contains(got, "no data") {
		t.Errorf("empty line chart = %q", got)
	}
	if got := donutChart(nil); !strings.Contains(got, "no data") {
		t.Errorf("empty donut = %q", got)
	}
	if got := occupancyChart(nil); !strings.Contains(got, "no data") {
		t.Errorf("empty occupancy = %q", got)
	}
	if got := countChart([]parking.LabelCount{{Label: "active", Count: 0}}); !strings.Contains(got, "no data") {
		t.Errorf("zero counts = %q", got)
	}
}
