package main

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"

	"parking-cli/charts"
	"parking-cli/parking"
)

// userTab is the closed set of user dashboard tabs.
type userTab int

const (
	userLotsTab userTab = iota
	userReservationsTab
)

type userDashboard struct {
	*app
	tab          userTab
	summary      parking.UserSummary
	lots         []parking.ParkingLot
	reservations []parking.Reservation
	chartData    *parking.UserChartData
	panel        *charts.UsagePanel
}

// runUser owns the terminal for a regular user session and returns the next
// shell view.
func (a *app) runUser() view {
	d := &userDashboard{app: a, panel: charts.NewUsagePanel(a.out)}
	defer d.panel.Close()

	fmt.Fprintf(a.out, "\n=== User Dashboard — %s ===\n", a.session.User.Username)
	d.loadAll()
	d.showOverview()
	d.showLots()

	for {
		fmt.Fprint(a.out, "\nuser> ")
		if !a.in.Scan() {
			return viewQuit
		}
		fields := strings.Fields(strings.TrimSpace(a.in.Text()))
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "lots":
			d.tab = userLotsTab
			d.showLots()
		case "reservations":
			d.tab = userReservationsTab
			d.showReservations()
		case "book":
			d.book(args)
		case "vacate", "release":
			d.vacate()
		case "charts":
			d.showCharts()
		case "export":
			d.export()
		case "refresh":
			d.loadAll()
			d.showOverview()
			d.showTab()
		case "help":
			fmt.Fprintln(d.out, `Tabs:      lots | reservations
Actions:   book <lot-id> | vacate | export | charts
Other:     refresh | logout | quit`)
		case "logout":
			return a.logout()
		case "quit", "exit":
			return viewQuit
		default:
			fmt.Fprintln(a.out, "Unknown command. Type 'help' for the command list.")
		}
	}
}

func (d *userDashboard) showTab() {
	switch d.tab {
	case userLotsTab:
		d.showLots()
	case userReservationsTab:
		d.showReservations()
	}
}

// loadAll fans out the four independent fetches; a failure in one does not
// cancel the others, so the dashboard may render with partial data.
func (d *userDashboard) loadAll() {
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		lots, err := d.client.UserLots()
		if err != nil {
			d.notify.Failf("load parking lots", err)
			return
		}
		d.lots = lots
	}()
	go func() {
		defer wg.Done()
		reservations, err := d.client.Reservations()
		if err != nil {
			d.notify.Failf("load reservations", err)
			return
		}
		d.reservations = reservations
	}()
	go func() {
		defer wg.Done()
		summary, err := d.client.UserSummary()
		if err != nil {
			d.notify.Failf("load summary", err)
			return
		}
		d.summary = *summary
	}()
	go func() {
		defer wg.Done()
		data, err := d.client.UserCharts()
		if err != nil {
			d.notify.Failf("load usage charts", err)
			return
		}
		d.chartData = data
	}()
	wg.Wait()
}

func (d *userDashboard) showOverview() {
	s := d.summary
	fmt.Fprintf(d.out, "\nReservations %d | Completed %d | Hours %.1f | Spend %s\n",
		s.TotalReservations, s.CompletedReservations, s.TotalHours,
		parking.Currency(s.TotalSpent))

	if active := s.ActiveReservation; active != nil {
		fmt.Fprintf(d.out, "Currently parked: spot %s at %s since %s ('vacate' to release)\n",
			active.SpotNumber, active.LotName, parking.FormatTime(active.StartTime))
	}
}

func (d *userDashboard) showCharts() {
	if d.chartData == nil {
		fmt.Fprintln(d.out, "No chart data loaded (try 'refresh').")
		return
	}
	d.panel.Render(*d.chartData)
}

// ------------------ lots tab ------------------

func (d *userDashboard) showLots() {
	if len(d.lots) == 0 {
		fmt.Fprintln(d.out, "No parking lots available.")
		return
	}
	table := tablewriter.NewWriter(d.out)
	table.SetHeader([]string{"ID", "Name", "Address", "Price/hr", "Availability", "Booking"})
	for _, lot := range d.lots {
		table.Append([]string{
			strconv.FormatInt(lot.ID, 10),
			lot.Name,
			parking.Truncate(lot.Address, 30),
			parking.Currency(lot.Price),
			fmt.Sprintf("%d/%d", lot.AvailableSpots, lot.NumberOfSpots),
			d.bookingState(lot),
		})
	}
	table.Render()
	fmt.Fprintln(d.out, "The backend assigns the first free spot; book with 'book <lot-id>'.")
}

func (d *userDashboard) bookingState(lot parking.ParkingLot) string {
	switch {
	case lot.AvailableSpots == 0:
		return "lot full"
	case d.summary.ActiveReservation != nil:
		return "active reservation in progress"
	default:
		return "book"
	}
}

// ------------------ reservations tab ------------------

func (d *userDashboard) showReservations() {
	if len(d.reservations) == 0 {
		fmt.Fprintln(d.out, "No reservations yet.")
		return
	}
	table := tablewriter.NewWriter(d.out)
	table.SetHeader([]string{"ID", "Spot", "Lot", "Start", "End", "Cost", "Status"})
	for _, r := range d.reservations {
		end := "Active"
		if r.EndTime != nil {
			end = parking.FormatTime(*r.EndTime)
		}
		cost := "Pending"
		if r.Cost != nil {
			cost = parking.Currency(*r.Cost)
		}
		table.Append([]string{
			strconv.FormatInt(r.ID, 10),
			r.SpotNumber,
			r.LotName,
			parking.FormatTime(r.StartTime),
			end,
			cost,
			r.Status,
		})
	}
	table.Render()
}

// ------------------ actions ------------------

// book sends only the lot ID; spot allocation is the backend's call. The
// local guards mirror the disabled button states, not a security boundary.
func (d *userDashboard) book(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.out, "Usage: book <lot-id>")
		return
	}
	lotID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(d.out, "Invalid lot ID: %s\n", args[0])
		return
	}
	if d.summary.ActiveReservation != nil {
		d.notify.Errorf("Release your current spot before booking another")
		return
	}
	for _, lot := range d.lots {
		if lot.ID == lotID && lot.AvailableSpots == 0 {
			d.notify.Errorf("Lot %s is full", lot.Name)
			return
		}
	}

	if _, err := d.client.Book(lotID); err != nil {
		d.notify.Failf("book spot", err)
		return
	}
	d.notify.Success("Spot allocated successfully!")
	d.loadAll()
	d.showOverview()
}

func (d *userDashboard) vacate() {
	if d.summary.ActiveReservation == nil {
		d.notify.Errorf("No active reservation to release")
		return
	}
	if !d.confirm("Release your current spot?") {
		return
	}
	reservation, err := d.client.Vacate()
	if err != nil {
		d.notify.Failf("vacate spot", err)
		return
	}
	d.notify.Success("Spot released. Total cost: %s", parking.CurrencyPtr(reservation.Cost))
	d.loadAll()
	d.showOverview()
}

func (d *userDashboard) export() {
	name, err := d.exportHistory()
	if err != nil {
		d.notify.Failf("export CSV", err)
		return
	}
	d.notify.Success("CSV exported to %s", name)
}
