package main

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"parking-cli/charts"
	"parking-cli/parking"
)

// adminTab is the closed set of admin dashboard tabs.
type adminTab int

const (
	adminHome adminTab = iota
	adminSummaryTab
	adminUsersTab
	adminSearchTab
)

type adminDashboard struct {
	*app
	tab     adminTab
	summary parking.AdminSummary
	lots    []parking.ParkingLot
	users   []parking.User
	panel   *charts.LotPanel
}

// runAdmin owns the terminal for an admin session and returns the next shell
// view (login after logout, or quit).
func (a *app) runAdmin() view {
	d := &adminDashboard{app: a, panel: charts.NewLotPanel(a.out)}
	defer d.panel.Close()

	fmt.Fprintf(a.out, "\n=== Admin Dashboard — %s ===\n", a.session.User.Username)
	d.loadAll()
	d.showHome()

	for {
		fmt.Fprint(a.out, "\nadmin> ")
		if !a.in.Scan() {
			return viewQuit
		}
		fields := strings.Fields(strings.TrimSpace(a.in.Text()))
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "home":
			d.tab = adminHome
			d.showHome()
		case "summary":
			d.tab = adminSummaryTab
			d.showSummary()
		case "users":
			d.tab = adminUsersTab
			d.showUsers()
		case "search":
			d.tab = adminSearchTab
			d.showSearch(strings.Join(args, " "))
		case "spot":
			d.showSpotDetails(args)
		case "create":
			d.lotForm(nil)
		case "edit":
			if lot := d.lotByArg(args); lot != nil {
				d.lotForm(lot)
			}
		case "delete":
			if lot := d.lotByArg(args); lot != nil {
				d.deleteLot(lot)
			}
		case "refresh":
			d.loadAll()
			a.notify.Success("Dashboard refreshed successfully")
			d.showTab()
		case "help":
			d.showHelp()
		case "logout":
			return a.logout()
		case "quit", "exit":
			return viewQuit
		default:
			fmt.Fprintln(a.out, "Unknown command. Type 'help' for the command list.")
		}
	}
}

func (d *adminDashboard) showHelp() {
	fmt.Fprintln(d.out, `Tabs:      home | summary | users | search [term]
Lots:      create | edit <lot-id> | delete <lot-id> | spot <spot-id>
Other:     refresh | logout | quit`)
}

// showTab re-renders whichever tab is active.
func (d *adminDashboard) showTab() {
	switch d.tab {
	case adminHome:
		d.showHome()
	case adminSummaryTab:
		d.showSummary()
	case adminUsersTab:
		d.showUsers()
	case adminSearchTab:
		d.showSearch("")
	}
}

// loadAll fans out the independent dashboard fetches. Each failure is
// reported on its own; the dashboard renders whatever did load.
func (d *adminDashboard) loadAll() {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		summary, err := d.client.AdminSummary()
		if err != nil {
			d.notify.Failf("refresh dashboard summary", err)
			return
		}
		d.summary = *summary
	}()
	go func() {
		defer wg.Done()
		lots, err := d.client.AdminLots()
		if err != nil {
			d.notify.Failf("load parking lots", err)
			return
		}
		d.lots = lots
	}()
	go func() {
		defer wg.Done()
		users, err := d.client.Users()
		if err != nil {
			d.notify.Failf("fetch users", err)
			return
		}
		d.users = users
	}()
	wg.Wait()
}

// ------------------ home tab ------------------

func (d *adminDashboard) showHome() {
	s := d.summary
	fmt.Fprintf(d.out, "\nLots %d | Spots %d | Available %d | Occupied %d\n",
		s.TotalLots, s.TotalSpots, s.AvailableSpots, s.OccupiedSpots)
	fmt.Fprintf(d.out, "Users %d | Reservations %d (%d active, %d this week) | Revenue %s\n",
		s.TotalUsers, s.TotalReservations, s.ActiveReservations,
		s.RecentReservations, parking.Currency(s.TotalRevenue))

	if len(d.lots) == 0 {
		fmt.Fprintln(d.out, "\nNo parking lots created yet. Use 'create' to get started.")
		return
	}
	for _, lot := range d.lots {
		d.printLot(lot, true)
	}
}

func (d *adminDashboard) printLot(lot parking.ParkingLot, withGrid bool) {
	fmt.Fprintf(d.out, "\n#%d %s — %s  [%s/hr]  available %d/%d\n",
		lot.ID, lot.Name, lot.Address, parking.Currency(lot.Price),
		lot.AvailableSpots, lot.NumberOfSpots)
	if !withGrid {
		return
	}
	free := color.New(color.FgGreen)
	taken := color.New(color.FgRed)
	for i, spot := range lot.Spots {
		if i > 0 && i%8 == 0 {
			fmt.Fprintln(d.out)
		}
		chip := fmt.Sprintf("[%s %s#%d]", spot.SpotNumber, spot.Status, spot.ID)
		if spot.Status == parking.StatusAvailable {
			free.Fprintf(d.out, "%-14s", chip)
		} else {
			taken.Fprintf(d.out, "%-14s", chip)
		}
	}
	if len(lot.Spots) > 0 {
		fmt.Fprintln(d.out)
	}
}

// ------------------ summary tab ------------------

// showSummary refetches the chart data every time the tab is entered;
// aggregates are never cached across tab switches.
func (d *adminDashboard) showSummary() {
	data, err := d.client.AdminCharts()
	if err != nil {
		d.notify.Failf("load charts", err)
		return
	}
	d.panel.Render(*data)
}

// ------------------ users tab ------------------

func (d *adminDashboard) showUsers() {
	if len(d.users) == 0 {
		fmt.Fprintln(d.out, "No users loaded.")
		return
	}
	table := tablewriter.NewWriter(d.out)
	table.SetHeader([]string{"ID", "Username", "Role", "Created At"})
	for _, u := range d.users {
		table.Append([]string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.Role,
			parking.FormatTime(u.CreatedAt),
		})
	}
	table.Render()
}

// ------------------ search tab ------------------

// showSearch filters the already-fetched lot list; no backend query runs.
func (d *adminDashboard) showSearch(term string) {
	if term == "" {
		var ok bool
		if term, ok = d.prompt("Search lot or address"); !ok {
			return
		}
	}
	matched := parking.FilterLots(d.lots, term)
	if len(matched) == 0 {
		fmt.Fprintln(d.out, "No parking lots match your search.")
		return
	}
	for _, lot := range matched {
		d.printLot(lot, true)
	}
}

// ------------------ spot details ------------------

func (d *adminDashboard) showSpotDetails(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.out, "Usage: spot <spot-id>")
		return
	}
	spotID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(d.out, "Invalid spot ID: %s\n", args[0])
		return
	}

	// Always fetched fresh: spot status alone cannot say who is parked.
	details, err := d.client.SpotDetails(spotID)
	if err != nil {
		d.notify.Failf("fetch spot details", err)
		return
	}

	status := "Occupied"
	if details.Spot.Status == parking.StatusAvailable {
		status = "Available"
	}
	fmt.Fprintf(d.out, "\nSpot %s — %s\n", details.Spot.SpotNumber, status)
	if details.Lot != nil {
		fmt.Fprintf(d.out, "Lot: %s (%s/hr)\n", details.Lot.Name, parking.Currency(details.Lot.Price))
	}
	if details.Reservation != nil && details.User != nil {
		fmt.Fprintf(d.out, "Parked: %s since %s (reservation #%d)\n",
			details.User.Username,
			parking.FormatTime(details.Reservation.StartTime),
			details.Reservation.ID)
	} else {
		fmt.Fprintln(d.out, "No vehicles parked in this spot right now.")
	}
}

// ------------------ lot CRUD ------------------

func (d *adminDashboard) lotByArg(args []string) *parking.ParkingLot {
	if len(args) != 1 {
		fmt.Fprintln(d.out, "Usage: edit|delete <lot-id>")
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(d.out, "Invalid lot ID: %s\n", args[0])
		return nil
	}
	for i := range d.lots {
		if d.lots[i].ID == id {
			return &d.lots[i]
		}
	}
	fmt.Fprintf(d.out, "No lot with ID %d in the current list (try 'refresh').\n", id)
	return nil
}

// lotForm serves both create and edit; editing never changes the spot count
// since capacity cannot be resized in place.
func (d *adminDashboard) lotForm(editing *parking.ParkingLot) {
	form := parking.LotForm{}
	defName, defAddress, defPrice := "", "", ""
	if editing != nil {
		defName = editing.Name
		defAddress = editing.Address
		defPrice = strconv.FormatFloat(editing.Price, 'f', -1, 64)
	}

	name, ok := d.promptDefault("Name", defName)
	if !ok || name == "" {
		fmt.Fprintln(d.out, "Name is required.")
		return
	}
	address, ok := d.promptDefault("Address", defAddress)
	if !ok || address == "" {
		fmt.Fprintln(d.out, "Address is required.")
		return
	}
	priceText, ok := d.promptDefault("Price per hour", defPrice)
	if !ok {
		return
	}
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || price < 0 {
		fmt.Fprintf(d.out, "Invalid price: %s\n", priceText)
		return
	}
	form.Name, form.Address, form.Price = name, address, price

	if editing == nil {
		spotsText, ok := d.prompt("Number of spots")
		if !ok {
			return
		}
		spots, err := strconv.Atoi(spotsText)
		if err != nil || spots < 1 {
			fmt.Fprintf(d.out, "Invalid spot count: %s\n", spotsText)
			return
		}
		form.NumberOfSpots = spots

		if _, err := d.client.CreateLot(form); err != nil {
			d.notify.Failf("save parking lot", err)
			return
		}
		d.notify.Success("Lot created successfully")
	} else {
		if _, err := d.client.UpdateLot(editing.ID, form); err != nil {
			d.notify.Failf("save parking lot", err)
			return
		}
		d.notify.Success("Lot updated successfully")
	}
	d.reloadLots()
}

// deleteLot refuses while any spot is occupied; the backend enforces the
// same rule, this guard just saves a round trip.
func (d *adminDashboard) deleteLot(lot *parking.ParkingLot) {
	if lot.OccupiedSpots > 0 {
		d.notify.Errorf("Vacate all spots before deleting this lot")
		return
	}
	if !d.confirm(fmt.Sprintf("Delete %s? This action cannot be undone.", lot.Name)) {
		return
	}
	if err := d.client.DeleteLot(lot.ID); err != nil {
		d.notify.Failf("delete parking lot", err)
		return
	}
	d.notify.Success("Parking lot deleted")
	d.reloadLots()
}

// reloadLots refetches lots and summary after a mutation; the client never
// patches its copies locally.
func (d *adminDashboard) reloadLots() {
	if lots, err := d.client.AdminLots(); err != nil {
		d.notify.Failf("load parking lots", err)
	} else {
		d.lots = lots
	}
	if summary, err := d.client.AdminSummary(); err != nil {
		d.notify.Failf("refresh dashboard summary", err)
	} else {
		d.summary = *summary
	}
}
