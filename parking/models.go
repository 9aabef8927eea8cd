package parking

import "sort"

// User is the profile the backend returns with a login and in admin listings.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"` // "admin" or "user"
	CreatedAt string `json:"created_at,omitempty"`
}

// Session is the client's copy of an authenticated login. The token string is
// opaque; expiry is only discovered when a call fails.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ParkingLot mirrors the backend lot resource. Counts are server-computed;
// the client never derives them locally.
type ParkingLot struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Address        string        `json:"address"`
	Price          float64       `json:"price"` // per hour
	NumberOfSpots  int           `json:"number_of_spots"`
	AvailableSpots int           `json:"available_spots"`
	OccupiedSpots  int           `json:"occupied_spots"`
	CreatedAt      string        `json:"created_at,omitempty"`
	Spots          []ParkingSpot `json:"spots,omitempty"`
}

// Spot status values used on the wire.
const (
	StatusAvailable = "A"
	StatusOccupied  = "O"
)

// ParkingSpot is one space within a lot.
type ParkingSpot struct {
	ID         int64  `json:"id"`
	LotID      int64  `json:"lot_id"`
	SpotNumber string `json:"spot_number"` // "A1", "B3" — lexically sortable
	Status     string `json:"status"`
}

// Reservation statuses used on the wire.
const (
	ReservationActive    = "active"
	ReservationCompleted = "completed"
)

// Reservation links a user to a spot. EndTime and Cost stay nil while the
// reservation is active; the backend fills them on vacate.
type Reservation struct {
	ID         int64    `json:"id"`
	SpotID     int64    `json:"spot_id"`
	UserID     int64    `json:"user_id"`
	SpotNumber string   `json:"spot_number"`
	LotName    string   `json:"lot_name"`
	StartTime  string   `json:"start_time"`
	EndTime    *string  `json:"end_time"`
	Cost       *float64 `json:"cost"`
	Status     string   `json:"status"`
}

// AdminSummary is the admin landing-view aggregate, recomputed by the backend
// on every fetch.
type AdminSummary struct {
	TotalLots          int     `json:"total_lots"`
	TotalSpots         int     `json:"total_spots"`
	AvailableSpots     int     `json:"available_spots"`
	OccupiedSpots      int     `json:"occupied_spots"`
	TotalUsers         int     `json:"total_users"`
	TotalReservations  int     `json:"total_reservations"`
	ActiveReservations int     `json:"active_reservations"`
	TotalRevenue       float64 `json:"total_revenue"`
	RecentReservations int     `json:"recent_reservations"`
}

// UserSummary is the user landing-view aggregate. ActiveReservation is nil
// when the user is not currently parked.
type UserSummary struct {
	TotalReservations     int          `json:"total_reservations"`
	CompletedReservations int          `json:"completed_reservations"`
	TotalHours            float64      `json:"total_hours"`
	TotalSpent            float64      `json:"total_spent"`
	ActiveReservation     *Reservation `json:"active_reservation"`
}

// DatePoint is one day of a daily series.
type DatePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// RevenuePoint is one day of the daily revenue series.
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// LotRevenue is the completed-reservation revenue attributed to one lot.
type LotRevenue struct {
	LotName string  `json:"lot_name"`
	Revenue float64 `json:"revenue"`
}

// LotOccupancy is the occupied/available split for one lot.
type LotOccupancy struct {
	LotName   string `json:"lot_name"`
	Occupied  int    `json:"occupied"`
	Available int    `json:"available"`
}

// AdminChartData is the admin charts payload.
type AdminChartData struct {
	DailyReservations []DatePoint    `json:"daily_reservations"`
	DailyRevenue      []RevenuePoint `json:"daily_revenue"`
	LotOccupancy      []LotOccupancy `json:"lot_occupancy"`
	LotRevenue        []LotRevenue   `json:"lot_revenue"`
}

// LotCount is the share of a user's reservations placed in one lot.
type LotCount struct {
	Lot   string `json:"lot"`
	Count int    `json:"count"`
}

// LabelCount is a generic labelled counter (active vs completed, etc.).
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// UserChartData is the per-user charts payload.
type UserChartData struct {
	DailyUsage      []DatePoint  `json:"daily_usage"`
	LotDistribution []LotCount   `json:"lot_distribution"`
	StatusBreakdown []LabelCount `json:"status_breakdown"`
}

// SpotDetails is the fresh per-spot fetch behind the admin grid. Spot status
// alone can't say who is parked, hence the joined reservation and user.
type SpotDetails struct {
	Spot        ParkingSpot  `json:"spot"`
	Lot         *ParkingLot  `json:"lot"`
	Reservation *Reservation `json:"reservation"`
	User        *User        `json:"user"`
}

// LotForm carries the create/edit fields for a lot. NumberOfSpots is only
// honored on create; capacity cannot be resized in place.
type LotForm struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Price         float64 `json:"price"`
	NumberOfSpots int     `json:"number_of_spots,omitempty"`
}

// SortSpots orders spots lexically by spot number, the order every grid
// renders in.
func SortSpots(spots []ParkingSpot) {
	sort.Slice(spots, func(i, j int) bool {
		return spots[i].SpotNumber < spots[j].SpotNumber
	})
}
