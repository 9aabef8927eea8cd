package parking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client wraps the parking backend's REST API. It holds the base URL and a
// token accessor so callers never touch headers themselves; every view gets
// handed a constructed *Client rather than reaching for a package global.
type Client struct {
	base  string
	http  *http.Client
	token func() string
}

// NewClient builds a client for the API rooted at baseURL (without the /api
// suffix). token is consulted per request and may return "" before login.
func NewClient(baseURL string, token func() string) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		base:  strings.TrimRight(baseURL, "/") + "/api",
		http:  &http.Client{Timeout: 15 * time.Second},
		token: token,
	}
}

// do issues one request and decodes the JSON response into out (skipped when
// out is nil). Errors are reported once to the caller; nothing is retried.
func (c *Client) do(method, path string, payload, out any) error {
	body, err := c.raw(method, path, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// raw issues one request and returns the response body bytes untouched.
func (c *Client) raw(method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Surface the backend's own message when it sent one.
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, apiError(resp.StatusCode, e.Error)
		}
		return nil, apiError(resp.StatusCode, "")
	}
	return body, nil
}

// ------------------ Auth ------------------

// Login exchanges credentials for a session. The wire field is access_token.
func (c *Client) Login(username, password string) (*Session, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	creds := map[string]string{"username": username, "password": password}
	if err := c.do(http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &Session{Token: resp.AccessToken, User: resp.User}, nil
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(username, password string) error {
	creds := map[string]string{"username": username, "password": password}
	return c.do(http.MethodPost, "/auth/register", creds, nil)
}

// ------------------ Admin ------------------

func (c *Client) AdminSummary() (*AdminSummary, error) {
	var resp struct {
		Summary AdminSummary `json:"summary"`
	}
	if err := c.do(http.MethodGet, "/admin/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Summary, nil
}

// AdminLots lists every lot with its spots, spots sorted by spot number.
func (c *Client) AdminLots() ([]ParkingLot, error) {
	return c.lots("/admin/parking-lots")
}

func (c *Client) CreateLot(form LotForm) (*ParkingLot, error) {
	var resp struct {
		Lot ParkingLot `json:"parking_lot"`
	}
	if err := c.do(http.MethodPost, "/admin/parking-lots", form, &resp); err != nil {
		return nil, err
	}
	return &resp.Lot, nil
}

// UpdateLot edits name/address/price in place. Capacity is not editable, so
// the spot count is never sent.
func (c *Client) UpdateLot(id int64, form LotForm) (*ParkingLot, error) {
	form.NumberOfSpots = 0
	var resp struct {
		Lot ParkingLot `json:"parking_lot"`
	}
	path := fmt.Sprintf("/admin/parking-lots/%d", id)
	if err := c.do(http.MethodPut, path, form, &resp); err != nil {
		return nil, err
	}
	return &resp.Lot, nil
}

func (c *Client) DeleteLot(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/admin/parking-lots/%d", id), nil, nil)
}

func (c *Client) Users() ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	if err := c.do(http.MethodGet, "/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// SpotDetails fetches the live occupancy record for one spot.
func (c *Client) SpotDetails(spotID int64) (*SpotDetails, error) {
	var details SpotDetails
	path := fmt.Sprintf("/admin/spots/%d/details", spotID)
	if err := c.do(http.MethodGet, path, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) AdminCharts() (*AdminChartData, error) {
	var data AdminChartData
	if err := c.do(http.MethodGet, "/admin/charts", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ------------------ User ------------------

func (c *Client) UserLots() ([]ParkingLot, error) {
	return c.lots("/user/parking-lots")
}

func (c *Client) Reservations() ([]Reservation, error) {
	var resp struct {
		Reservations []Reservation `json:"reservations"`
	}
	if err := c.do(http.MethodGet, "/user/reservations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reservations, nil
}

func (c *Client) UserSummary() (*UserSummary, error) {
	var resp struct {
		Summary UserSummary `json:"summary"`
	}
	if err := c.do(http.MethodGet, "/user/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Summary, nil
}

func (c *Client) UserCharts() (*UserChartData, error) {
	var data UserChartData
	if err := c.do(http.MethodGet, "/user/charts", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Book requests a spot in the given lot. The backend picks the spot; the
// client only names the lot.
func (c *Client) Book(lotID int64) (*Reservation, error) {
	var resp struct {
		Reservation Reservation `json:"reservation"`
	}
	body := map[string]int64{"lot_id": lotID}
	if err := c.do(http.MethodPost, "/user/book", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Reservation, nil
}

// Vacate releases the active reservation and returns it with the final cost
// and end time filled in.
func (c *Client) Vacate() (*Reservation, error) {
	var resp struct {
		Reservation Reservation `json:"reservation"`
	}
	if err := c.do(http.MethodPost, "/user/vacate", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp.Reservation, nil
}

// ExportCSV fetches the reservation-history artifact. The bytes are whatever
// the backend generated, returned untouched.
func (c *Client) ExportCSV() ([]byte, error) {
	return c.raw(http.MethodGet, "/user/export-csv-sync", nil)
}

// ------------------ Misc ------------------

// Health probes the backend so the shell can warn early when it is down.
func (c *Client) Health() error {
	return c.do(http.MethodGet, "/health", nil, nil)
}

func (c *Client) lots(path string) ([]ParkingLot, error) {
	var resp struct {
		Lots []ParkingLot `json:"parking_lots"`
	}
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Lots {
		SortSpots(resp.Lots[i].Spots)
	}
	return resp.Lots, nil
}
