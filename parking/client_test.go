package parking

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(tok string) func() string {
	return func() string { return tok }
}

func TestLoginReturnsSession(t *testing.T) {
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		sawAuth = r.Header.Get("Authorization")

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin", creds["username"])
		assert.Equal(t, "admin123", creds["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"user":         map[string]any{"id": 1, "username": "admin", "role": "admin"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	session, err := client.Login("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", session.Token)
	assert.Equal(t, "admin", session.User.Role)
	assert.Empty(t, sawAuth, "login must not carry a bearer token")
}

func TestBearerTokenOnAuthenticatedCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"users": []any{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok-123"))
	_, err := client.Users()
	require.NoError(t, err)
}

func TestErrorBodySurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Cannot delete a lot while spots are occupied"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"))
	err := client.DeleteLot(7)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Cannot delete a lot while spots are occupied", apiErr.Message)
}

func TestErrorFallbackForNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"))
	_, err := client.UserSummary()
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Message, "502")
}

func TestLotListSortsSpotsBySpotNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"parking_lots": []map[string]any{{
				"id": 1, "name": "Lot A", "address": "Main St",
				"price": 10.0, "number_of_spots": 3,
				"available_spots": 3, "occupied_spots": 0,
				"spots": []map[string]any{
					{"id": 3, "spot_number": "A3", "status": "A"},
					{"id": 1, "spot_number": "A1", "status": "A"},
					{"id": 2, "spot_number": "A2", "status": "A"},
				},
			}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"))
	lots, err := client.AdminLots()
	require.NoError(t, err)
	require.Len(t, lots, 1)

	var order []string
	for _, spot := range lots[0].Spots {
		order = append(order, spot.SpotNumber)
	}
	assert.Equal(t, []string{"A1", "A2", "A3"}, order)
}

func TestBookSendsOnlyLotID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/book", r.URL.Path)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]int64{"lot_id": 4}, body)

		json.NewEncoder(w).Encode(map[string]any{
			"message": "Spot booked",
			"reservation": map[string]any{
				"id": 9, "spot_number": "A1", "lot_name": "Lot A",
				"start_time": "2026-09-01T10:00:00", "status": "active",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"))
	reservation, err := client.Book(4)
	require.NoError(t, err)
	assert.Equal(t, "active", reservation.Status)
	assert.Nil(t, reservation.Cost)
	assert.Nil(t, reservation.EndTime)
}

func TestVacateReturnsFinalCost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/vacate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"reservation": map[string]any{
				"id": 9, "spot_number": "A1", "lot_name": "Lot A",
				"start_time": "2026-09-01T10:00:00",
				"end_time":   "2026-09-01T12:30:00",
				"cost":       25.0, "status": "completed",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"))
	reservation, err := client.Vacate()
	require.NoError(t, err)
	require.NotNil(t, reservation.Cost)
	assert.Equal(t, 25.0, *reservation.Cost)
	require.NotNil(t, reservation.EndTime)
	assert.Equal(t, "completed", reservation.Status)
}

func TestUserSummaryActiveReservation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"summary": map[string]any{
				"total_reservations":     3,
				"completed_reservations": 2,
				"total_hours":            5.5,
				"total_spent":            120.0,
				"active_reservation": map[string]any{
					"id": 11, "spot_number": "B2", "lot_name": "Lot B",
					"start_time": "2026-09-01T08:00:00", "status": "active",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"))
	summary, err := client.UserSummary()
	require.NoError(t, err)
	require.NotNil(t, summary.ActiveReservation)
	assert.Equal(t, "B2", summary.ActiveReservation.SpotNumber)
	assert.Equal(t, 3, summary.TotalReservations)
}

func TestExportCSVBytesUntouched(t *testing.T) {
	raw := []byte("id,spot,lot\r\n1,A1,Lot A\r\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/export-csv-sync", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/csv")
		w.Write(raw)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"))
	data, err := client.ExportCSV()
	require.NoError(t, err)
	assert.Equal(t, raw, data)
}

func TestUpdateLotNeverSendsSpotCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/admin/parking-lots/2", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "number_of_spots")

		json.NewEncoder(w).Encode(map[string]any{
			"parking_lot": map[string]any{"id": 2, "name": body["name"]},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"))
	lot, err := client.UpdateLot(2, LotForm{Name: "Lot B", Address: "Side St", Price: 12, NumberOfSpots: 99})
	require.NoError(t, err)
	assert.Equal(t, "Lot B", lot.Name)
}

func TestSpotDetailsNullables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/spots/5/details", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"spot":        map[string]any{"id": 5, "spot_number": "A5", "status": "A"},
			"lot":         map[string]any{"id": 1, "name": "Lot A", "price": 10.0},
			"reservation": nil,
			"user":        nil,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"))
	details, err := client.SpotDetails(5)
	require.NoError(t, err)
	assert.Equal(t, "A5", details.Spot.SpotNumber)
	require.NotNil(t, details.Lot)
	assert.Nil(t, details.Reservation)
	assert.Nil(t, details.User)
}
