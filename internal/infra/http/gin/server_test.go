package ginserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "bookflow/internal/app/services/auth"
	bookingsvc "bookflow/internal/app/services/booking"
	domainroom "bookflow/internal/domain/room"
	"bookflow/internal/infra/config"
	"bookflow/internal/infra/obs"
	"bookflow/internal/infra/security"
	"bookflow/internal/infra/storage/memory"
)

func buildTestServer(t *testing.T) (http.Handler, *memory.RoomRepository) {
	t.Helper()

	rooms := memory.NewRoomRepository()
	bookings := memory.NewBookingRepository()
	users := memory.NewUserRepository()
	tokens := security.JWTManager{Secret: "test-secret", TTL: time.Hour}

	authService := &authsvc.Service{
		Users:     users,
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    tokens,
	}
	engine := &bookingsvc.Service{
		Rooms:    rooms,
		Bookings: bookings,
		Events:   bookingsvc.NoopPublisher{},
	}

	cfg := config.Config{Env: "test", HTTPAddr: ":0", CORSOrigins: []string{"*"}}
	server := NewServer(cfg, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Auth:    AuthHandler{Service: authService},
		Room:    RoomHandler{Rooms: rooms, Engine: engine},
		Booking: BookingHandler{Engine: engine},
		AuthMiddleware: AuthMiddleware{
			Service: authService,
			Tokens:  tokens,
		}.Handle,
	})
	return server.Handler, rooms
}

func seedTestRoom(t *testing.T, rooms *memory.RoomRepository) *domainroom.Room {
	t.Helper()
	room, err := domainroom.NewRoom(domainroom.CreateParams{
		ID:          "room-1",
		Title:       "Deluxe King Room",
		Description: "Spacious room with a king-sized bed.",
		PriceCents:  15000,
		Capacity:    2,
	})
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	if err := rooms.Save(t.Context(), room); err != nil {
		t.Fatalf("Save room: %v", err)
	}
	return room
}

func registerTestUser(t *testing.T, handler http.Handler, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":"John Doe","email":%q,"password":"Password123!"}`, email)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if out.Token == "" {
		t.Fatal("register returned no token")
	}
	return out.Token
}

func newBookingRequest(token, roomID string, checkIn, checkOut time.Time) *http.Request {
	body := fmt.Sprintf(`{
		"room_id": %q,
		"check_in": %q,
		"check_out": %q,
		"guests": 2,
		"contact": {"title": "Mr", "name": "John Doe", "email": "john@example.com"}
	}`, roomID, checkIn.Format(time.RFC3339), checkOut.Format(time.RFC3339))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func searchRequest(guests int, checkIn, checkOut time.Time) *http.Request {
	body := fmt.Sprintf(`{"guests": %d, "check_in": %q, "check_out": %q}`,
		guests, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestBookingRequiresAuth(t *testing.T) {
	handler, rooms := buildTestServer(t)
	room := seedTestRoom(t, rooms)

	in := time.Now().AddDate(0, 0, 10)
	req := newBookingRequest("", string(room.ID), in, in.AddDate(0, 0, 3))
	req.Header.Del("Authorization")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	handler, rooms := buildTestServer(t)
	room := seedTestRoom(t, rooms)
	token := registerTestUser(t, handler, "john@example.com")

	in := time.Now().AddDate(0, 0, 10)
	out := in.AddDate(0, 0, 3)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, newBookingRequest(token, string(room.ID), in, out))
	if resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ID         string `json:"id"`
		Reference  string `json:"reference"`
		Status     string `json:"status"`
		Nights     int    `json:"nights"`
		TotalCents int64  `json:"total_cents"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Status != "upcoming" {
		t.Errorf("status = %q, want upcoming", created.Status)
	}
	if created.Nights != 3 || created.TotalCents != 45000 {
		t.Errorf("nights/total = %d/%d, want 3/45000", created.Nights, created.TotalCents)
	}
	if created.Reference == "" {
		t.Error("created booking has no reference")
	}

	// Same room, overlapping dates: rejected with a conflict.
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, newBookingRequest(token, string(room.ID), in.AddDate(0, 0, 2), out.AddDate(0, 0, 2)))
	if resp.Code != http.StatusConflict {
		t.Fatalf("overlap status = %d, want 409, body %s", resp.Code, resp.Body.String())
	}

	// The booking shows up in the owner's list.
	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, listReq)
	if resp.Code != http.StatusOK {
		t.Fatalf("list status = %d", resp.Code)
	}
	var listing struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listing.Count != 1 {
		t.Errorf("list count = %d, want 1", listing.Count)
	}

	// Cancel frees the dates for a new booking.
	cancelReq := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/"+created.ID, nil)
	cancelReq.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, cancelReq)
	if resp.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, body %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, newBookingRequest(token, string(room.ID), in, out))
	if resp.Code != http.StatusCreated {
		t.Fatalf("rebook status = %d, want 201, body %s", resp.Code, resp.Body.String())
	}
}

func TestBookingOwnershipOverHTTP(t *testing.T) {
	handler, rooms := buildTestServer(t)
	room := seedTestRoom(t, rooms)
	owner := registerTestUser(t, handler, "john@example.com")
	other := registerTestUser(t, handler, "jane@example.com")

	in := time.Now().AddDate(0, 0, 10)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, newBookingRequest(owner, string(room.ID), in, in.AddDate(0, 0, 2)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d", resp.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+created.ID, nil)
	getReq.Header.Set("Authorization", "Bearer "+other)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, getReq)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("foreign get status = %d, want 403", resp.Code)
	}
}

func TestRoomSearchOverHTTP(t *testing.T) {
	handler, rooms := buildTestServer(t)
	seedTestRoom(t, rooms)

	in := time.Now().AddDate(0, 0, 10)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, searchRequest(2, in, in.AddDate(0, 0, 2)))
	if resp.Code != http.StatusOK {
		t.Fatalf("search status = %d, body %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Items []struct {
			ID              string `json:"id"`
			Nights          int    `json:"nights"`
			TotalPriceCents int64  `json:"total_price_cents"`
		} `json:"items"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if out.Count != 1 || len(out.Items) != 1 {
		t.Fatalf("search count = %d, want 1", out.Count)
	}
	if out.Items[0].Nights != 2 || out.Items[0].TotalPriceCents != 30000 {
		t.Errorf("offer = %d nights / %d cents, want 2 / 30000", out.Items[0].Nights, out.Items[0].TotalPriceCents)
	}

	// Too many guests for every room: empty result, not an error.
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, searchRequest(5, in, in.AddDate(0, 0, 2)))
	if resp.Code != http.StatusOK {
		t.Fatalf("search status = %d", resp.Code)
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if out.Count != 0 {
		t.Errorf("search count = %d, want 0", out.Count)
	}
}
