package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookflow/internal/app/dto"
	bookingsvc "bookflow/internal/app/services/booking"
	domainbooking "bookflow/internal/domain/booking"
	domainroom "bookflow/internal/domain/room"
	"bookflow/internal/domain/shared/daterange"
	"bookflow/internal/infra/storage/s3"
)

type RoomHandler struct {
	Rooms    domainroom.Repository
	Engine   *bookingsvc.Service
	Uploader s3.Uploader
	Logger   *slog.Logger
}

func (h RoomHandler) List(c *gin.Context) {
	rooms, err := h.Rooms.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	items := make([]dto.RoomDTO, 0, len(rooms))
	for _, room := range rooms {
		items = append(items, dto.MapRoom(room))
	}
	c.JSON(http.StatusOK, dto.RoomCollection{Items: items, Count: len(items)})
}

func (h RoomHandler) Get(c *gin.Context) {
	room, err := h.Rooms.ByID(c.Request.Context(), domainroom.RoomID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoom(room))
}

type searchRoomsRequest struct {
	Guests   int    `json:"guests"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func (h RoomHandler) Search(c *gin.Context) {
	var req searchRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be a date"})
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be a date"})
		return
	}
	offers, err := h.Engine.SearchRooms(c.Request.Context(), req.Guests, checkIn, checkOut)
	if err != nil {
		h.respondError(c, err)
		return
	}
	items := make([]dto.RoomOffer, 0, len(offers))
	for _, offer := range offers {
		items = append(items, dto.MapRoomOffer(offer.Room, offer.Nights, offer.TotalCents))
	}
	c.JSON(http.StatusOK, dto.RoomOfferCollection{Items: items, Count: len(items)})
}

// UploadPhoto stores the uploaded image in the object store and points
// the room at its public URL.
func (h RoomHandler) UploadPhoto(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage unavailable"})
		return
	}
	room, err := h.Rooms.ByID(c.Request.Context(), domainroom.RoomID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	key := "rooms/" + string(room.ID) + "/" + uuid.NewString() + path.Ext(header.Filename)
	url, err := h.Uploader.Upload(c.Request.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("photo upload failed", "room_id", room.ID, "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "photo upload failed"})
		return
	}
	room.SetPhotoURL(url, time.Now())
	if err := h.Rooms.Save(c.Request.Context(), room); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoom(room))
}

func (h RoomHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainroom.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrCheckInPast),
		errors.Is(err, domainbooking.ErrGuestsRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("room operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

var _ RoomHTTP = RoomHandler{}
