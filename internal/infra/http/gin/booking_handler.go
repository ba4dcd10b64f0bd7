package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"bookflow/internal/app/dto"
	bookingsvc "bookflow/internal/app/services/booking"
	domainbooking "bookflow/internal/domain/booking"
	domainroom "bookflow/internal/domain/room"
	"bookflow/internal/domain/shared/daterange"
	domainuser "bookflow/internal/domain/user"
)

type BookingHandler struct {
	Engine *bookingsvc.Service
	Logger *slog.Logger
}

type contactRequest struct {
	Title string `json:"title"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createBookingRequest struct {
	RoomID   string         `json:"room_id"`
	CheckIn  time.Time      `json:"check_in"`
	CheckOut time.Time      `json:"check_out"`
	Guests   int            `json:"guests"`
	Contact  contactRequest `json:"contact"`
}

func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	b, err := h.Engine.CreateBooking(c.Request.Context(), bookingsvc.CreateParams{
		UserID:   domainuser.ID(p.ID),
		RoomID:   domainroom.RoomID(req.RoomID),
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Guests:   req.Guests,
		Contact: domainbooking.Contact{
			Title: domainbooking.ContactTitle(req.Contact.Title),
			Name:  req.Contact.Name,
			Email: req.Contact.Email,
		},
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	room, _ := h.Engine.Rooms.ByID(c.Request.Context(), b.RoomID)
	c.JSON(http.StatusCreated, dto.MapBooking(b, room))
}

func (h BookingHandler) List(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	status := domainbooking.Status(c.Query("status"))
	views, err := h.Engine.ListBookings(c.Request.Context(), domainuser.ID(p.ID), status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	items := make([]dto.BookingDTO, 0, len(views))
	for _, view := range views {
		items = append(items, dto.MapBooking(view.Booking, view.Room))
	}
	c.JSON(http.StatusOK, dto.BookingCollection{Items: items, Count: len(items)})
}

func (h BookingHandler) Get(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	view, err := h.Engine.GetBooking(c.Request.Context(), domainuser.ID(p.ID), domainbooking.BookingID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBooking(view.Booking, view.Room))
}

func (h BookingHandler) Cancel(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	b, err := h.Engine.CancelBooking(c.Request.Context(), domainuser.ID(p.ID), domainbooking.BookingID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	room, _ := h.Engine.Rooms.ByID(c.Request.Context(), b.RoomID)
	c.JSON(http.StatusOK, dto.MapBooking(b, room))
}

func (h BookingHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrDateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, domainroom.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, domainbooking.ErrNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": "booking belongs to another user"})
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrCheckInPast),
		errors.Is(err, domainbooking.ErrGuestsRange),
		errors.Is(err, domainbooking.ErrRoomRequired),
		errors.Is(err, domainbooking.ErrNotCancellable),
		errors.Is(err, domainbooking.ErrContactTitleInvalid),
		errors.Is(err, domainbooking.ErrContactNameRequired),
		errors.Is(err, domainbooking.ErrContactEmailInvalid),
		errors.Is(err, bookingsvc.ErrRoomUnavailable),
		errors.Is(err, bookingsvc.ErrCapacityExceeded),
		errors.Is(err, bookingsvc.ErrStatusFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("booking operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ BookingHTTP = BookingHandler{}
