package api

import (
	"errors"
	"net/http"

	"staybook/internal/domain/booking"
	reqdto "staybook/internal/handler/dto/request"
	resdto "staybook/internal/handler/dto/response"
	"staybook/internal/handler/httperr"
	"staybook/internal/handler/middleware"
	"staybook/internal/infra"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Book a hotel room
// @Description Create a booking for a hotel room and date range
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/user/bookHotel [post]
func (h *BookingHandler) BookHotel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user context"), "Internal server error")
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "All fields are required")
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date format, use YYYY-MM-DD")
		return
	}

	result, err := h.bookingCommands.CreateBooking(c.Request.Context(), cmd, userID)
	if err != nil {
		h.abortCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView("Hotel booked successfully", result.Booking))
}

// @Summary List my bookings
// @Description List bookings for the authenticated guest, optionally filtered by status
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Booking status filter"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/user/getBookingByUserId [get]
func (h *BookingHandler) GetBookingsByUser(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user context"), "Internal server error")
		return
	}

	var statusFilter *booking.Status
	if raw := c.Query("status"); raw != "" {
		st := booking.Status(raw)
		if !st.IsValid() {
			httperr.AbortWithError(c, http.StatusBadRequest, booking.ErrInvalidStatus, "Invalid booking status")
			return
		}
		statusFilter = &st
	}

	views, err := h.bookingQueries.ListByUser(c.Request.Context(), userID, statusFilter)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}
	if len(views) == 0 {
		httperr.AbortWithError(c, http.StatusNotFound, errors.New("no bookings for user"), "No bookings found")
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews("Bookings fetched successfully", views))
}

// @Summary Get one booking
// @Description Fetch a booking by its human-readable reference
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingId query string true "Booking reference"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/user/getBookingById [get]
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	reference := c.Query("bookingId")
	if reference == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errors.New("missing bookingId"), "Booking ID is required")
		return
	}

	view, err := h.bookingQueries.GetByReference(c.Request.Context(), reference)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found")
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView("Booking fetched successfully", view))
}

// @Summary Update booking status
// @Description Move a booking to a new lifecycle status
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpdateBookingStatusRequest true "Status update"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/user/updateBookingStatus [post]
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req reqdto.UpdateBookingStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Booking ID and status are required")
		return
	}

	view, err := h.bookingCommands.UpdateStatus(c.Request.Context(), req.BookingID, req.BookingStatus)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidStatus):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking status")
		case errors.Is(err, booking.ErrTransitionNotAllowed):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Status transition not allowed")
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView("Booking status updated successfully", view))
}

// @Summary Cancel booking
// @Description Cancel the caller's booking with a reason
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CancelBookingRequest true "Cancellation request"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/user/cancelBooking [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user context"), "Internal server error")
		return
	}

	var req reqdto.CancelBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Booking ID and cancellation reason are required")
		return
	}

	view, err := h.bookingCommands.CancelBooking(c.Request.Context(), req.BookingID, userID, req.CancelReason)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found")
		case errors.Is(err, booking.ErrAlreadyCancelled):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking is already cancelled")
		case errors.Is(err, booking.ErrCancelReasonRequired):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Cancellation reason is required")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView("Booking cancelled successfully", view))
}

// @Summary List bookings for my hotels
// @Description List bookings across all hotels owned by the authenticated owner
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BookingListResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/user/getBookingByOwnerId [get]
func (h *BookingHandler) GetBookingsByOwner(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user context"), "Internal server error")
		return
	}

	views, err := h.bookingQueries.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}
	if len(views) == 0 {
		httperr.AbortWithError(c, http.StatusNotFound, errors.New("no bookings for owner"), "No bookings found")
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews("Bookings fetched successfully", views))
}

func (h *BookingHandler) abortCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrHotelNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Hotel not found")
	case errors.Is(err, commands.ErrHotelUnavailable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Hotel is not available for booking")
	case errors.Is(err, commands.ErrRoomUnavailable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Room is already booked for the selected dates")
	case errors.Is(err, booking.ErrInvalidStayDates):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Check-out date must be after check-in date")
	case errors.Is(err, booking.ErrCheckInInPast):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Check-in date cannot be in the past")
	case errors.Is(err, booking.ErrAdvanceWindow):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Check-in date is beyond the advance-booking window")
	case errors.Is(err, booking.ErrNoAdults):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "At least one adult is required")
	case errors.Is(err, booking.ErrNegativeChildren):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Children count cannot be negative")
	case errors.Is(err, booking.ErrNegativePrice):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Price cannot be negative")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}
