package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/hospital-booking-service/internal/config"
	"github.com/suchimauz/hospital-booking-service/internal/core/domain"
	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/in"
	"github.com/suchimauz/hospital-booking-service/internal/core/ports/out"
)

type BookingController struct {
	booking in.BookingUseCase
	access  in.AccessUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewBookingController(
	booking in.BookingUseCase,
	access in.AccessUseCase,
	cfg *config.Config,
	logger out.LoggerPort,
) *BookingController {
	return &BookingController{
		booking: booking,
		access:  access,
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *BookingController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/sign-in", c.signIn)
		auth.POST("/sign-up", c.signUp)
		auth.POST("/sign-out", c.resolveSession(), c.signOut)
	}

	protected := api.Group("", c.resolveSession())
	{
		protected.GET("/doctors/:doctorId/slots", c.requireRoles(), c.getAvailableSlots)
		protected.POST("/appointments", c.requireRoles(), c.bookAppointment)
		// Смена статуса — только персонал
		protected.PATCH("/appointments/:appointmentId/status", c.requireRoles("admin", "staff", "doctor"), c.transitionStatus)
	}
}

func (c *BookingController) getAvailableSlots(ctx *gin.Context) {
	doctorID := ctx.Param("doctorId")

	date, err := json_types.ParseDate(ctx.Query("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	slots, err := c.booking.GetAvailableSlots(ctx.Request.Context(), doctorID, date)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"doctorId": doctorID,
		"date":     date,
		"slots":    slots,
	})
}

func (c *BookingController) bookAppointment(ctx *gin.Context) {
	var req domain.BookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appointment, err := c.booking.BookAppointment(ctx.Request.Context(), req)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		case errors.Is(err, domain.ErrSlotTaken):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Selected slot is no longer available"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"appointment": appointment})
}

type transitionRequest struct {
	Action domain.StatusAction `json:"action" binding:"required"`
}

func (c *BookingController) transitionStatus(ctx *gin.Context) {
	appointmentID := ctx.Param("appointmentId")

	var req transitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appointment, err := c.booking.TransitionStatus(ctx.Request.Context(), appointmentID, req.Action)
	if err != nil {
		var transitionErr *domain.TransitionError
		if errors.As(err, &transitionErr) {
			ctx.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"appointment": appointment})
}

type credentialsRequest struct {
	Email    string                 `json:"email" binding:"required"`
	Password string                 `json:"password" binding:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

func (c *BookingController) signIn(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := c.access.SignIn(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"session":     session,
		"accessToken": session.AccessToken,
	})
}

func (c *BookingController) signUp(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := c.access.SignUp(ctx.Request.Context(), req.Email, req.Password, req.Metadata)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"session": session})
}

func (c *BookingController) signOut(ctx *gin.Context) {
	session := sessionFromContext(ctx)
	if err := c.access.SignOut(ctx.Request.Context(), session); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}
