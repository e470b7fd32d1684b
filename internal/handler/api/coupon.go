package api

import (
	"errors"
	"net/http"

	"staybook/internal/domain/coupon"
	reqdto "staybook/internal/handler/dto/request"
	resdto "staybook/internal/handler/dto/response"
	"staybook/internal/handler/httperr"
	"staybook/internal/handler/middleware"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// @Summary Quote a coupon
// @Description Validate a coupon code and compute the discounted price. Does not consume the coupon.
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ApplyCouponRequest true "Coupon quote request"
// @Success 200 {object} resdto.CouponQuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/user/applyUserCoupon [post]
func (h *CouponHandler) ApplyUserCoupon(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user context"), "Internal server error")
		return
	}

	var req reqdto.ApplyCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Coupon code and original price are required")
		return
	}

	quote, err := h.couponCommands.QuoteCoupon(c.Request.Context(), userID, req.CouponCode, req.OriginalPrice)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCouponNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found")
		case errors.Is(err, coupon.ErrCouponExpired):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon has expired")
		case errors.Is(err, coupon.ErrCouponInactive):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon is no longer active")
		case errors.Is(err, coupon.ErrCouponAlreadyApplied):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon has already been used")
		case errors.Is(err, coupon.ErrInvalidCouponCode):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon code format")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponQuote("Coupon applied successfully", quote))
}

// @Summary List my redeemable coupons
// @Description List active, unexpired coupons the user has not yet consumed
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CouponListResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/user/getUserCoupons [get]
func (h *CouponHandler) GetUserCoupons(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user context"), "Internal server error")
		return
	}

	views, err := h.couponQueries.ListForUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}
	if len(views) == 0 {
		httperr.AbortWithError(c, http.StatusNotFound, errors.New("no coupons for user"), "No coupons found")
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponViews("Coupons fetched successfully", views))
}
