package response

import (
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponQuoteResponse struct {
	Status          bool      `json:"status"`
	Message         string    `json:"message"`
	CouponID        uuid.UUID `json:"couponId"`
	Code            string    `json:"code"`
	DiscountAmount  int64     `json:"discountAmount"`
	DiscountedPrice int64     `json:"discountedPrice"`
}

type CouponListResponse struct {
	Status  bool                  `json:"status"`
	Message string                `json:"message"`
	Coupons []*queries.CouponView `json:"coupons"`
}

func FromCouponQuote(msg string, q *commands.CouponQuote) *CouponQuoteResponse {
	return &CouponQuoteResponse{
		Status:          true,
		Message:         msg,
		CouponID:        q.CouponID,
		Code:            q.Code,
		DiscountAmount:  q.DiscountCents,
		DiscountedPrice: q.DiscountedCents,
	}
}

func FromCouponViews(msg string, views []*queries.CouponView) *CouponListResponse {
	return &CouponListResponse{Status: true, Message: msg, Coupons: views}
}
