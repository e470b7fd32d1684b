package request

type ApplyCouponRequest struct {
	CouponCode    string `json:"code" binding:"required"`
	OriginalPrice int64  `json:"originalPrice" binding:"required,min=1"`
}
