package repositories

import "errors"

// Sentinel errors returned by repositories. Callers check them with
// errors.Is; everything else is a storage failure and propagates as-is.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("item not found in cart")
	ErrReviewNotFound   = errors.New("review not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrOrderNotFound    = errors.New("order not found")
)
