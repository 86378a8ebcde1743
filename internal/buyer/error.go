package buyer

import "errors"

var (
	ErrBuyerNotFound = errors.New("buyer not found")
	ErrMissingUserID = errors.New("buyer user id is required")
)
