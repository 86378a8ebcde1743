package buyer

import "time"

// Buyer is a deduplicated payer, keyed by the user id Alipay assigns.
// Created lazily on the first confirmed payment and never updated.
type Buyer struct {
	ID        uint
	Name      string
	LoginID   string
	UserID    string
	UserType  string
	CreatedAt time.Time
}

type BuyerInfo struct {
	UserID   string
	LoginID  string
	Name     string
	UserType string
}
