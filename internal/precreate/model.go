package precreate

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusDraft      OrderStatus = "DRAFT"
	StatusPrecreated OrderStatus = "PRECREATED"
	StatusPaid       OrderStatus = "PAID"
	StatusClosed     OrderStatus = "CLOSED"
)

// Order is one in-person payment order. OutBizNo is assigned from the
// reference sequence at creation and never changes. A TRADE_FINISHED
// signal from the gateway is surfaced as a note only; Status never
// stores a "finished" value.
type Order struct {
	ID            uint
	OutBizNo      string
	Subject       string
	TotalAmount   decimal.Decimal
	Body          string
	Status        OrderStatus
	PrecreateTime *time.Time
	PayTime       *time.Time
	QRCode        string
	TradeNo       string
	Company       string
	BuyerID       *uint
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Lines         []OrderLine
}

type OrderLine struct {
	ID          uint
	OrderID     uint
	ProductName string
	GoodsID     string
	Quantity    int
	Price       decimal.Decimal
}

// Note is one entry of the order's append-only message log.
type Note struct {
	ID        uint
	OrderID   uint
	Body      string
	NoteType  string
	CreatedAt time.Time
}

const NoteTypeNotification = "notification"

type CreateOrderInput struct {
	Subject     string
	TotalAmount decimal.Decimal
	Body        string
	Lines       []CreateOrderLineInput
}

type CreateOrderLineInput struct {
	ProductName string
	GoodsID     string
	Quantity    int
	Price       decimal.Decimal
}
