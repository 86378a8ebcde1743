package payment

import (
	"github.com/shopspring/decimal"
)

// CodeSuccess is the gateway-level response code for an accepted call.
// Every other code means the call was rejected.
const CodeSuccess = "10000"

// TradeStatus is the gateway-reported lifecycle stage of a trade.
type TradeStatus string

const (
	TradeStatusWaitBuyerPay TradeStatus = "WAIT_BUYER_PAY"
	TradeStatusClosed       TradeStatus = "TRADE_CLOSED"
	TradeStatusSuccess      TradeStatus = "TRADE_SUCCESS"
	TradeStatusFinished     TradeStatus = "TRADE_FINISHED"
)

type Goods struct {
	GoodsID   string
	GoodsName string
	Quantity  int
	Price     decimal.Decimal
}

type PrecreateRequest struct {
	OutTradeNo  string
	TotalAmount decimal.Decimal
	Subject     string
	Body        string
	Goods       []Goods
}

type PrecreateResult struct {
	Code    string
	Msg     string
	SubCode string
	SubMsg  string
	QRCode  string
}

func (r *PrecreateResult) IsSuccess() bool {
	return r.Code == CodeSuccess
}

type TradeQueryResult struct {
	Code    string
	Msg     string
	SubCode string
	SubMsg  string

	TradeNo       string
	TradeStatus   TradeStatus
	TotalAmount   string
	BuyerUserID   string
	BuyerLogonID  string
	BuyerUserType string
}

func (r *TradeQueryResult) IsSuccess() bool {
	return r.Code == CodeSuccess
}
