// internal/payment/payment.go
package payment

import (
	"context"
)

// Gateway is the narrow surface of the Alipay face-to-face API this
// application depends on. Implementations own signing and transport.
type Gateway interface {
	Precreate(ctx context.Context, req PrecreateRequest) (*PrecreateResult, error)
	QueryTrade(ctx context.Context, outTradeNo string) (*TradeQueryResult, error)
}
