package precreate

import (
	"facepay-be/internal/buyer"
	"facepay-be/internal/payment"
)

// toPrecreateRequest builds the gateway DTO from the order. Lines map
// one to one onto the goods detail list.
func toPrecreateRequest(o *Order) payment.PrecreateRequest {
	goods := make([]payment.Goods, 0, len(o.Lines))
	for _, l := range o.Lines {
		goods = append(goods, payment.Goods{
			GoodsID:   l.GoodsID,
			GoodsName: l.ProductName,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}

	return payment.PrecreateRequest{
		OutTradeNo:  o.OutBizNo,
		TotalAmount: o.TotalAmount,
		Subject:     o.Subject,
		Body:        o.Body,
		Goods:       goods,
	}
}

func toBuyerInfo(res *payment.TradeQueryResult) buyer.BuyerInfo {
	return buyer.BuyerInfo{
		UserID:   res.BuyerUserID,
		LoginID:  res.BuyerLogonID,
		Name:     res.BuyerLogonID,
		UserType: res.BuyerUserType,
	}
}
