package payment

import (
	"context"
	"fmt"
	"strconv"

	"facepay-be/internal/logger"

	alipaysdk "github.com/smartwalle/alipay/v3"
	"go.uber.org/zap"
)

type AlipayConfig struct {
	AppID      string
	PrivateKey string
	PublicKey  string
	Production bool
}

type alipayGateway struct {
	client *alipaysdk.Client
}

// ----------------- Constructor -----------------

func NewAlipayGateway(cfg AlipayConfig) (Gateway, error) {
	if cfg.AppID == "" {
		logger.L().Warn("Alipay app id is empty")
	}

	client, err := alipaysdk.New(cfg.AppID, cfg.PrivateKey, cfg.Production)
	if err != nil {
		return nil, fmt.Errorf("failed to init alipay client: %w", err)
	}

	if cfg.PublicKey != "" {
		if err := client.LoadAliPayPublicKey(cfg.PublicKey); err != nil {
			return nil, fmt.Errorf("failed to load alipay public key: %w", err)
		}
	}

	return &alipayGateway{client: client}, nil
}

// ----------------- Precreate -----------------

func (g *alipayGateway) Precreate(ctx context.Context, req PrecreateRequest) (*PrecreateResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("out_trade_no", req.OutTradeNo),
		zap.String("amount", req.TotalAmount.StringFixed(2)),
	)

	var p = alipaysdk.TradePreCreate{}
	p.OutTradeNo = req.OutTradeNo
	p.TotalAmount = req.TotalAmount.StringFixed(2)
	p.Subject = req.Subject
	p.Body = req.Body

	p.GoodsDetail = toGoodsDetail(req.Goods)

	log.Info("Sending precreate request to Alipay")

	rsp, err := g.client.TradePreCreate(ctx, p)
	if err != nil {
		log.Error("Alipay precreate request failed", zap.Error(err))
		return nil, err
	}

	log.Info("Alipay precreate response received",
		zap.String("code", string(rsp.Code)),
		zap.String("sub_msg", rsp.SubMsg),
	)

	return &PrecreateResult{
		Code:    string(rsp.Code),
		Msg:     rsp.Msg,
		SubCode: rsp.SubCode,
		SubMsg:  rsp.SubMsg,
		QRCode:  rsp.QRCode,
	}, nil
}

// toGoodsDetail maps order lines to the gateway's goods_detail items.
// Quantities and prices go over the wire as strings, prices fixed to
// two decimal places.
func toGoodsDetail(goods []Goods) []*alipaysdk.GoodsDetailItem {
	items := make([]*alipaysdk.GoodsDetailItem, 0, len(goods))
	for _, item := range goods {
		items = append(items, &alipaysdk.GoodsDetailItem{
			GoodsId:   item.GoodsID,
			GoodsName: item.GoodsName,
			Quantity:  strconv.Itoa(item.Quantity),
			Price:     item.Price.StringFixed(2),
		})
	}
	return items
}

// ----------------- QueryTrade -----------------

func (g *alipayGateway) QueryTrade(ctx context.Context, outTradeNo string) (*TradeQueryResult, error) {
	log := logger.FromCtx(ctx).With(zap.String("out_trade_no", outTradeNo))

	var p = alipaysdk.TradeQuery{}
	p.OutTradeNo = outTradeNo

	log.Info("Sending trade query to Alipay")

	rsp, err := g.client.TradeQuery(ctx, p)
	if err != nil {
		log.Error("Alipay trade query failed", zap.Error(err))
		return nil, err
	}

	log.Info("Alipay trade query response received",
		zap.String("code", string(rsp.Code)),
		zap.String("trade_status", string(rsp.TradeStatus)),
	)

	return &TradeQueryResult{
		Code:          string(rsp.Code),
		Msg:           rsp.Msg,
		SubCode:       rsp.SubCode,
		SubMsg:        rsp.SubMsg,
		TradeNo:       rsp.TradeNo,
		TradeStatus:   TradeStatus(rsp.TradeStatus),
		TotalAmount:   rsp.TotalAmount,
		BuyerUserID:   rsp.BuyerUserId,
		BuyerLogonID:  rsp.BuyerLogonId,
		BuyerUserType: rsp.BuyerUserType,
	}, nil
}
