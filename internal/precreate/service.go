package precreate

import (
	"context"
	"fmt"
	"time"

	"facepay-be/internal/buyer"
	"facepay-be/internal/logger"
	"facepay-be/internal/payment"

	"go.uber.org/zap"
)

// QRRenderer turns a payment code string into a PNG blob.
type QRRenderer interface {
	Render(content string, size int) ([]byte, error)
}

type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
	GetOrder(ctx context.Context, id uint) (*Order, error)
	ListOrders(ctx context.Context, status *OrderStatus, limit, offset int32) ([]*Order, error)
	Notes(ctx context.Context, orderID uint) ([]*Note, error)

	// Submit pre-creates the trade at the gateway and moves the order
	// from DRAFT to PRECREATED. A gateway rejection aborts with no
	// state change.
	Submit(ctx context.Context, orderID uint) (*Order, error)

	// QueryStatus asks the gateway for the trade status and applies
	// the matching transition. Safe to call any number of times.
	QueryStatus(ctx context.Context, orderID uint) (*Order, error)

	// OpenQRCode builds the QR wizard view for an order, rendering the
	// payment code eagerly in all sizes.
	OpenQRCode(ctx context.Context, orderID uint) (*QRCodeView, error)
}

type service struct {
	repo      Repository
	buyers    buyer.Service
	gateway   payment.Gateway
	renderer  QRRenderer
	company   string
	imageSize int
}

func NewService(repo Repository, buyers buyer.Service, gateway payment.Gateway, renderer QRRenderer, company string, imageSize int) Service {
	if imageSize <= 0 {
		imageSize = defaultImageSize
	}
	return &service{
		repo:      repo,
		buyers:    buyers,
		gateway:   gateway,
		renderer:  renderer,
		company:   company,
		imageSize: imageSize,
	}
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int("line_count", len(input.Lines)),
	)

	if input.Subject == "" {
		return nil, ErrMissingSubject
	}
	if !input.TotalAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	for _, l := range input.Lines {
		if l.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
	}

	ref, err := s.repo.NextReference(ctx)
	if err != nil {
		log.Error("failed to draw order reference", zap.Error(err))
		return nil, err
	}

	lines := make([]OrderLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		lines = append(lines, OrderLine{
			ProductName: l.ProductName,
			GoodsID:     l.GoodsID,
			Quantity:    l.Quantity,
			Price:       l.Price,
		})
	}

	o := &Order{
		OutBizNo:    ref,
		Subject:     input.Subject,
		TotalAmount: input.TotalAmount,
		Body:        input.Body,
		Status:      StatusDraft,
		Company:     s.company,
		Lines:       lines,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.Uint("order_id", o.ID),
		zap.String("out_biz_no", o.OutBizNo),
	)
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id uint) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *service) ListOrders(ctx context.Context, status *OrderStatus, limit, offset int32) ([]*Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListOrders(ctx, status, limit, offset)
}

func (s *service) Notes(ctx context.Context, orderID uint) ([]*Note, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListNotes(ctx, orderID)
}

// note appends an informational note. Notes are best effort: a failed
// append never fails the operation that produced it.
func (s *service) note(ctx context.Context, orderID uint, body string) {
	if err := s.repo.AppendNote(ctx, orderID, body, NoteTypeNotification); err != nil {
		logger.FromCtx(ctx).Warn("failed to append order note",
			zap.Uint("order_id", orderID),
			zap.Error(err),
		)
	}
}

func (s *service) Submit(ctx context.Context, orderID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
		zap.Uint("order_id", orderID),
	)

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status != StatusDraft {
		return nil, ErrNotDraft
	}
	if o.Subject == "" {
		return nil, ErrMissingSubject
	}
	if !o.TotalAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if len(o.Lines) == 0 {
		return nil, ErrNoLines
	}

	res, err := s.gateway.Precreate(ctx, toPrecreateRequest(o))
	if err != nil {
		log.Error("precreate call failed", zap.Error(err))
		return nil, fmt.Errorf("precreate call failed: %w", err)
	}

	if !res.IsSuccess() {
		log.Warn("precreate rejected by gateway",
			zap.String("code", res.Code),
			zap.String("sub_msg", res.SubMsg),
		)
		return nil, fmt.Errorf("%w: %s", ErrPrecreateRejected, res.SubMsg)
	}

	now := time.Now()
	if err := s.repo.MarkPrecreated(ctx, o.ID, res.QRCode, now); err != nil {
		return nil, err
	}
	s.note(ctx, o.ID, fmt.Sprintf("precreate accepted: %s", res.Msg))

	o.Status = StatusPrecreated
	o.QRCode = res.QRCode
	o.PrecreateTime = &now

	log.Info("order precreated", zap.String("out_biz_no", o.OutBizNo))
	return o, nil
}

func (s *service) QueryStatus(ctx context.Context, orderID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "QueryStatus"),
		zap.Uint("order_id", orderID),
	)

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusDraft {
		return nil, ErrNotSubmitted
	}

	res, err := s.gateway.QueryTrade(ctx, o.OutBizNo)
	if err != nil {
		log.Error("trade query call failed", zap.Error(err))
		return nil, fmt.Errorf("trade query call failed: %w", err)
	}

	// A non-success response code is not an error here: the trade may
	// simply not exist yet because nobody has scanned the code.
	if !res.IsSuccess() {
		s.note(ctx, o.ID, "awaiting scan...")
		return o, nil
	}

	switch res.TradeStatus {
	case payment.TradeStatusWaitBuyerPay:
		s.note(ctx, o.ID, "awaiting buyer payment")

	case payment.TradeStatusClosed:
		if o.Status == StatusPrecreated {
			now := time.Now()
			if err := s.repo.MarkClosed(ctx, o.ID, now); err != nil {
				return nil, err
			}
			o.Status = StatusClosed
			o.PayTime = &now
		}
		s.note(ctx, o.ID, "trade closed: unpaid timeout or full refund after payment")

	case payment.TradeStatusSuccess:
		if o.Status == StatusPrecreated {
			b, err := s.buyers.ResolveOrCreate(ctx, toBuyerInfo(res))
			if err != nil {
				return nil, err
			}
			now := time.Now()
			if err := s.repo.MarkPaid(ctx, o.ID, res.TradeNo, b.ID, now); err != nil {
				return nil, err
			}
			o.Status = StatusPaid
			o.PayTime = &now
			o.TradeNo = res.TradeNo
			o.BuyerID = &b.ID
			log.Info("order paid",
				zap.String("trade_no", res.TradeNo),
				zap.String("buyer_user_id", res.BuyerUserID),
			)
		}
		s.note(ctx, o.ID, "trade paid successfully")

	case payment.TradeStatusFinished:
		// Informational only; the stored status is never overwritten.
		s.note(ctx, o.ID, "trade finished, refunds no longer possible")

	default:
		log.Warn("unrecognized trade status", zap.String("trade_status", string(res.TradeStatus)))
	}

	return o, nil
}
