package precreate

import (
	"context"

	"facepay-be/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultImageSize = 512
	mediumImageSize  = 128
	smallImageSize   = 64
)

// QRCodeView is the transient wizard shown to the cashier. It copies
// the order's display fields and carries the rendered payment code in
// three sizes. It is built fresh on every open and never persisted.
type QRCodeView struct {
	OrderID     uint
	OutBizNo    string
	Subject     string
	Image       []byte
	ImageMedium []byte
	ImageSmall  []byte
}

func (s *service) OpenQRCode(ctx context.Context, orderID uint) (*QRCodeView, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "OpenQRCode"),
		zap.Uint("order_id", orderID),
	)

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.QRCode == "" {
		return nil, ErrNoPaymentCode
	}

	view := &QRCodeView{
		OrderID:  o.ID,
		OutBizNo: o.OutBizNo,
		Subject:  o.Subject,
	}

	// Rendering is eager: the wizard exists to show the image.
	for _, target := range []struct {
		dst  *[]byte
		size int
	}{
		{&view.Image, s.imageSize},
		{&view.ImageMedium, mediumImageSize},
		{&view.ImageSmall, smallImageSize},
	} {
		img, err := s.renderer.Render(o.QRCode, target.size)
		if err != nil {
			log.Error("failed to render payment code", zap.Error(err))
			return nil, err
		}
		*target.dst = img
	}

	return view, nil
}
