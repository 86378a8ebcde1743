package buyer

import (
	"context"

	"facepay-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	// ResolveOrCreate returns the buyer for the given provider user id,
	// creating it on first sight. An existing buyer is returned as
	// stored, even when the reported login or name has drifted.
	ResolveOrCreate(ctx context.Context, info BuyerInfo) (*Buyer, error)
	GetByUserID(ctx context.Context, userID string) (*Buyer, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ResolveOrCreate(ctx context.Context, info BuyerInfo) (*Buyer, error) {
	if info.UserID == "" {
		return nil, ErrMissingUserID
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ResolveOrCreate"),
		zap.String("buyer_user_id", info.UserID),
	)

	existing, err := s.repo.FindByUserID(ctx, info.UserID)
	if err == nil {
		return existing, nil
	}
	if err != ErrBuyerNotFound {
		log.Error("failed to look up buyer", zap.Error(err))
		return nil, err
	}

	b := &Buyer{
		Name:     info.Name,
		LoginID:  info.LoginID,
		UserID:   info.UserID,
		UserType: info.UserType,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		log.Error("failed to create buyer", zap.Error(err))
		return nil, err
	}

	log.Info("buyer created", zap.Uint("buyer_id", b.ID))
	return b, nil
}

func (s *service) GetByUserID(ctx context.Context, userID string) (*Buyer, error) {
	return s.repo.FindByUserID(ctx, userID)
}
