package buyer

import (
	"context"
	"database/sql"
	"errors"

	"facepay-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	FindByUserID(ctx context.Context, userID string) (*Buyer, error)
	Create(ctx context.Context, b *Buyer) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Buyer, error) {
	var b Buyer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, login_id, user_id, user_type, created_at
		 FROM buyers WHERE user_id = $1`,
		userID,
	).Scan(&b.ID, &b.Name, &b.LoginID, &b.UserID, &b.UserType, &b.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBuyerNotFound
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// Create inserts the buyer. The unique index on user_id makes a
// concurrent insert for the same payer a no-op; the caller then
// re-reads the winning row.
func (r *repository) Create(ctx context.Context, b *Buyer) error {
	log := logger.FromCtx(ctx)

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO buyers (name, login_id, user_id, user_type)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO NOTHING
		 RETURNING id, created_at`,
		b.Name, b.LoginID, b.UserID, b.UserType,
	).Scan(&b.ID, &b.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race; the row already exists.
		existing, ferr := r.FindByUserID(ctx, b.UserID)
		if ferr != nil {
			return ferr
		}
		*b = *existing
		return nil
	}
	if err != nil {
		log.Error("db: failed to insert buyer",
			zap.String("user_id", b.UserID),
			zap.Error(err),
		)
	}

	return err
}
