package precreate

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"facepay-be/internal/logger"
	"facepay-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	NextReference(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id uint) (*Order, error)
	ListOrders(ctx context.Context, status *OrderStatus, limit, offset int32) ([]*Order, error)

	MarkPrecreated(ctx context.Context, id uint, qrCode string, at time.Time) error
	MarkClosed(ctx context.Context, id uint, at time.Time) error
	MarkPaid(ctx context.Context, id uint, tradeNo string, buyerID uint, at time.Time) error

	AppendNote(ctx context.Context, orderID uint, body, noteType string) error
	ListNotes(ctx context.Context, orderID uint) ([]*Note, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// NextReference draws the next business reference from the order
// reference sequence. References are never reused or reassigned.
func (r *repository) NextReference(ctx context.Context) (string, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT nextval('precreate_reference_seq')`).Scan(&n)
	if err != nil {
		return "", err
	}
	return utils.FormatOrderReference(n), nil
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (out_biz_no, subject, total_amount, body, status, company)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		o.OutBizNo, o.Subject, o.TotalAmount, o.Body, o.Status, o.Company,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("db: failed to insert order",
			zap.String("out_biz_no", o.OutBizNo),
			zap.Error(err),
		)
		return err
	}

	for i := range o.Lines {
		line := &o.Lines[i]
		line.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_lines (order_id, product_name, goods_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
			line.OrderID, line.ProductName, line.GoodsID, line.Quantity, line.Price,
		).Scan(&line.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetOrder(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, out_biz_no, subject, total_amount, body, status,
		       precreate_time, pay_time, qr_code, trade_no, company, buyer_id,
		       created_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(
		&o.ID, &o.OutBizNo, &o.Subject, &o.TotalAmount, &o.Body, &o.Status,
		&o.PrecreateTime, &o.PayTime, &o.QRCode, &o.TradeNo, &o.Company, &o.BuyerID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_name, goods_id, quantity, price
		FROM order_lines WHERE order_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductName, &l.GoodsID, &l.Quantity, &l.Price); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) ListOrders(ctx context.Context, status *OrderStatus, limit, offset int32) ([]*Order, error) {
	query := `
		SELECT id, out_biz_no, subject, total_amount, status, trade_no, created_at
		FROM orders
	`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, *status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OutBizNo, &o.Subject, &o.TotalAmount, &o.Status, &o.TradeNo, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// The Mark* updates carry the expected current status in the WHERE
// clause so a terminal order can never be moved again, whatever the
// caller believed it was looking at.

func (r *repository) MarkPrecreated(ctx context.Context, id uint, qrCode string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, qr_code = $2, precreate_time = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`, StatusPrecreated, qrCode, at, id, StatusDraft)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) MarkClosed(ctx context.Context, id uint, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, pay_time = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, StatusClosed, at, id, StatusPrecreated)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) MarkPaid(ctx context.Context, id uint, tradeNo string, buyerID uint, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, pay_time = $2, trade_no = $3, buyer_id = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`, StatusPaid, at, tradeNo, buyerID, id, StatusPrecreated)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (r *repository) AppendNote(ctx context.Context, orderID uint, body, noteType string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_notes (order_id, body, note_type)
		VALUES ($1, $2, $3)
	`, orderID, body, noteType)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to append order note",
			zap.Uint("order_id", orderID),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) ListNotes(ctx context.Context, orderID uint) ([]*Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, body, note_type, created_at
		FROM order_notes WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.OrderID, &n.Body, &n.NoteType, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
