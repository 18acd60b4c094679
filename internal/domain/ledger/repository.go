package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines ledger data access. Listing order is an explicit
// contract: newest first.
type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Record, error)
	ListAll(ctx context.Context, limit int) ([]*Record, error)
	CreateAdjustment(ctx context.Context, userID uuid.UUID, amount int64, note, actor string) (*Record, error)
	CreateRedemption(ctx context.Context, userID uuid.UUID, amount int64, boothName string, txID uuid.UUID) (*Record, error)
	CreateTransfer(ctx context.Context, senderID, recipientID uuid.UUID, amount, fee int64, senderName, recipientName, note string) (txID uuid.UUID, senderBalance int64, err error)
	DeleteAll(ctx context.Context) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates ledger repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Record, error) {
	query := `
		SELECT * FROM ledger_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var records []*Record
	err := r.db.SelectContext(ctx, &records, query, userID, limit)
	return records, err
}

func (r *repository) ListAll(ctx context.Context, limit int) ([]*Record, error) {
	query := `
		SELECT * FROM ledger_records
		ORDER BY created_at DESC
		LIMIT $1
	`
	var records []*Record
	err := r.db.SelectContext(ctx, &records, query, limit)
	return records, err
}

// CreateAdjustment applies an administrative point grant or deduction
// and writes the ledger record atomically.
func (r *repository) CreateAdjustment(ctx context.Context, userID uuid.UUID, amount int64, note, actor string) (*Record, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	balance, err := adjustBalance(ctx, tx, userID, amount)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      TypeAdminAdjust,
		Amount:    amount,
		Balance:   balance,
		CreatedAt: time.Now(),
	}
	if note != "" {
		rec.Note = sql.NullString{String: note, Valid: true}
	}
	if actor != "" {
		rec.Counterparty = sql.NullString{String: actor, Valid: true}
	}

	if err := insertRecord(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateRedemption writes a booth QR redemption reward
func (r *repository) CreateRedemption(ctx context.Context, userID uuid.UUID, amount int64, boothName string, txID uuid.UUID) (*Record, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	balance, err := adjustBalance(ctx, tx, userID, amount)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         TypeQRRedeem,
		Amount:       amount,
		Balance:      balance,
		Counterparty: sql.NullString{String: boothName, Valid: boothName != ""},
		TxID:         uuid.NullUUID{UUID: txID, Valid: true},
		CreatedAt:    time.Now(),
	}

	if err := insertRecord(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateTransfer moves points between users and writes the paired
// outbound/inbound records sharing one transaction id. The fee is
// deducted from the sender and not credited anywhere.
func (r *repository) CreateTransfer(ctx context.Context, senderID, recipientID uuid.UUID, amount, fee int64, senderName, recipientName, note string) (uuid.UUID, int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, 0, err
	}
	defer tx.Rollback()

	senderBalance, err := adjustBalance(ctx, tx, senderID, -(amount + fee))
	if err != nil {
		return uuid.Nil, 0, err
	}
	recipientBalance, err := adjustBalance(ctx, tx, recipientID, amount)
	if err != nil {
		return uuid.Nil, 0, err
	}

	txID := uuid.New()
	now := time.Now()
	noteVal := sql.NullString{String: note, Valid: note != ""}

	out := &Record{
		ID:           uuid.New(),
		UserID:       senderID,
		Type:         TypeTransferOut,
		Amount:       -(amount + fee),
		Balance:      senderBalance,
		Counterparty: sql.NullString{String: recipientName, Valid: true},
		Note:         noteVal,
		TxID:         uuid.NullUUID{UUID: txID, Valid: true},
		CreatedAt:    now,
	}
	in := &Record{
		ID:           uuid.New(),
		UserID:       recipientID,
		Type:         TypeTransferIn,
		Amount:       amount,
		Balance:      recipientBalance,
		Counterparty: sql.NullString{String: senderName, Valid: true},
		Note:         noteVal,
		TxID:         uuid.NullUUID{UUID: txID, Valid: true},
		CreatedAt:    now,
	}

	if err := insertRecord(ctx, tx, out); err != nil {
		return uuid.Nil, 0, err
	}
	if err := insertRecord(ctx, tx, in); err != nil {
		return uuid.Nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, 0, err
	}
	return txID, senderBalance, nil
}

func (r *repository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `TRUNCATE ledger_records`)
	return err
}

// adjustBalance applies a signed delta and returns the resulting balance.
// The row is locked for the duration of the enclosing transaction.
func adjustBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, delta int64) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		UPDATE users SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND balance + $2 >= 0
		RETURNING balance
	`, userID, delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInsufficientBalance
		}
		return 0, err
	}
	return balance, nil
}

func insertRecord(ctx context.Context, tx *sqlx.Tx, rec *Record) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_records (id, user_id, type, amount, balance, counterparty, note, tx_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.UserID, rec.Type, rec.Amount, rec.Balance, rec.Counterparty, rec.Note, rec.TxID, rec.CreatedAt)
	return err
}
