package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	pg "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"vendorpay/internal/app/apperr"
	"vendorpay/internal/app/logger"
	"vendorpay/internal/app/model"
	"vendorpay/internal/app/storage"
)

// storage.WalletRepository interface implementation
var _ storage.WalletRepository = (*WalletRepository)(nil)

type WalletRepository struct {
	db *sql.DB
}

func (r *WalletRepository) LoggerComponent() string {
	return "WalletRepository"
}

func NewWalletRepository(db *sql.DB) (*WalletRepository, error) {
	s := &WalletRepository{
		db: db,
	}
	return s, nil
}

const sqlWalletColumns = `
		id, vendor_id, balance, security_deposit,
		total_earnings, total_penalties, total_deposits, total_withdrawals,
		total_fees, total_cash_collections, total_refunds,
		completed_count, rejected_count, cancelled_count, auto_rejected_count,
		created_at, updated_at
`

func scanWallet(row interface{ Scan(...interface{}) error }) (*model.Wallet, error) {
	w := &model.Wallet{}
	err := row.Scan(
		&w.ID, &w.VendorID, &w.Balance, &w.SecurityDeposit,
		&w.TotalEarnings, &w.TotalPenalties, &w.TotalDeposits, &w.TotalWithdrawals,
		&w.TotalFees, &w.TotalCashCollections, &w.TotalRefunds,
		&w.CompletedCount, &w.RejectedCount, &w.CancelledCount, &w.AutoRejectedCount,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return w, nil
}

// Ensure implementation of interface storage.WalletRepository
func (r *WalletRepository) Ensure(ctx context.Context, vendorID uuid.UUID, securityDeposit decimal.Decimal) (*model.Wallet, error) {
	const SQL = `
		INSERT INTO wallets (vendor_id, security_deposit)
		VALUES ($1, $2)
		ON CONFLICT (vendor_id) DO NOTHING
`
	if _, err := r.db.ExecContext(ctx, SQL, vendorID, securityDeposit); err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}

	return r.Read(ctx, vendorID)
}

// Read implementation of interface storage.WalletRepository
func (r *WalletRepository) Read(ctx context.Context, vendorID uuid.UUID) (*model.Wallet, error) {
	const SQL = `SELECT` + sqlWalletColumns + `FROM wallets WHERE vendor_id=$1`
	return scanWallet(r.db.QueryRowContext(ctx, SQL, vendorID))
}

// counterDeltas are the aggregate bumps one transaction folds into the wallet
// row alongside the balance update.
type counterDeltas struct {
	earnings, penalties, deposits, withdrawals decimal.Decimal
	fees, cashCollections, refunds             decimal.Decimal
	completed, rejected, cancelled, autoRejected int64
}

func deltasFor(m *model.Transaction) counterDeltas {
	d := counterDeltas{}
	magnitude := m.Amount.Abs()

	switch m.TypeID {
	case model.TransactionTypeEarning:
		d.earnings = magnitude
		d.completed = 1
	case model.TransactionTypePenalty:
		d.penalties = magnitude
		switch m.PenaltyKind {
		case model.PenaltyRejection:
			d.rejected = 1
		case model.PenaltyCancellation:
			d.cancelled = 1
		case model.PenaltyAutoRejection:
			d.autoRejected = 1
		}
	case model.TransactionTypeDeposit:
		d.deposits = magnitude
	case model.TransactionTypeWithdrawal:
		d.withdrawals = magnitude
	case model.TransactionTypeTaskAcceptanceFee:
		d.fees = magnitude
	case model.TransactionTypeCashCollection:
		d.cashCollections = magnitude
	case model.TransactionTypeRefund:
		d.refunds = magnitude
	}
	return d
}

// Apply implementation of interface storage.WalletRepository.
//
// The whole read-modify-write runs inside one SERIALIZABLE transaction with
// the wallet row locked, so no two mutations on the same wallet interleave.
func (r *WalletRepository) Apply(ctx context.Context, m *model.Transaction, opts storage.ApplyOptions) (*model.Transaction, error) {
	l := logger.Ctx(ctx).With().
		Str("method", "Apply").
		Str("vendor_id", m.VendorID.String()).
		Str("type", m.TypeID.String()).
		Logger()
	l.Debug().Msg("Applying transaction")

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		l.Error().Err(err).Msg("DB transaction begin")
		return nil, err
	}

	var balance, deposit decimal.Decimal
	const sqlLock = `SELECT balance, security_deposit FROM wallets WHERE vendor_id=$1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, sqlLock, m.VendorID).Scan(&balance, &deposit); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		l.Error().Err(err).Msg("DB lock error")
		return nil, err
	}

	if existing, err := r.findDuplicate(ctx, tx, m); err != nil {
		_ = tx.Rollback()
		return nil, err
	} else if existing != nil {
		_ = tx.Rollback()
		l.Debug().Str("transaction_id", existing.ID.String()).Msg("Duplicate short-circuit")
		return existing, apperr.ErrDuplicate
	}

	amount := m.Amount
	if opts.GuardAvailable && amount.IsNegative() {
		available := balance.Sub(deposit)
		if amount.Neg().GreaterThan(available) {
			_ = tx.Rollback()
			l.Debug().Msg("Insufficient funds")
			return nil, apperr.ErrInsufficientFunds
		}
	}
	if opts.FloorAtZero && amount.IsNegative() && balance.Add(amount).IsNegative() {
		// the recorded amount is the clamped one, so the log still sums to
		// the balance
		amount = balance.Neg()
	}

	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.Status = model.TransactionStatusCompleted
	m.Amount = amount
	m.BalanceBefore = balance
	m.BalanceAfter = balance.Add(amount)

	const sqlInsert = `
		INSERT INTO transactions (
			id, vendor_id, case_id, type_id, penalty_kind, amount, payment_method,
			billing_amount, spare_amount, travel_amount, booking_amount,
			gst_included, gst_amount, calculated_amount,
			balance_before, balance_after, status, description, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
`
	_, err = tx.ExecContext(ctx, sqlInsert,
		m.ID, m.VendorID, nullableUUID(m.CaseID), m.TypeID, string(m.PenaltyKind), m.Amount, string(m.PaymentMethod),
		m.BillingAmount, m.SpareAmount, m.TravelAmount, m.BookingAmount,
		m.GSTIncluded, m.GSTAmount, m.CalculatedAmount,
		m.BalanceBefore, m.BalanceAfter, m.Status, m.Description, m.CreatedAt,
	)
	if err != nil {
		_ = tx.Rollback()
		if pgErr, ok := err.(*pg.Error); ok && pgerrcode.IsIntegrityConstraintViolation(string(pgErr.Code)) {
			// the partial unique index won a race we lost; surface the winner
			existing, ferr := r.findDuplicateDB(ctx, m)
			if ferr != nil {
				return nil, ferr
			}
			return existing, apperr.ErrDuplicate
		}
		l.Error().Err(err).Msg("TX insert failed")
		return nil, err
	}

	d := deltasFor(m)
	const sqlUpdateWallet = `
		UPDATE wallets SET
			balance=$1,
			total_earnings=total_earnings+$2,
			total_penalties=total_penalties+$3,
			total_deposits=total_deposits+$4,
			total_withdrawals=total_withdrawals+$5,
			total_fees=total_fees+$6,
			total_cash_collections=total_cash_collections+$7,
			total_refunds=total_refunds+$8,
			completed_count=completed_count+$9,
			rejected_count=rejected_count+$10,
			cancelled_count=cancelled_count+$11,
			auto_rejected_count=auto_rejected_count+$12,
			updated_at=now()
		WHERE vendor_id=$13
`
	_, err = tx.ExecContext(ctx, sqlUpdateWallet,
		m.BalanceAfter,
		d.earnings, d.penalties, d.deposits, d.withdrawals,
		d.fees, d.cashCollections, d.refunds,
		d.completed, d.rejected, d.cancelled, d.autoRejected,
		m.VendorID,
	)
	if err != nil {
		_ = tx.Rollback()
		l.Error().Err(err).Msg("Balance update failed")
		return nil, err
	}

	if m.TypeID == model.TransactionTypeEarning {
		const sqlMonthly = `
			INSERT INTO monthly_earnings (vendor_id, month, earned, completed)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (vendor_id, month) DO UPDATE SET
				earned = monthly_earnings.earned + EXCLUDED.earned,
				completed = monthly_earnings.completed + 1
`
		month := m.CreatedAt.Format("2006-01")
		if _, err := tx.ExecContext(ctx, sqlMonthly, m.VendorID, month, m.Amount); err != nil {
			_ = tx.Rollback()
			l.Error().Err(err).Msg("Monthly summary upsert failed")
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Msg("TX commit failed")
		return nil, err
	}

	return m, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// findDuplicate looks up an existing idempotent transaction for m inside the
// wallet lock: earnings match on (case, payment method), cash collections on
// case alone. Other types always append.
func (r *WalletRepository) findDuplicate(ctx context.Context, q rowQuerier, m *model.Transaction) (*model.Transaction, error) {
	if m.CaseID == nil {
		return nil, nil
	}

	var row *sql.Row
	switch m.TypeID {
	case model.TransactionTypeEarning:
		const SQL = `SELECT` + sqlTransactionColumns + `
			FROM transactions
			WHERE case_id=$1 AND type_id=$2 AND payment_method=$3`
		row = q.QueryRowContext(ctx, SQL, *m.CaseID, m.TypeID, string(m.PaymentMethod))
	case model.TransactionTypeCashCollection:
		const SQL = `SELECT` + sqlTransactionColumns + `
			FROM transactions
			WHERE case_id=$1 AND type_id=$2`
		row = q.QueryRowContext(ctx, SQL, *m.CaseID, m.TypeID)
	default:
		return nil, nil
	}

	existing, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

func (r *WalletRepository) findDuplicateDB(ctx context.Context, m *model.Transaction) (*model.Transaction, error) {
	existing, err := r.findDuplicate(ctx, r.db, m)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.ErrConflict
	}
	return existing, nil
}

const sqlTransactionColumns = `
		id, vendor_id, case_id, type_id, penalty_kind, amount, payment_method,
		billing_amount, spare_amount, travel_amount, booking_amount,
		gst_included, gst_amount, calculated_amount,
		balance_before, balance_after, status, description, created_at
`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*model.Transaction, error) {
	m := &model.Transaction{}
	var caseID uuid.NullUUID
	var kind, method string

	err := row.Scan(
		&m.ID, &m.VendorID, &caseID, &m.TypeID, &kind, &m.Amount, &method,
		&m.BillingAmount, &m.SpareAmount, &m.TravelAmount, &m.BookingAmount,
		&m.GSTIncluded, &m.GSTAmount, &m.CalculatedAmount,
		&m.BalanceBefore, &m.BalanceAfter, &m.Status, &m.Description, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	if caseID.Valid {
		id := caseID.UUID
		m.CaseID = &id
	}
	m.PenaltyKind = model.PenaltyKind(kind)
	m.PaymentMethod = model.PaymentMethod(method)
	m.Type = m.TypeID.String()
	return m, nil
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// Transactions implementation of interface storage.WalletRepository
func (r *WalletRepository) Transactions(ctx context.Context, vendorID uuid.UUID, limit int) ([]*model.Transaction, error) {
	l := logger.Ctx(ctx).With().Str("method", "Transactions").Logger()

	const SQL = `SELECT` + sqlTransactionColumns + `
		FROM transactions
		WHERE vendor_id=$1
		ORDER BY created_at DESC
		LIMIT $2
`
	rows, err := r.db.QueryContext(ctx, SQL, vendorID, limit)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.Transaction, 0, limit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			l.Debug().Err(err).Send()
			return nil, err
		}
		res = append(res, m)
	}

	return res, rows.Err()
}

// MonthlyEarnings implementation of interface storage.WalletRepository
func (r *WalletRepository) MonthlyEarnings(ctx context.Context, vendorID uuid.UUID, months int) ([]*model.MonthlyEarning, error) {
	const SQL = `
		SELECT vendor_id, month, earned, completed
		FROM monthly_earnings
		WHERE vendor_id=$1
		ORDER BY month DESC
		LIMIT $2
`
	rows, err := r.db.QueryContext(ctx, SQL, vendorID, months)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.MonthlyEarning, 0, months)
	for rows.Next() {
		m := &model.MonthlyEarning{}
		if err := rows.Scan(&m.VendorID, &m.Month, &m.Earned, &m.Completed); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, m)
	}

	return res, rows.Err()
}

// RebuildAggregates refolds the wallet projection from the transaction log.
// Recorded amounts are post-clamp, so the signed sum is the balance.
func (r *WalletRepository) RebuildAggregates(ctx context.Context, vendorID uuid.UUID) (*model.Wallet, error) {
	const SQL = `
		UPDATE wallets w SET
			balance = t.balance,
			total_earnings = t.earnings,
			total_penalties = t.penalties,
			total_deposits = t.deposits,
			total_withdrawals = t.withdrawals,
			total_fees = t.fees,
			total_cash_collections = t.cash_collections,
			total_refunds = t.refunds,
			completed_count = t.completed,
			rejected_count = t.rejected,
			cancelled_count = t.cancelled,
			auto_rejected_count = t.auto_rejected,
			updated_at = now()
		FROM (
			SELECT
				coalesce(sum(amount), 0) AS balance,
				coalesce(sum(abs(amount)) FILTER (WHERE type_id=1), 0) AS earnings,
				coalesce(sum(abs(amount)) FILTER (WHERE type_id=2), 0) AS penalties,
				coalesce(sum(abs(amount)) FILTER (WHERE type_id=3), 0) AS deposits,
				coalesce(sum(abs(amount)) FILTER (WHERE type_id=4), 0) AS withdrawals,
				coalesce(sum(abs(amount)) FILTER (WHERE type_id=5), 0) AS fees,
				coalesce(sum(abs(amount)) FILTER (WHERE type_id=6), 0) AS cash_collections,
				coalesce(sum(abs(amount)) FILTER (WHERE type_id=7), 0) AS refunds,
				count(*) FILTER (WHERE type_id=1) AS completed,
				count(*) FILTER (WHERE type_id=2 AND penalty_kind='rejection') AS rejected,
				count(*) FILTER (WHERE type_id=2 AND penalty_kind='cancellation') AS cancelled,
				count(*) FILTER (WHERE type_id=2 AND penalty_kind='auto_rejection') AS auto_rejected
			FROM transactions
			WHERE vendor_id=$1
		) t
		WHERE w.vendor_id=$1
`
	if _, err := r.db.ExecContext(ctx, SQL, vendorID); err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}

	return r.Read(ctx, vendorID)
}
