// Package adapters implements the read-only gorm repository for the users
// feature. It reads both ledger tables at the wallet level; all filters
// are bound parameters.
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"analytics_backend/internal/feature/users/domain/entity"
	"analytics_backend/internal/feature/users/usecase"
	"analytics_backend/internal/shared/daterange"
)

// TokenCode is the ledger code of the token this service reports on.
const TokenCode = "PMN"

type ledgerPostgres struct {
	db *gorm.DB
}

var _ usecase.LedgerRepository = (*ledgerPostgres)(nil)

// NewLedgerRepository creates the cross-ledger wallet accessor.
func NewLedgerRepository(db *gorm.DB) *ledgerPostgres {
	return &ledgerPostgres{db: db}
}

// buyLedgerModel is the buy-side projection of pending_txes. This feature
// only reads wallet, amount and timestamp.
type buyLedgerModel struct {
	ID        uint      `gorm:"primaryKey"`
	PublicKey string    `gorm:"size:64;index"`
	Status    string    `gorm:"size:8;index"`
	Code      string    `gorm:"size:16;index"`
	Amount    float64   `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index"`
}

func (buyLedgerModel) TableName() string {
	return "pending_txes"
}

// sellLedgerModel is the sell-side projection of pending_refunds.
type sellLedgerModel struct {
	ID        uint      `gorm:"primaryKey"`
	Public    string    `gorm:"size:64;index"`
	Status    string    `gorm:"size:8;index"`
	Code      string    `gorm:"size:16;index"`
	Amount    float64   `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index"`
}

func (sellLedgerModel) TableName() string {
	return "pending_refunds"
}

func (r *ledgerPostgres) buys(ctx context.Context, rng daterange.Range) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&buyLedgerModel{}).
		Where("status = ? AND code = ?", entity.StatusCompleted, TokenCode).
		Scopes(rng.Scope("created_at"))
}

func (r *ledgerPostgres) sells(ctx context.Context, rng daterange.Range) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&sellLedgerModel{}).
		Where("status = ? AND code = ?", entity.StatusCompleted, TokenCode).
		Scopes(rng.Scope("created_at"))
}

func (r *ledgerPostgres) Buyers(ctx context.Context, rng daterange.Range) ([]string, error) {
	var wallets []string
	err := r.buys(ctx, rng).Distinct("public_key").Pluck("public_key", &wallets).Error
	return wallets, err
}

func (r *ledgerPostgres) Sellers(ctx context.Context, rng daterange.Range) ([]string, error) {
	var wallets []string
	err := r.sells(ctx, rng).Distinct("public").Pluck("public", &wallets).Error
	return wallets, err
}

func (r *ledgerPostgres) BuyerEvents(ctx context.Context, rng daterange.Range) ([]entity.WalletEvent, error) {
	var rows []buyLedgerModel
	err := r.buys(ctx, rng).
		Select("public_key", "created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.WalletEvent, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.WalletEvent{Wallet: m.PublicKey, Time: m.CreatedAt})
	}
	return out, nil
}

// topRow scans the per-wallet volume ranking.
type topRow struct {
	Wallet      string
	TotalAmount float64
	TxCount     int64
}

func (r *ledgerPostgres) TopBuyers(ctx context.Context, rng daterange.Range, limit int) ([]entity.TopUser, error) {
	var rows []topRow
	err := r.buys(ctx, rng).
		Select("public_key AS wallet, COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS tx_count").
		Group("public_key").
		Order("total_amount DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTopUsers(rows), nil
}

func (r *ledgerPostgres) TopSellers(ctx context.Context, rng daterange.Range, limit int) ([]entity.TopUser, error) {
	var rows []topRow
	err := r.sells(ctx, rng).
		Select("public AS wallet, COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS tx_count").
		Group("public").
		Order("total_amount DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTopUsers(rows), nil
}

func (r *ledgerPostgres) BuyerTxCounts(ctx context.Context, rng daterange.Range) ([]int64, error) {
	type countRow struct {
		N int64
	}
	var rows []countRow
	err := r.buys(ctx, rng).
		Select("COUNT(*) AS n").
		Group("public_key").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.N)
	}
	return out, nil
}

func (r *ledgerPostgres) BuyVolume(ctx context.Context, rng daterange.Range) ([]entity.VolumeRow, error) {
	var rows []buyLedgerModel
	err := r.buys(ctx, rng).
		Select("created_at", "amount").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.VolumeRow, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.VolumeRow{Time: m.CreatedAt, Amount: m.Amount})
	}
	return out, nil
}

func (r *ledgerPostgres) SellVolume(ctx context.Context, rng daterange.Range) ([]entity.VolumeRow, error) {
	var rows []sellLedgerModel
	err := r.sells(ctx, rng).
		Select("created_at", "amount").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.VolumeRow, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.VolumeRow{Time: m.CreatedAt, Amount: m.Amount})
	}
	return out, nil
}

func toTopUsers(rows []topRow) []entity.TopUser {
	out := make([]entity.TopUser, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.TopUser{Wallet: row.Wallet, TotalAmount: row.TotalAmount, TxCount: row.TxCount})
	}
	return out
}
