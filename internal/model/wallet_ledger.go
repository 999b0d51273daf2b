package model

import (
	"context"
	"time"

	"casino-server/common/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// 账变类型
const (
	LedgerTypeBet    int8 = 1 // 下注扣款
	LedgerTypePayout int8 = 2 // 结算派彩
	LedgerTypeRefund int8 = 3 // 作废退款
)

// WalletLedger 账变流水表
// 每次余额变动必须落一条流水，amount 为本次变动值（下注为负），
// balance_after 为变动后的余额快照，便于对账。
type WalletLedger struct {
	ID           int64   `db:"id"`
	BillNo       string  `db:"bill_no"`       // 账单号（可读）
	RoundID      string  `db:"round_id"`      // 关联回合
	UserID       int64   `db:"user_id"`       // 内部用户ID
	LedgerType   int8    `db:"ledger_type"`   // 账变类型
	Amount       float64 `db:"amount"`        // 变动金额（下注为负数）
	BalanceAfter float64 `db:"balance_after"` // 变动后余额
	TraceID      string  `db:"trace_id"`
	CreatedAt    int64   `db:"created_at"`
}

// Insert 落账变流水
func (l *WalletLedger) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	l.CreatedAt = time.Now().UnixMilli()
	sqlStr := `INSERT INTO wallet_ledger (bill_no, round_id, user_id, ledger_type, amount, balance_after, trace_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, sqlStr, l.BillNo, l.RoundID, l.UserID, l.LedgerType, l.Amount, l.BalanceAfter, l.TraceID, l.CreatedAt)
	if err != nil {
		logger.Error("insert wallet ledger failed",
			zap.String("bill_no", l.BillNo),
			zap.String("round_id", l.RoundID),
			zap.Int8("ledger_type", l.LedgerType),
			zap.Error(err))
		return err
	}
	return nil
}

// ListLedgerByRound 查询回合的全部账变（对账/排障用）
func ListLedgerByRound(ctx context.Context, db *sqlx.DB, roundID string) ([]WalletLedger, error) {
	sqlStr := `SELECT id, bill_no, round_id, user_id, ledger_type, amount, balance_after, trace_id, created_at
		FROM wallet_ledger WHERE round_id = ? ORDER BY id ASC`
	var rows []WalletLedger
	if err := db.SelectContext(ctx, &rows, sqlStr, roundID); err != nil {
		return nil, err
	}
	return rows, nil
}
