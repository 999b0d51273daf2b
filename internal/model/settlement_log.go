package model

import (
	"context"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// SettlementLog 结算日志表（round_id 唯一索引）
// 一局只允许结算一次：结算事务内先插这条日志，撞唯一键即说明
// 另一路已经结算过，整个事务回滚，余额不会被加两次。
type SettlementLog struct {
	ID         int64   `db:"id"`
	RoundID    string  `db:"round_id"`
	GameID     string  `db:"game_id"`
	UserID     int64   `db:"user_id"`
	BetAmount  float64 `db:"bet_amount"`
	Multiplier float64 `db:"multiplier"`
	Payout     float64 `db:"payout"`
	SettleType int8    `db:"settle_type"` // 1=正常结算 2=作废退款
	TraceID    string  `db:"trace_id"`
	CreatedAt  int64   `db:"created_at"`
}

const (
	SettleTypeNormal int8 = 1
	SettleTypeVoid   int8 = 2
)

// Insert 写结算日志，isDup=true 表示该回合已结算过
func (s *SettlementLog) Insert(ctx context.Context, exec sqlx.ExtContext) (isDup bool, err error) {
	s.CreatedAt = time.Now().UnixMilli()
	sqlStr := `INSERT INTO settlement_log (round_id, game_id, user_id, bet_amount, multiplier, payout, settle_type, trace_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = exec.ExecContext(ctx, sqlStr, s.RoundID, s.GameID, s.UserID, s.BetAmount, s.Multiplier, s.Payout, s.SettleType, s.TraceID, s.CreatedAt)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// GetSettlementLog 按回合ID查询结算日志
func GetSettlementLog(ctx context.Context, db *sqlx.DB, roundID string) (*SettlementLog, error) {
	sqlStr := `SELECT id, round_id, game_id, user_id, bet_amount, multiplier, payout, settle_type, trace_id, created_at
		FROM settlement_log WHERE round_id = ? LIMIT 1`
	var s SettlementLog
	if err := db.GetContext(ctx, &s, sqlStr, roundID); err != nil {
		return nil, err
	}
	return &s, nil
}
