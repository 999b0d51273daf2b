package model

import (
	"context"
	"time"

	"casino-server/common/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// RoundAudit 回合审计表
// 记录每一次对回合的操作（start/action/cashout/void）以及操作后的快照，
// 用于客诉回放。审计失败不阻断主流程，只打日志。
type RoundAudit struct {
	ID        int64  `db:"id"`
	RoundID   string `db:"round_id"`
	Operation string `db:"operation"`
	Detail    string `db:"detail"` // 操作明细(JSON)
	TraceID   string `db:"trace_id"`
	CreatedAt int64  `db:"created_at"`
}

// InsertRoundAudit 落审计记录（尽力而为）
func InsertRoundAudit(ctx context.Context, exec sqlx.ExtContext, roundID, operation, detail, traceID string) {
	sqlStr := `INSERT INTO round_audit (round_id, operation, detail, trace_id, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, sqlStr, roundID, operation, detail, traceID, time.Now().UnixMilli())
	if err != nil {
		logger.Error("insert round audit failed",
			zap.String("round_id", roundID),
			zap.String("operation", operation),
			zap.Error(err))
	}
}

// ListRoundAudit 查询回合的审计轨迹
func ListRoundAudit(ctx context.Context, db *sqlx.DB, roundID string) ([]RoundAudit, error) {
	sqlStr := `SELECT id, round_id, operation, detail, trace_id, created_at
		FROM round_audit WHERE round_id = ? ORDER BY id ASC`
	var rows []RoundAudit
	if err := db.SelectContext(ctx, &rows, sqlStr, roundID); err != nil {
		return nil, err
	}
	return rows, nil
}
