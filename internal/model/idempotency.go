package model

import (
	"context"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// IdempotencyKey 幂等键表（idem_key 唯一索引）
// Redis 锁只是第一道闸，进程重启或锁过期后由这张表兜底：
// 同一 idem_key 的第二次写入会撞唯一键，调用方据此返回首次结果。
type IdempotencyKey struct {
	ID        int64  `db:"id"`
	IdemKey   string `db:"idem_key"`
	RoundID   string `db:"round_id"`
	Operation string `db:"operation"` // start | action | cashout | void
	CreatedAt int64  `db:"created_at"`
}

// InsertIdempotencyKey 插入幂等键，返回 isDup=true 表示键已存在（重复请求）
func InsertIdempotencyKey(ctx context.Context, exec sqlx.ExtContext, idemKey, roundID, operation string) (isDup bool, err error) {
	sqlStr := `INSERT INTO idempotency_keys (idem_key, round_id, operation, created_at) VALUES (?, ?, ?, ?)`
	_, err = exec.ExecContext(ctx, sqlStr, idemKey, roundID, operation, time.Now().UnixMilli())
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// GetIdempotencyKey 按幂等键查询（用于重复请求时取回首次的 round_id）
func GetIdempotencyKey(ctx context.Context, exec sqlx.ExtContext, idemKey string) (*IdempotencyKey, error) {
	sqlStr := `SELECT id, idem_key, round_id, operation, created_at FROM idempotency_keys WHERE idem_key = ? LIMIT 1`
	var k IdempotencyKey
	if err := sqlx.GetContext(ctx, exec, &k, sqlStr, idemKey); err != nil {
		return nil, err
	}
	return &k, nil
}
