package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// GameRound 对应 game_round 表
// 说明：state 列保存规则模块的 RoundState 快照（JSON），其中可能包含
// 尚未公开的开奖素材（地雷位置、crash 点等），终态前不得透出给客户端。
// game_status: 1=active 2=settled 3=voided
// is_settled: 0=未结算 1=已结算（防止重复结算）
type GameRound struct {
	ID             int64   `db:"id"`
	RoundID        string  `db:"round_id"`
	GameID         string  `db:"game_id"`
	UserID         int64   `db:"user_id"`
	PlatformID     int8    `db:"platform_id"`
	PlatformUserID string  `db:"platform_user_id"`
	BetAmount      float64 `db:"bet_amount"`
	Params         string  `db:"params"` // 原始游戏参数(JSON)
	State          string  `db:"state"`  // RoundState 快照(JSON)
	GameStatus     int8    `db:"game_status"`
	Multiplier     float64 `db:"multiplier"`
	Payout         float64 `db:"payout"`
	IsSettled      int8    `db:"is_settled"`
	IdempotencyKey string  `db:"idempotency_key"`
	TraceID        string  `db:"trace_id"`
	CreatedAt      int64   `db:"created_at"`
	UpdatedAt      int64   `db:"updated_at"`
}

// Insert 落一条新回合
func (r *GameRound) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	sqlStr := `INSERT INTO game_round (round_id, game_id, user_id, platform_id, platform_user_id,
		bet_amount, params, state, game_status, multiplier, payout, is_settled,
		idempotency_key, trace_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, sqlStr, r.RoundID, r.GameID, r.UserID, r.PlatformID, r.PlatformUserID,
		r.BetAmount, r.Params, r.State, r.GameStatus, r.Multiplier, r.Payout, r.IsSettled,
		r.IdempotencyKey, r.TraceID, now, now)
	return err
}

// GetRoundForUpdate 按回合ID加锁读取。多步游戏的推进/结算竞争
// （reveal 与 cashout 同时到达）靠这把行锁下的终态检查消解。
func GetRoundForUpdate(ctx context.Context, exec sqlx.ExtContext, roundID string) (*GameRound, error) {
	sqlStr := `SELECT id, round_id, game_id, user_id, platform_id, platform_user_id,
		bet_amount, params, state, game_status, multiplier, payout, is_settled,
		idempotency_key, trace_id, created_at, updated_at
		FROM game_round WHERE round_id = ? FOR UPDATE`
	var r GameRound
	if err := sqlx.GetContext(ctx, exec, &r, sqlStr, roundID); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRound 按回合ID读取（不加锁）
func GetRound(ctx context.Context, exec sqlx.ExtContext, roundID string) (*GameRound, error) {
	sqlStr := `SELECT id, round_id, game_id, user_id, platform_id, platform_user_id,
		bet_amount, params, state, game_status, multiplier, payout, is_settled,
		idempotency_key, trace_id, created_at, updated_at
		FROM game_round WHERE round_id = ?`
	var r GameRound
	if err := sqlx.GetContext(ctx, exec, &r, sqlStr, roundID); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRoundState 仅更新 state 快照（回合仍为 active）
func UpdateRoundState(ctx context.Context, exec sqlx.ExtContext, roundID, stateJSON string) error {
	now := time.Now().UnixMilli()
	sqlStr := "UPDATE game_round SET state = ?, updated_at = ? WHERE round_id = ?"
	_, err := exec.ExecContext(ctx, sqlStr, stateJSON, now, roundID)
	return err
}

// MarkRoundSettled 写入终态快照与派彩并标记已结算
func MarkRoundSettled(ctx context.Context, exec sqlx.ExtContext, roundID, stateJSON string, multiplier, payout float64) error {
	now := time.Now().UnixMilli()
	sqlStr := `UPDATE game_round SET state = ?, game_status = 2, is_settled = 1,
		multiplier = ?, payout = ?, updated_at = ? WHERE round_id = ?`
	_, err := exec.ExecContext(ctx, sqlStr, stateJSON, multiplier, payout, now, roundID)
	return err
}

// MarkRoundVoided 作废回合（本金已退）
func MarkRoundVoided(ctx context.Context, exec sqlx.ExtContext, roundID string) error {
	now := time.Now().UnixMilli()
	sqlStr := "UPDATE game_round SET game_status = 3, is_settled = 1, updated_at = ? WHERE round_id = ?"
	_, err := exec.ExecContext(ctx, sqlStr, now, roundID)
	return err
}

// RoundRecord 投注记录（用于查询接口）
type RoundRecord struct {
	RoundID    string  `db:"round_id" json:"round_id"`
	GameID     string  `db:"game_id" json:"game_id"`
	BetAmount  float64 `db:"bet_amount" json:"bet_amount"`
	GameStatus int8    `db:"game_status" json:"game_status"`
	Multiplier float64 `db:"multiplier" json:"multiplier"`
	Payout     float64 `db:"payout" json:"payout"`
	CreatedAt  int64   `db:"created_at" json:"created_at"`
	UpdatedAt  int64   `db:"updated_at" json:"updated_at"`
}

// ListUserRounds 查询用户的投注记录（按平台用户ID查询，最多100条）
func ListUserRounds(ctx context.Context, db *sqlx.DB, platformID int8, platformUserID string, gameID string, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var sqlStr string
	var args []interface{}
	if gameID != "" {
		sqlStr = `SELECT round_id, game_id, bet_amount, game_status, multiplier, payout, created_at, updated_at
			FROM game_round
			WHERE platform_id = ? AND platform_user_id = ? AND game_id = ?
			ORDER BY created_at DESC
			LIMIT ?`
		args = []interface{}{platformID, platformUserID, gameID, limit}
	} else {
		sqlStr = `SELECT round_id, game_id, bet_amount, game_status, multiplier, payout, created_at, updated_at
			FROM game_round
			WHERE platform_id = ? AND platform_user_id = ?
			ORDER BY created_at DESC
			LIMIT ?`
		args = []interface{}{platformID, platformUserID, limit}
	}

	var records []RoundRecord
	if err := db.SelectContext(ctx, &records, sqlStr, args...); err != nil {
		return nil, err
	}
	return records, nil
}
