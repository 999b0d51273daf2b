package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"casino-server/common/constant"
	chelper "casino-server/common/helper"
	"casino-server/internal/games"
	infmysql "casino-server/internal/infra/mysql"
	"casino-server/internal/model"

	decimal "github.com/shopspring/decimal"
)

// GetRound 查询回合（只读，不加锁）
// 返回的视图由规则模块裁剪：active 回合不透出隐藏素材。
func (s *roundService) GetRound(ctx context.Context, roundID, traceID string) (*RoundOutput, error) {
	round, err := model.GetRound(ctx, infmysql.SQLX(), roundID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	out := &RoundOutput{
		RoundID:    round.RoundID,
		Game:       round.GameID,
		Multiplier: round.Multiplier,
		Payout:     chelper.TrimDecimal(decimal.NewFromFloat(round.Payout)),
	}
	switch int(round.GameStatus) {
	case constant.RoundSettled:
		out.Status = "settled"
	case constant.RoundVoided:
		out.Status = "voided"
	default:
		out.Status = "active"
	}

	g, lookupErr := games.Lookup(round.GameID)
	if lookupErr != nil {
		// 历史数据可能包含已下线的游戏，仅返回基础字段
		fmt.Printf("[Round]  回合使用了未注册的游戏: round_id=%s, game=%s, trace_id=%s\n",
			roundID, round.GameID, traceID)
		return out, nil
	}
	var st games.State
	if err := json.Unmarshal([]byte(round.State), &st); err == nil {
		out.View = g.View(&st)
	}
	return out, nil
}

// GetBalance 查询用户余额
func GetBalance(ctx context.Context, platformID int8, platformUserID string) (string, error) {
	bal, err := model.GetUserBalance(ctx, infmysql.SQLX(), platformID, platformUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "0.00", nil
		}
		return "", err
	}
	return chelper.TrimDecimal(decimal.NewFromFloat(bal)), nil
}

// ListBets 查询用户投注记录
func ListBets(ctx context.Context, platformID int8, platformUserID, gameID string, limit int) ([]model.RoundRecord, error) {
	return model.ListUserRounds(ctx, infmysql.SQLX(), platformID, platformUserID, gameID, limit)
}
