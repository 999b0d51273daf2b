package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"casino-server/common/constant"
	chelper "casino-server/common/helper"
	"casino-server/internal/games"
	"casino-server/internal/metrics"
	"casino-server/internal/model"

	"github.com/jmoiron/sqlx"
	decimal "github.com/shopspring/decimal"
)

// ActionInput 回合动作入参
type ActionInput struct {
	RoundID        string
	PlatformID     int8
	PlatformUserID string
	Action         json.RawMessage
	IdempotencyKey string
	TraceID        string
}

// CashoutInput 兑现入参
type CashoutInput struct {
	RoundID        string
	PlatformID     int8
	PlatformUserID string
	IdempotencyKey string
	TraceID        string
}

// ActRound 推进一个多步回合（mines 翻格、tower 爬塔、blackjack 要牌等）。
// 行锁下先检查终态：同一回合并发到达的 action/cashout 只有先拿到锁的
// 一个会生效，后到的撞终态返回冲突。
func (s *roundService) ActRound(ctx context.Context, in ActionInput) (*RoundOutput, error) {
	result := "fail"
	game := "unknown"
	defer func() { metrics.RecordRoundAction(result, game) }()

	fmt.Printf("[Action]  收到动作请求: round_id=%s, platform_user_id=%s, idem_key=%s, trace_id=%s\n",
		in.RoundID, in.PlatformUserID, in.IdempotencyKey, in.TraceID)

	var cached RoundOutput
	if cachedResult(ctx, in.IdempotencyKey, &cached) {
		result = "success"
		game = cached.Game
		return &cached, nil
	}
	release, got := acquireIdemLock(ctx, in.IdempotencyKey, in.TraceID)
	if !got {
		if cachedResult(ctx, in.IdempotencyKey, &cached) {
			result = "success"
			game = cached.Game
			return &cached, nil
		}
		return nil, ErrDuplicateInFlight
	}
	defer release()

	txCtx, cancel, tx, err := beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() { _ = tx.Rollback() }()

	round, err := model.GetRoundForUpdate(txCtx, tx, in.RoundID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	game = round.GameID
	// 归属校验失败与不存在同样返回 not found，不泄露他人回合
	if round.PlatformID != in.PlatformID || round.PlatformUserID != in.PlatformUserID {
		fmt.Printf("[Action]  回合归属不符: round_id=%s, platform_user_id=%s, trace_id=%s\n",
			in.RoundID, in.PlatformUserID, in.TraceID)
		return nil, ErrRoundNotFound
	}
	if int(round.GameStatus) != constant.RoundActive {
		return nil, games.ErrRoundTerminal
	}

	g, err := games.Lookup(round.GameID)
	if err != nil {
		return nil, err
	}
	var st games.State
	if err := json.Unmarshal([]byte(round.State), &st); err != nil {
		return nil, fmt.Errorf("corrupt round state: %w", err)
	}

	isDup, err := model.InsertIdempotencyKey(txCtx, tx, in.IdempotencyKey, in.RoundID, "action")
	if err != nil {
		return nil, err
	}
	if isDup {
		_ = tx.Rollback()
		var out RoundOutput
		if cachedResult(ctx, in.IdempotencyKey, &out) {
			result = "success"
			return &out, nil
		}
		return nil, errors.New("duplicate request, original result unavailable")
	}

	if err := g.Act(&st, in.Action, entropy); err != nil {
		if isEntropyErr(err) {
			metrics.RecordEntropyFailure()
			fmt.Printf("[Action]  熵源不可用，拒绝动作: round_id=%s, trace_id=%s\n", in.RoundID, in.TraceID)
			return nil, ErrEntropyUnavailable
		}
		return nil, err
	}

	out, err := s.persistProgress(txCtx, tx, round, g, &st, in.TraceID)
	if err != nil {
		return nil, err
	}
	model.InsertRoundAudit(txCtx, tx, in.RoundID, "action", string(in.Action), in.TraceID)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	result = "success"
	cacheResult(ctx, in.IdempotencyKey, out)
	if out.Status == "settled" {
		cacheRoundResult(ctx, in.RoundID, out.View)
	}
	return out, nil
}

// CashoutRound 主动兑现。crash 的有效性按服务器时钟判定，
// 客户端上报的任何倍率都不参与计算。
func (s *roundService) CashoutRound(ctx context.Context, in CashoutInput) (*RoundOutput, error) {
	result := "fail"
	game := "unknown"
	defer func() { metrics.RecordRoundCashout(result, game) }()

	nowMs := time.Now().UnixMilli()
	fmt.Printf("[Cashout]  收到兑现请求: round_id=%s, platform_user_id=%s, idem_key=%s, trace_id=%s\n",
		in.RoundID, in.PlatformUserID, in.IdempotencyKey, in.TraceID)

	var cached RoundOutput
	if cachedResult(ctx, in.IdempotencyKey, &cached) {
		result = "success"
		game = cached.Game
		return &cached, nil
	}
	release, got := acquireIdemLock(ctx, in.IdempotencyKey, in.TraceID)
	if !got {
		if cachedResult(ctx, in.IdempotencyKey, &cached) {
			result = "success"
			game = cached.Game
			return &cached, nil
		}
		return nil, ErrDuplicateInFlight
	}
	defer release()

	txCtx, cancel, tx, err := beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() { _ = tx.Rollback() }()

	round, err := model.GetRoundForUpdate(txCtx, tx, in.RoundID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	game = round.GameID
	if round.PlatformID != in.PlatformID || round.PlatformUserID != in.PlatformUserID {
		return nil, ErrRoundNotFound
	}
	if int(round.GameStatus) != constant.RoundActive {
		return nil, games.ErrRoundTerminal
	}

	g, err := games.Lookup(round.GameID)
	if err != nil {
		return nil, err
	}
	var st games.State
	if err := json.Unmarshal([]byte(round.State), &st); err != nil {
		return nil, fmt.Errorf("corrupt round state: %w", err)
	}

	isDup, err := model.InsertIdempotencyKey(txCtx, tx, in.IdempotencyKey, in.RoundID, "cashout")
	if err != nil {
		return nil, err
	}
	if isDup {
		_ = tx.Rollback()
		var out RoundOutput
		if cachedResult(ctx, in.IdempotencyKey, &out) {
			result = "success"
			return &out, nil
		}
		return nil, errors.New("duplicate request, original result unavailable")
	}

	if err := g.Cashout(&st, entropy, nowMs); err != nil {
		if isEntropyErr(err) {
			metrics.RecordEntropyFailure()
			return nil, ErrEntropyUnavailable
		}
		return nil, err
	}

	out, err := s.persistProgress(txCtx, tx, round, g, &st, in.TraceID)
	if err != nil {
		return nil, err
	}
	model.InsertRoundAudit(txCtx, tx, in.RoundID, "cashout", "{}", in.TraceID)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	result = "success"
	cacheResult(ctx, in.IdempotencyKey, out)
	if out.Status == "settled" {
		cacheRoundResult(ctx, in.RoundID, out.View)
	}
	return out, nil
}

// persistProgress 将动作后的状态落库：到终态则锁用户并结算，
// 否则仅更新 state 快照。
func (s *roundService) persistProgress(ctx context.Context, tx *sqlx.Tx, round *model.GameRound, g games.Game, st *games.State, traceID string) (*RoundOutput, error) {
	out := &RoundOutput{
		RoundID: round.RoundID,
		Game:    round.GameID,
		Status:  "active",
		View:    g.View(st),
	}
	if !st.Terminal {
		stateJSON, err := json.Marshal(st)
		if err != nil {
			return nil, err
		}
		if err := model.UpdateRoundState(ctx, tx, round.RoundID, string(stateJSON)); err != nil {
			return nil, err
		}
		return out, nil
	}

	user, err := model.GetUserByIDForUpdate(ctx, tx, round.UserID)
	if err != nil {
		return nil, err
	}
	payout, balanceAfter, err := settleInTx(ctx, tx, round, user, st, traceID)
	if err != nil {
		return nil, err
	}
	out.Status = "settled"
	out.Multiplier = st.Multiplier
	out.Payout = chelper.TrimDecimal(decimal.NewFromFloat(payout))
	out.RemainAmount = chelper.TrimDecimal(decimal.NewFromFloat(balanceAfter))
	out.View = g.View(st)
	return out, nil
}
