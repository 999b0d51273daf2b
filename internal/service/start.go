package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"casino-server/common/constant"
	chelper "casino-server/common/helper"
	"casino-server/internal/games"
	infmysql "casino-server/internal/infra/mysql"
	"casino-server/internal/metrics"
	"casino-server/internal/model"

	"github.com/google/uuid"
	decimal "github.com/shopspring/decimal"
)

// StartInput 开局入参
type StartInput struct {
	GameID           string
	PlatformID       int8
	PlatformUserID   string
	PlatformUserName string
	BetAmount        string
	Params           json.RawMessage
	IdempotencyKey   string
	TraceID          string
}

// RoundOutput 回合结果（start/action/cashout 共用）
type RoundOutput struct {
	RoundID      string         `json:"round_id"`
	Game         string         `json:"game"`
	Status       string         `json:"status"` // active | settled | voided
	Multiplier   float64        `json:"multiplier"`
	Payout       string         `json:"payout"`
	RemainAmount string         `json:"remain_amount"`
	View         map[string]any `json:"view,omitempty"`
}

type RoundService interface {
	StartRound(ctx context.Context, in StartInput) (*RoundOutput, error)
	ActRound(ctx context.Context, in ActionInput) (*RoundOutput, error)
	CashoutRound(ctx context.Context, in CashoutInput) (*RoundOutput, error)
	GetRound(ctx context.Context, roundID, traceID string) (*RoundOutput, error)
	VoidRound(ctx context.Context, in VoidInput) (*RoundOutput, error)
}

type roundService struct{}

func NewRoundService() RoundService { return &roundService{} }

// StartRound 开局主流程：
// 1. 金额校验（decimal，正数，限额内）
// 2. 幂等快路径（Redis 结果缓存 + SETNX 进行中锁）
// 3. 事务内：锁用户 -> 扣款 -> 抽取开奖素材 -> 落回合
// 4. 单步游戏当场结算；多步游戏保持 active 等待后续动作
// 开奖素材在扣款同一事务内生成并落库，返回给客户端的视图
// 只含已公开信息。
func (s *roundService) StartRound(ctx context.Context, in StartInput) (*RoundOutput, error) {
	start := time.Now()
	result := "fail"
	defer func() { metrics.RecordRoundStart(result, in.GameID, start) }()

	g, err := games.Lookup(in.GameID)
	if err != nil {
		fmt.Printf("[Start]  未知的游戏类型: game=%s, trace_id=%s\n", in.GameID, in.TraceID)
		return nil, err
	}

	amtDec, err := parseBetAmount(in.BetAmount, in.TraceID)
	if err != nil {
		return nil, err
	}

	fmt.Printf("[Start]  收到开局请求: game=%s, platform_id=%d, platform_user_id=%s, amount=%s, idem_key=%s, trace_id=%s\n",
		in.GameID, in.PlatformID, in.PlatformUserID, in.BetAmount, in.IdempotencyKey, in.TraceID)

	// Redis 快路径：若已有结果缓存，直接返回
	var cached RoundOutput
	if cachedResult(ctx, in.IdempotencyKey, &cached) {
		fmt.Printf("[Start]  Redis 缓存命中: idem_key=%s, round_id=%s, trace_id=%s\n",
			in.IdempotencyKey, cached.RoundID, in.TraceID)
		return &cached, nil
	}
	release, got := acquireIdemLock(ctx, in.IdempotencyKey, in.TraceID)
	if !got {
		// 锁被占用，再查一次缓存，仍无结果则判定为进行中
		if cachedResult(ctx, in.IdempotencyKey, &cached) {
			return &cached, nil
		}
		fmt.Printf("[Start]  重复请求进行中: idem_key=%s, trace_id=%s\n", in.IdempotencyKey, in.TraceID)
		return nil, ErrDuplicateInFlight
	}
	defer release()

	txCtx, cancel, tx, err := beginTx(ctx)
	if err != nil {
		fmt.Printf("[Start] 开启事务失败: error=%v, trace_id=%s\n", err, in.TraceID)
		return nil, err
	}
	defer cancel()
	defer func() { _ = tx.Rollback() }()

	user, err := getOrCreateUserInTx(txCtx, tx, in.PlatformID, in.PlatformUserID, in.PlatformUserName)
	if err != nil {
		fmt.Printf("[Start] 获取或创建用户失败: error=%v, platform_id=%d, platform_user_id=%s, trace_id=%s\n",
			err, in.PlatformID, in.PlatformUserID, in.TraceID)
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}
	if user.Status != constant.StatusNormal {
		fmt.Printf("[Start]  用户状态异常: user_id=%d, status=%d, trace_id=%s\n", user.ID, user.Status, in.TraceID)
		return nil, ErrUserDisabled
	}
	if decimal.NewFromFloat(user.Balance).Cmp(amtDec) < 0 {
		return nil, ErrInsufficientBalance
	}

	roundID := uuid.New().String()

	// 幂等键：撞唯一键说明同 key 的首次请求已落库，回源返回首次结果
	isDup, err := model.InsertIdempotencyKey(txCtx, tx, in.IdempotencyKey, roundID, "start")
	if err != nil {
		return nil, fmt.Errorf("idempotency insert failed: %w", err)
	}
	if isDup {
		_ = tx.Rollback()
		return s.replayByIdemKey(ctx, in.IdempotencyKey, in.TraceID)
	}

	// 抽取开奖素材。熵源故障直接失败，不退化
	st, err := g.Start(in.Params, entropy)
	if err != nil {
		if isEntropyErr(err) {
			metrics.RecordEntropyFailure()
			fmt.Printf("[Start]  熵源不可用，拒绝开局: game=%s, trace_id=%s\n", in.GameID, in.TraceID)
			return nil, ErrEntropyUnavailable
		}
		return nil, err
	}
	st.StartedAt = time.Now().UnixMilli()

	// 扣款
	beforeDec := decimal.NewFromFloat(user.Balance)
	afterDec := beforeDec.Sub(amtDec).Round(2)
	if err := model.UpdateUserBalance(txCtx, tx, user.ID, afterDec.InexactFloat64()); err != nil {
		return nil, err
	}
	billNo, err := generateBillNo(user.ID)
	if err != nil {
		return nil, err
	}
	ledger := &model.WalletLedger{
		BillNo:       billNo,
		RoundID:      roundID,
		UserID:       user.ID,
		LedgerType:   model.LedgerTypeBet,
		Amount:       amtDec.Neg().Round(2).InexactFloat64(),
		BalanceAfter: afterDec.InexactFloat64(),
		TraceID:      in.TraceID,
	}
	if err := ledger.Insert(txCtx, tx); err != nil {
		fmt.Printf("[Start]  写入账变失败: error=%v, round_id=%s, trace_id=%s\n", err, roundID, in.TraceID)
		return nil, err
	}

	stateJSON, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	round := &model.GameRound{
		RoundID:        roundID,
		GameID:         in.GameID,
		UserID:         user.ID,
		PlatformID:     in.PlatformID,
		PlatformUserID: in.PlatformUserID,
		BetAmount:      amtDec.Round(2).InexactFloat64(),
		Params:         string(in.Params),
		State:          string(stateJSON),
		GameStatus:     constant.RoundActive,
		IdempotencyKey: in.IdempotencyKey,
		TraceID:        in.TraceID,
	}
	if err := round.Insert(txCtx, tx); err != nil {
		fmt.Printf("[Start]  落回合失败: error=%v, round_id=%s, trace_id=%s\n", err, roundID, in.TraceID)
		return nil, err
	}

	payload := map[string]any{
		"event":            "round_started",
		"round_id":         roundID,
		"game_id":          in.GameID,
		"user_id":          user.ID,
		"platform_id":      in.PlatformID,
		"platform_user_id": in.PlatformUserID,
		"bet_amount":       round.BetAmount,
	}
	if err := model.CreateOutbox(txCtx, tx, "round_started", roundID, payload); err != nil {
		return nil, err
	}

	out := &RoundOutput{
		RoundID:      roundID,
		Game:         in.GameID,
		Status:       "active",
		RemainAmount: chelper.TrimDecimal(afterDec),
		View:         g.View(st),
	}

	// 单步游戏：开局即终态，同一事务内完成结算
	if st.Terminal {
		// user.Balance 需反映扣款后的值再加派彩
		user.Balance = afterDec.InexactFloat64()
		payout, balanceAfter, err := settleInTx(txCtx, tx, round, user, st, in.TraceID)
		if err != nil {
			return nil, err
		}
		out.Status = "settled"
		out.Multiplier = st.Multiplier
		out.Payout = chelper.TrimDecimal(decimal.NewFromFloat(payout))
		out.RemainAmount = chelper.TrimDecimal(decimal.NewFromFloat(balanceAfter))
		out.View = g.View(st)
	}

	model.InsertRoundAudit(txCtx, tx, roundID, "start", string(in.Params), in.TraceID)

	if err := tx.Commit(); err != nil {
		fmt.Printf("[Start]  提交事务失败: error=%v, round_id=%s, trace_id=%s\n", err, roundID, in.TraceID)
		return nil, err
	}

	result = "success"
	cacheResult(ctx, in.IdempotencyKey, out)
	if out.Status == "settled" {
		cacheRoundResult(ctx, roundID, out.View)
	}
	return out, nil
}

// replayByIdemKey 幂等键冲突时回源返回首次结果（Redis 优先，DB 兜底）
func (s *roundService) replayByIdemKey(ctx context.Context, idemKey, traceID string) (*RoundOutput, error) {
	var cached RoundOutput
	if cachedResult(ctx, idemKey, &cached) {
		fmt.Printf("[Start]  幂等冲突，从 Redis 返回上次结果: round_id=%s, trace_id=%s\n", cached.RoundID, traceID)
		return &cached, nil
	}
	k, err := model.GetIdempotencyKey(ctx, infmysql.SQLX(), idemKey)
	if err != nil {
		return nil, errors.New("duplicate request, original result unavailable")
	}
	out, err := s.GetRound(ctx, k.RoundID, traceID)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[Start]  幂等冲突，从数据库返回上次结果: round_id=%s, trace_id=%s\n", k.RoundID, traceID)
	return out, nil
}
