package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	chelper "casino-server/common/helper"
	"casino-server/internal/metrics"
	"casino-server/internal/model"
	"casino-server/internal/state"

	decimal "github.com/shopspring/decimal"
)

// VoidInput 作废入参（管理端）
type VoidInput struct {
	RoundID string
	Reason  string
	TraceID string
}

// VoidRound 管理端作废一个进行中的回合：退还本金，回合进入 voided 终态。
// 已结算/已作废的回合不允许再作废（资金只动一次）。
func (s *roundService) VoidRound(ctx context.Context, in VoidInput) (*RoundOutput, error) {
	fmt.Printf("[Void]  收到作废请求: round_id=%s, reason=%s, trace_id=%s\n", in.RoundID, in.Reason, in.TraceID)

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
	if _, err := state.NextState(codeToState(round.GameStatus), state.EvtVoid); err != nil {
		return nil, ErrAlreadySettled
	}

	user, err := model.GetUserByIDForUpdate(txCtx, tx, round.UserID)
	if err != nil {
		return nil, err
	}

	// settlement_log 的 round_id 唯一键同样挡住 void/settle 竞争
	slog := &model.SettlementLog{
		RoundID:    round.RoundID,
		GameID:     round.GameID,
		UserID:     user.ID,
		BetAmount:  round.BetAmount,
		Multiplier: 0,
		Payout:     round.BetAmount,
		SettleType: model.SettleTypeVoid,
		TraceID:    in.TraceID,
	}
	isDup, err := slog.Insert(txCtx, tx)
	if err != nil {
		return nil, err
	}
	if isDup {
		return nil, ErrAlreadySettled
	}

	// 退还本金
	refundDec := decimal.NewFromFloat(round.BetAmount)
	afterDec := decimal.NewFromFloat(user.Balance).Add(refundDec).Round(2)
	if err := model.UpdateUserBalance(txCtx, tx, user.ID, afterDec.InexactFloat64()); err != nil {
		return nil, err
	}
	billNo, err := generateBillNo(user.ID)
	if err != nil {
		return nil, err
	}
	ledger := &model.WalletLedger{
		BillNo:       billNo,
		RoundID:      round.RoundID,
		UserID:       user.ID,
		LedgerType:   model.LedgerTypeRefund,
		Amount:       refundDec.Round(2).InexactFloat64(),
		BalanceAfter: afterDec.InexactFloat64(),
		TraceID:      in.TraceID,
	}
	if err := ledger.Insert(txCtx, tx); err != nil {
		return nil, err
	}

	if err := model.MarkRoundVoided(txCtx, tx, round.RoundID); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"event":      "round_voided",
		"round_id":   round.RoundID,
		"game_id":    round.GameID,
		"user_id":    user.ID,
		"bet_amount": round.BetAmount,
		"reason":     in.Reason,
	}
	if err := model.CreateOutbox(txCtx, tx, "round_voided", round.RoundID, payload); err != nil {
		return nil, err
	}

	detail, _ := json.Marshal(map[string]string{"reason": in.Reason})
	model.InsertRoundAudit(txCtx, tx, round.RoundID, "void", string(detail), in.TraceID)

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.RecordSettlement(round.GameID, 0, true)
	fmt.Printf("[Void]  作废完成: round_id=%s, refund=%.2f, trace_id=%s\n", round.RoundID, round.BetAmount, in.TraceID)
	return &RoundOutput{
		RoundID:      round.RoundID,
		Game:         round.GameID,
		Status:       "voided",
		Payout:       chelper.TrimDecimal(refundDec),
		RemainAmount: chelper.TrimDecimal(afterDec),
	}, nil
}
