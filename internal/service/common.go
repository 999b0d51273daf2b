package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"casino-server/internal/config"
	"casino-server/internal/games"
	infmysql "casino-server/internal/infra/mysql"
	infrds "casino-server/internal/infra/redis"
	"casino-server/internal/metrics"
	"casino-server/common/constant"
	"casino-server/internal/model"
	"casino-server/internal/rng"
	"casino-server/internal/state"

	mysqlerr "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	decimal "github.com/shopspring/decimal"
)

const (
	// Redis 进行中锁 TTL：覆盖单次请求的最长处理时间即可
	idemLockTTL = 45 * time.Second
	// 结果缓存 TTL：用于重复请求直接返回第一次成功结果；应覆盖到大多数"短时重试"窗口
	idemResultTTL = 1 * time.Minute
	// 回合终态结果缓存 TTL
	roundResultTTL = 10 * time.Minute
)

// 默认事务超时时间，防止长事务占用资源影响并发（若上游已有 deadline，则沿用上游）
const defaultTxTimeout = 3 * time.Second

var (
	ErrDuplicateInFlight   = errors.New("duplicate request in flight")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUserDisabled        = errors.New("user disabled")
	ErrRoundNotFound       = errors.New("round not found")
	ErrAlreadySettled      = errors.New("round already settled")
	ErrEntropyUnavailable  = errors.New("entropy source unavailable")
)

// 投注限额。上限可经配置中心阈值热更新
var minBet = decimal.NewFromFloat(0.01)

const defaultMaxBet = 1000000

func maxBet() decimal.Decimal {
	return decimal.NewFromInt(config.GetThreshold("max_bet_amount", defaultMaxBet))
}

// entropy 为全局随机源。开奖素材只能来自这里，任何读取失败都会
// 让请求以 503 失败，绝不退化为弱随机。
var entropy = rng.New()

// parseBetAmount 解析并校验投注金额（正数、限额内、两位小数）
func parseBetAmount(s, traceID string) (decimal.Decimal, error) {
	amtDec, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		fmt.Printf("[Round]  无效的投注金额格式: bet_amount=%s, error=%v, trace_id=%s\n", s, err, traceID)
		return decimal.Zero, errors.New("invalid bet amount format")
	}
	if amtDec.LessThanOrEqual(decimal.Zero) {
		fmt.Printf("[Round]  投注金额必须大于0: bet_amount=%s, trace_id=%s\n", s, traceID)
		return decimal.Zero, errors.New("bet amount must be positive")
	}
	if amtDec.LessThan(minBet) {
		return decimal.Zero, fmt.Errorf("bet amount below minimum limit: %s", minBet.String())
	}
	if max := maxBet(); amtDec.GreaterThan(max) {
		return decimal.Zero, fmt.Errorf("bet amount exceeds maximum limit: %s", max.String())
	}
	return amtDec, nil
}

// generateBillNo 生成可读的账单号
// 格式：CS{YYYYMMDD}{HHmmss}{UserID后4位}{随机3位十六进制}
func generateBillNo(userID int64) (string, error) {
	now := time.Now()
	dateTime := now.Format("20060102150405")
	userSuffix := fmt.Sprintf("%04d", userID%10000)
	randomBytes := make([]byte, 2)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("bill no entropy: %w", err)
	}
	randomHex := strings.ToUpper(hex.EncodeToString(randomBytes)[:3])
	return fmt.Sprintf("CS%s%s%s", dateTime, userSuffix, randomHex), nil
}

// beginTx 开启带超时保护的事务。若上游 ctx 已设置 deadline，则沿用。
func beginTx(ctx context.Context) (context.Context, context.CancelFunc, *sqlx.Tx, error) {
	txCtx := ctx
	cancel := context.CancelFunc(func() {})
	if _, has := ctx.Deadline(); !has {
		txCtx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
	}
	tx, err := infmysql.SQLX().BeginTxx(txCtx, nil)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return txCtx, cancel, tx, nil
}

// acquireIdemLock 获取幂等进行中锁。返回 release 函数；若锁被占用返回 ok=false。
// 锁值为 UUID，释放走 Lua 脚本，只有值匹配才删除，避免误删他人锁。
func acquireIdemLock(ctx context.Context, idemKey, traceID string) (release func(), ok bool) {
	r := infrds.Client()
	if r == nil {
		return func() {}, true
	}
	lockValue := uuid.New().String()
	lockKey := infrds.IdemLockKey(idemKey)
	got, _ := r.SetNX(ctx, lockKey, lockValue, idemLockTTL).Result()
	if !got {
		return nil, false
	}
	return func() {
		script := `
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			else
				return 0
			end
		`
		result, err := r.Eval(ctx, script, []string{lockKey}, lockValue).Result()
		if err != nil {
			fmt.Printf("[Round] 释放分布式锁失败: idem_key=%s, error=%v, trace_id=%s\n", idemKey, err, traceID)
		} else if result == int64(0) {
			fmt.Printf("[Round] 分布式锁已被其他请求释放或过期: idem_key=%s, trace_id=%s\n", idemKey, traceID)
		}
	}, true
}

// cachedResult 查询幂等结果缓存，命中则反序列化到 out
func cachedResult(ctx context.Context, idemKey string, out any) bool {
	r := infrds.Client()
	if r == nil {
		return false
	}
	bs, _ := r.Get(ctx, infrds.IdemResultKey(idemKey)).Bytes()
	if len(bs) == 0 {
		return false
	}
	return json.Unmarshal(bs, out) == nil
}

// cacheResult 写入幂等结果缓存（降级容错，写失败不影响主流程）
func cacheResult(ctx context.Context, idemKey string, out any) {
	r := infrds.Client()
	if r == nil {
		return
	}
	if b, e := json.Marshal(out); e == nil {
		_ = r.Set(ctx, infrds.IdemResultKey(idemKey), b, idemResultTTL).Err()
	}
}

// getOrCreateUserInTx 在事务中获取或创建用户（加锁）
// 如果用户不存在，自动注册；并发创建撞唯一索引时重新加锁查询。
func getOrCreateUserInTx(ctx context.Context, tx *sqlx.Tx, platformID int8, platformUserID, username string) (*model.Customers, error) {
	user, err := model.GetUserByPlatformUserForUpdate(ctx, tx, platformID, platformUserID)
	if err == nil {
		return user, nil
	}
	if isNoRows(err) {
		now := time.Now().UnixMilli()
		newUser := &model.Customers{
			PlatformID:     platformID,
			PlatformUserID: platformUserID,
			Username:       username,
			Balance:        0.00,
			Status:         constant.StatusNormal,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		query := `INSERT INTO customers (platform_id, platform_user_id, username, balance, status, created_at, updated_at)
		          VALUES (?, ?, ?, ?, ?, ?, ?)`
		result, err := tx.ExecContext(ctx, query,
			newUser.PlatformID, newUser.PlatformUserID, newUser.Username, newUser.Balance, newUser.Status, newUser.CreatedAt, newUser.UpdatedAt)
		if err != nil {
			if me, ok := err.(*mysqlerr.MySQLError); ok && me.Number == 1062 {
				return model.GetUserByPlatformUserForUpdate(ctx, tx, platformID, platformUserID)
			}
			return nil, err
		}
		id, _ := result.LastInsertId()
		newUser.ID = id
		return newUser, nil
	}
	return nil, err
}

// codeToState 数据库状态码转状态机字符串
func codeToState(code int8) string {
	switch int(code) {
	case constant.RoundSettled:
		return state.StateSettled
	case constant.RoundVoided:
		return state.StateVoided
	default:
		return state.StateActive
	}
}

// settleInTx 在事务内结算一个已到终态的回合：
// 1. 写 settlement_log（round_id 唯一，撞键即已结算过，整个事务回滚）
// 2. 派彩 > 0 则给已锁定的用户加余额并落账变流水
// 3. 标记回合已结算并写入终态快照
// 4. 落 round_settled 事件到 outbox
// 调用方必须已对 user 行加锁。返回派彩金额与结算后余额。
func settleInTx(ctx context.Context, tx *sqlx.Tx, round *model.GameRound, user *model.Customers, st *games.State, traceID string) (payout, balanceAfter float64, err error) {
	if _, err := state.NextState(codeToState(round.GameStatus), state.EvtSettle); err != nil {
		return 0, 0, ErrAlreadySettled
	}
	betDec := decimal.NewFromFloat(round.BetAmount)
	multDec := decimal.NewFromFloat(st.Multiplier)
	payoutDec := betDec.Mul(multDec).Round(2)
	payout = payoutDec.InexactFloat64()

	slog := &model.SettlementLog{
		RoundID:    round.RoundID,
		GameID:     round.GameID,
		UserID:     user.ID,
		BetAmount:  round.BetAmount,
		Multiplier: st.Multiplier,
		Payout:     payout,
		SettleType: model.SettleTypeNormal,
		TraceID:    traceID,
	}
	isDup, err := slog.Insert(ctx, tx)
	if err != nil {
		return 0, 0, err
	}
	if isDup {
		fmt.Printf("[Settle]  回合已结算过: round_id=%s, trace_id=%s\n", round.RoundID, traceID)
		return 0, 0, ErrAlreadySettled
	}

	balanceAfter = user.Balance
	if payout > 0 {
		beforeDec := decimal.NewFromFloat(user.Balance)
		afterDec := beforeDec.Add(payoutDec).Round(2)
		balanceAfter = afterDec.InexactFloat64()
		if err := model.UpdateUserBalance(ctx, tx, user.ID, balanceAfter); err != nil {
			return 0, 0, err
		}
		billNo, err := generateBillNo(user.ID)
		if err != nil {
			return 0, 0, err
		}
		ledger := &model.WalletLedger{
			BillNo:       billNo,
			RoundID:      round.RoundID,
			UserID:       user.ID,
			LedgerType:   model.LedgerTypePayout,
			Amount:       payout,
			BalanceAfter: balanceAfter,
			TraceID:      traceID,
		}
		if err := ledger.Insert(ctx, tx); err != nil {
			return 0, 0, err
		}
	}

	stateJSON, err := json.Marshal(st)
	if err != nil {
		return 0, 0, err
	}
	if err := model.MarkRoundSettled(ctx, tx, round.RoundID, string(stateJSON), st.Multiplier, payout); err != nil {
		return 0, 0, err
	}

	payload := map[string]any{
		"event":            "round_settled",
		"round_id":         round.RoundID,
		"game_id":          round.GameID,
		"user_id":          user.ID,
		"platform_id":      round.PlatformID,
		"platform_user_id": round.PlatformUserID,
		"bet_amount":       round.BetAmount,
		"multiplier":       st.Multiplier,
		"payout":           payout,
	}
	if err := model.CreateOutbox(ctx, tx, "round_settled", round.RoundID, payload); err != nil {
		return 0, 0, err
	}

	metrics.RecordSettlement(round.GameID, payout, false)
	fmt.Printf("[Settle]  结算完成: round_id=%s, game=%s, multiplier=%.4f, payout=%.2f, trace_id=%s\n",
		round.RoundID, round.GameID, st.Multiplier, payout, traceID)
	return payout, balanceAfter, nil
}

// cacheRoundResult 将终态回合结果写入 Redis（排障/查询加速，尽力而为）
func cacheRoundResult(ctx context.Context, roundID string, view map[string]any) {
	r := infrds.Client()
	if r == nil {
		return
	}
	if b, e := json.Marshal(view); e == nil {
		_ = r.Set(ctx, infrds.RoundResultKey(roundID), b, roundResultTTL).Err()
	}
}

// isEntropyErr 判断是否熵源故障（fail-closed 分支）
func isEntropyErr(err error) bool {
	return errors.Is(err, rng.ErrEntropyUnavailable)
}

// isNoRows 判断查询无结果（含被包装的情况）
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
