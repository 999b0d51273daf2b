package api

import (
	helper "casino-server/internal/common/helper"
	"casino-server/internal/common/response"
	"casino-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newRoundService = service.NewRoundService

type GameController struct{ beego.Controller }

// Start 开局接口：POST /api/games/:game/start
//
// 幂等键：客户端生成并随请求传入，用于在网络重试/超时重发时保证
// "同一次下注只生效一次"。
// 服务端幂等保证（多层防护）：
//  1. Redis 进行中锁（约45秒）：并发重复请求直接返回 202，并携带 Retry-After: 1；
//  2. MySQL 唯一键：事务内先插入 idempotency_keys(idem_key)，已存在则返回首次请求的结果；
//  3. 结果缓存：首次成功结果写入 Redis 短期缓存，后续重复直接读缓存快速返回。
func (c *GameController) Start() {
	traceID := helper.GetTraceID(c.Ctx)
	gameID := c.Ctx.Input.Param(":game")
	if gameID == "" {
		response.BadRequest(&c.Controller, "game required", traceID)
		return
	}

	// 这里必须对业务参数严格校验，后续 service 不再重复校验格式
	sp, ok, msg := helper.ParseAndValidateStart(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	platformID, platformUserID, platformUserName := platformIdentity(&c.Controller)
	if platformUserID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	svc := newRoundService()
	out, err := svc.StartRound(c.Ctx.Request.Context(), service.StartInput{
		GameID:           gameID,
		PlatformID:       platformID,
		PlatformUserID:   platformUserID,
		PlatformUserName: platformUserName,
		BetAmount:        sp.BetAmount,
		Params:           sp.Params,
		IdempotencyKey:   sp.IdempotencyKey,
		TraceID:          traceID,
	})
	if err != nil {
		writeServiceError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Action 回合动作接口：POST /api/games/:game/round/:round_id/action
func (c *GameController) Action() {
	traceID := helper.GetTraceID(c.Ctx)
	roundID := c.Ctx.Input.Param(":round_id")
	if !helper.IsValidRoundID(roundID) {
		response.BadRequest(&c.Controller, "invalid round_id", traceID)
		return
	}

	ap, ok, msg := helper.ParseAndValidateAction(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	platformID, platformUserID, _ := platformIdentity(&c.Controller)
	if platformUserID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	svc := newRoundService()
	out, err := svc.ActRound(c.Ctx.Request.Context(), service.ActionInput{
		RoundID:        roundID,
		PlatformID:     platformID,
		PlatformUserID: platformUserID,
		Action:         ap.Action,
		IdempotencyKey: ap.IdempotencyKey,
		TraceID:        traceID,
	})
	if err != nil {
		writeServiceError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Cashout 兑现接口：POST /api/games/:game/round/:round_id/cashout
// crash 的兑现有效性以请求到达服务器的时刻为准
func (c *GameController) Cashout() {
	traceID := helper.GetTraceID(c.Ctx)
	roundID := c.Ctx.Input.Param(":round_id")
	if !helper.IsValidRoundID(roundID) {
		response.BadRequest(&c.Controller, "invalid round_id", traceID)
		return
	}

	cp, ok, msg := helper.ParseAndValidateCashout(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	platformID, platformUserID, _ := platformIdentity(&c.Controller)
	if platformUserID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	svc := newRoundService()
	out, err := svc.CashoutRound(c.Ctx.Request.Context(), service.CashoutInput{
		RoundID:        roundID,
		PlatformID:     platformID,
		PlatformUserID: platformUserID,
		IdempotencyKey: cp.IdempotencyKey,
		TraceID:        traceID,
	})
	if err != nil {
		writeServiceError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}
