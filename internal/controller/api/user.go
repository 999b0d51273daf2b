package api

import (
	"strconv"

	helper "casino-server/internal/common/helper"
	"casino-server/internal/common/response"
	"casino-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

// UserController 用户查询接口（余额、投注记录）
// 平台身份由认证中间件注入，用户只能查询自己的数据

type UserController struct{ beego.Controller }

// Balance 查询余额：GET /api/user/balance
func (c *UserController) Balance() {
	traceID := helper.GetTraceID(c.Ctx)
	platformID, platformUserID, _ := platformIdentity(&c.Controller)
	if platformUserID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	bal, err := service.GetBalance(c.Ctx.Request.Context(), platformID, platformUserID)
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, map[string]any{"balance": bal}, traceID)
}

// Bets 查询投注记录：GET /api/user/bets?game=mines&limit=20
func (c *UserController) Bets() {
	traceID := helper.GetTraceID(c.Ctx)
	platformID, platformUserID, _ := platformIdentity(&c.Controller)
	if platformUserID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	gameID := c.Ctx.Input.Query("game")
	limit := 10
	if ls := c.Ctx.Input.Query("limit"); ls != "" {
		if n, err := strconv.Atoi(ls); err == nil {
			limit = n
		}
	}

	records, err := service.ListBets(c.Ctx.Request.Context(), platformID, platformUserID, gameID, limit)
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, map[string]any{"bets": records, "count": len(records)}, traceID)
}
