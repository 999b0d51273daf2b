package api

import (
	"encoding/json"

	helper "casino-server/internal/common/helper"
	"casino-server/internal/common/response"
	"casino-server/internal/config"
	"casino-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

// AdminController 管理端接口（作废回合）
// 需管理员认证，见 middleware.AdminAuthFilter

type AdminController struct{ beego.Controller }

type voidRequest struct {
	Reason string `json:"reason"`
}

// VoidRound 作废回合：POST /api/admin/round/:round_id/void
// 进行中的回合退还本金并进入 voided 终态；已终态的回合返回 409。
func (c *AdminController) VoidRound() {
	traceID := helper.GetTraceID(c.Ctx)
	// 功能开关：事故处置时可经配置中心热关停人工作废
	if config.GetFeatureFlag("disable_manual_void") {
		response.Error(&c.Controller, 403, response.CodeForbidden, traceID)
		return
	}
	roundID := c.Ctx.Input.Param(":round_id")
	if !helper.IsValidRoundID(roundID) {
		response.BadRequest(&c.Controller, "invalid round_id", traceID)
		return
	}

	var req voidRequest
	_ = json.Unmarshal(c.Ctx.Input.RequestBody, &req)
	if req.Reason == "" {
		req.Reason = "manual void"
	}

	svc := newRoundService()
	out, err := svc.VoidRound(c.Ctx.Request.Context(), service.VoidInput{
		RoundID: roundID,
		Reason:  req.Reason,
		TraceID: traceID,
	})
	if err != nil {
		writeServiceError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}
