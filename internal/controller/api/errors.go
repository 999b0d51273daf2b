package api

import (
	"errors"
	"strings"

	"casino-server/internal/common/response"
	"casino-server/internal/games"
	"casino-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
	mysqlerr "github.com/go-sql-driver/mysql"
)

// writeServiceError 将 service/games 层错误映射为统一响应。
// 未识别的错误一律 500，不向客户端透出内部细节。
func writeServiceError(c *beego.Controller, err error, traceID string) {
	if me, ok := err.(*mysqlerr.MySQLError); ok && me.Number == 1062 {
		response.Conflict(c, response.CodeDuplicateKey, traceID)
		return
	}
	switch {
	case errors.Is(err, service.ErrDuplicateInFlight):
		response.Accepted(c, "重复请求进行中，请稍后重试", traceID)
	case errors.Is(err, service.ErrEntropyUnavailable):
		response.ServiceUnavailable(c, response.CodeEntropyUnavailable, traceID)
	case errors.Is(err, service.ErrRoundNotFound):
		response.NotFound(c, "游戏回合不存在", traceID)
	case errors.Is(err, service.ErrAlreadySettled):
		response.Conflict(c, response.CodeAlreadySettled, traceID)
	case errors.Is(err, service.ErrInsufficientBalance):
		response.Error(c, 400, response.CodeInsufficientBalance, traceID)
	case errors.Is(err, service.ErrUserDisabled):
		response.BadRequest(c, "用户状态异常", traceID)
	case errors.Is(err, games.ErrUnknownGame):
		response.Error(c, 400, response.CodeUnknownGame, traceID)
	case errors.Is(err, games.ErrRoundTerminal):
		response.Conflict(c, response.CodeRoundTerminal, traceID)
	case errors.Is(err, games.ErrUnknownAction), errors.Is(err, games.ErrNoActions):
		response.Error(c, 400, response.CodeUnknownAction, traceID)
	case errors.Is(err, games.ErrCashoutNotReady):
		response.Conflict(c, response.CodeCashoutNotReady, traceID)
	case errors.Is(err, games.ErrInvalidParams):
		response.BadRequest(c, "invalid game params", traceID)
	case isAmountErr(err):
		response.BadRequest(c, err.Error(), traceID)
	default:
		response.InternalError(c, traceID)
	}
}

func isAmountErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid bet amount") ||
		strings.Contains(msg, "bet amount must be positive") ||
		strings.Contains(msg, "below minimum limit") ||
		strings.Contains(msg, "exceeds maximum limit")
}

// platformIdentity 从 context 提取认证中间件注入的平台身份
func platformIdentity(c *beego.Controller) (platformID int8, platformUserID, platformUserName string) {
	if v := c.Ctx.Input.GetData("platform_id"); v != nil {
		if pid, ok := v.(int8); ok {
			platformID = pid
		}
	}
	if v := c.Ctx.Input.GetData("platform_user_id"); v != nil {
		if puid, ok := v.(string); ok {
			platformUserID = puid
		}
	}
	if v := c.Ctx.Input.GetData("platform_user_name"); v != nil {
		if pname, ok := v.(string); ok {
			platformUserName = pname
		}
	}
	return
}
