package api

import (
	"database/sql"
	"errors"
	"strings"

	"casino-server/internal/auth"
	helper "casino-server/internal/common/helper"
	"casino-server/internal/common/response"
	"casino-server/internal/config"
	infmysql "casino-server/internal/infra/mysql"
	"casino-server/internal/model"

	beego "github.com/beego/beego/v2/server/web"
)

// AuthController 令牌接口
// 平台签名认证一次，换发用户 JWT；后续查询接口可走 Bearer Token，
// 不必每个请求重算平台签名。

type AuthController struct{ beego.Controller }

// Token 换发令牌：POST /api/auth/token（平台认证后）
func (c *AuthController) Token() {
	traceID := helper.GetTraceID(c.Ctx)
	platformID, platformUserID, platformUserName := platformIdentity(&c.Controller)
	if platformUserID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}
	appKey := ""
	if v := c.Ctx.Input.GetData("app_key"); v != nil {
		if s, ok := v.(string); ok {
			appKey = s
		}
	}

	// 用户可能还没下过注：令牌身份以平台维度为准，内部 user_id 仅为 0
	userID := int64(0)
	username := platformUserName
	user, err := model.GetUserByPlatformUser(c.Ctx.Request.Context(), infmysql.SQLX(), platformID, platformUserID)
	if err == nil {
		userID = user.ID
		username = user.Username
	} else if !errors.Is(err, sql.ErrNoRows) {
		response.InternalError(&c.Controller, traceID)
		return
	}

	access, err := auth.GenerateAccessToken(userID, username, platformID, platformUserID, appKey)
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}
	refresh, err := auth.GenerateRefreshToken(userID, username, platformID, platformUserID, appKey)
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}

	expiresIn := 0
	if cfg := config.Get(); cfg != nil {
		expiresIn = cfg.Auth.JWT.AccessTokenTTL
	}
	response.Success(&c.Controller, map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"expires_in":    expiresIn,
	}, traceID)
}

// Logout 注销令牌：POST /api/auth/logout（Bearer Token）
// 令牌进入黑名单，剩余有效期内拒绝使用。
func (c *AuthController) Logout() {
	traceID := helper.GetTraceID(c.Ctx)
	claims, err := auth.VerifyJWTToken(c.Ctx)
	if err != nil {
		response.Error(&c.Controller, 401, response.CodeInvalidToken, traceID)
		return
	}
	raw := strings.TrimPrefix(strings.TrimSpace(c.Ctx.Input.Header("Authorization")), "Bearer ")
	if claims.ExpiresAt != nil {
		if err := auth.RevokeToken(c.Ctx.Request.Context(), raw, claims.ExpiresAt.Time); err != nil {
			response.InternalError(&c.Controller, traceID)
			return
		}
	}
	response.Success(&c.Controller, map[string]any{"revoked": true}, traceID)
}
