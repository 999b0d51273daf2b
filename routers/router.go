package routers

import (
	"strings"

	"casino-server/internal/config"
	"casino-server/internal/controller/api"
	"casino-server/internal/metrics"
	"casino-server/internal/middleware"

	beego "github.com/beego/beego/v2/server/web"
	beegocontext "github.com/beego/beego/v2/server/web/context"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// init 注册HTTP路由与全局过滤器
// 过滤器一律无条件安装，开关在请求时读取当前配置，
// 这样 Nacos 热更新后无需重启即可生效。
func init() {
	// 全局过滤器（按执行顺序）
	// 1. Panic Recovery（最先执行，捕获所有 panic）
	beego.InsertFilter("/*", beego.BeforeRouter, middleware.RecoveryFilter)

	// 2. 请求ID注入
	beego.InsertFilter("/*", beego.BeforeRouter, middleware.RequestIDFilter)

	// 3. CORS 处理（过滤器内部判断开关）
	beego.InsertFilter("/*", beego.BeforeExec, middleware.CORSFilter)

	// 4. HTTP 指标收集
	beego.InsertFilter("/*", beego.BeforeExec, metrics.HTTPMetricsFilter)
	beego.InsertFilter("/*", beego.FinishRouter, metrics.HTTPMetricsAfter)

	// 健康检查（无需认证）
	beego.Router("/healthz", &api.HealthController{}, "get:Healthz")
	beego.Router("/readyz", &api.HealthController{}, "get:Readyz")

	// Prometheus 指标端点
	beego.Handler("/metrics", promhttp.Handler())

	// ========== 业务 API（需要认证） ==========

	// 游戏列表为公开元数据（仅游戏 ID），不鉴权但参与限流；
	// 通配符 /api/games/* 不覆盖该精确路径，需单独挂过滤器
	beego.InsertFilter("/api/games", beego.BeforeExec, middleware.RateLimitFilter)
	beego.Router("/api/games", &api.GamesController{}, "get:List")

	// 游戏回合接口：平台认证 + 限流
	beego.InsertFilter("/api/games/*", beego.BeforeExec, platformAuthFilter)
	beego.InsertFilter("/api/games/*", beego.BeforeExec, middleware.RateLimitFilter)
	beego.Router("/api/games/:game/start", &api.GameController{}, "post:Start")
	beego.Router("/api/games/:game/round/:round_id/action", &api.GameController{}, "post:Action")
	beego.Router("/api/games/:game/round/:round_id/cashout", &api.GameController{}, "post:Cashout")

	// 令牌换发：平台认证一次换 JWT；注销在处理器内校验 Bearer Token
	beego.InsertFilter("/api/auth/token", beego.BeforeExec, platformAuthFilter)
	beego.Router("/api/auth/token", &api.AuthController{}, "post:Token")
	beego.Router("/api/auth/logout", &api.AuthController{}, "post:Logout")

	// 用户查询接口：Bearer Token 走 JWT 认证，否则走平台认证
	beego.InsertFilter("/api/user/*", beego.BeforeExec, userAuthFilter)
	beego.Router("/api/user/balance", &api.UserController{}, "get:Balance")
	beego.Router("/api/user/bets", &api.UserController{}, "get:Bets")

	// 回合查询接口（调试/回放）
	beego.Router("/api/round/:round_id", &api.RoundController{}, "get:GetRound")

	// ========== 管理 API（需要管理员认证） ==========

	beego.InsertFilter("/api/admin/*", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.Router("/api/admin/round/:round_id/void", &api.AdminController{}, "post:VoidRound")
}

// platformAuthFilter 按当前配置在演示模式与平台签名认证间切换
func platformAuthFilter(ctx *beegocontext.Context) {
	cfg := config.Get()
	if cfg != nil && cfg.Auth.DemoMode {
		middleware.DemoAuthFilter(ctx)
		return
	}
	middleware.PlatformAuthFilter(ctx)
}

// userAuthFilter 带 Bearer Token 的请求走 JWT 校验，其余走平台认证
func userAuthFilter(ctx *beegocontext.Context) {
	if strings.HasPrefix(strings.TrimSpace(ctx.Input.Header("Authorization")), "Bearer ") {
		middleware.UserAuthFilter(ctx)
		return
	}
	platformAuthFilter(ctx)
}
