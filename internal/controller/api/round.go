package api

import (
	"encoding/json"

	helper "casino-server/internal/common/helper"
	"casino-server/internal/common/response"
	"casino-server/internal/games"
	infrds "casino-server/internal/infra/redis"

	beego "github.com/beego/beego/v2/server/web"
	goredis "github.com/redis/go-redis/v9"
)

// RoundController 提供查询回合信息的接口（便于调试/回放）
// GET /api/round/:round_id
// 终态结果优先走 Redis 缓存，未命中回源数据库。

type RoundController struct {
	beego.Controller
}

func (c *RoundController) GetRound() {
	traceID := helper.GetTraceID(c.Ctx)
	roundID := c.Ctx.Input.Param(":round_id")
	if !helper.IsValidRoundID(roundID) {
		response.BadRequest(&c.Controller, "invalid round_id", traceID)
		return
	}

	// Redis 快路径：终态回合的视图缓存
	if r := infrds.Client(); r != nil {
		if bs, err := r.Get(c.Ctx.Request.Context(), infrds.RoundResultKey(roundID)).Bytes(); err == nil {
			var view map[string]any
			if json.Unmarshal(bs, &view) == nil {
				response.Success(&c.Controller, map[string]any{"round_id": roundID, "view": view, "cached": true}, traceID)
				return
			}
		} else if err != goredis.Nil {
			// Redis 故障不阻断查询，继续回源数据库
		}
	}

	svc := newRoundService()
	out, err := svc.GetRound(c.Ctx.Request.Context(), roundID, traceID)
	if err != nil {
		writeServiceError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// GamesController 游戏列表接口：GET /api/games
type GamesController struct {
	beego.Controller
}

// List 返回已注册的游戏ID列表
func (c *GamesController) List() {
	traceID := helper.GetTraceID(c.Ctx)
	response.Success(&c.Controller, map[string]any{"games": games.IDs()}, traceID)
}
