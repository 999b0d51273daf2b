package helper

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	beegocontext "github.com/beego/beego/v2/server/web/context"
	"github.com/go-playground/validator/v10"
)

// IsJSONContentType 判断是否为 JSON 请求
func IsJSONContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.Contains(ct, "json")
}

// 金额格式校验：非负，最多两位小数（预编译正则）
var moneyRe = regexp.MustCompile(`^(?:0|[1-9]\d*)(?:\.\d{1,2})?$`)

// IsMoneyFormat 判断金额格式
func IsMoneyFormat(s string) bool {
	return moneyRe.MatchString(strings.TrimSpace(s))
}

// 默认输入保护参数
const (
	defaultJSONMaxBytes int64         = 1 << 20 // 1MB
	defaultParseTimeout time.Duration = 1 * time.Second
)

type deadlineReader struct {
	r        io.Reader
	deadline time.Time
}

func (dr *deadlineReader) Read(p []byte) (int, error) {
	if time.Now().After(dr.deadline) {
		return 0, fmt.Errorf("read timeout")
	}
	return dr.r.Read(p)
}

// jsonBodyReader 为请求体增加大小限制与解析超时保护
func jsonBodyReader(ctx *beegocontext.Context) io.Reader {
	lr := io.LimitReader(ctx.Request.Body, defaultJSONMaxBytes)
	return &deadlineReader{r: lr, deadline: time.Now().Add(defaultParseTimeout)}
}

// GetTraceID 统一提取 trace_id：优先从中间件注入的数据取，其次从常见请求头降级
func GetTraceID(ctx *beegocontext.Context) string {
	if v := ctx.Input.GetData("trace_id"); v != nil {
		return fmt.Sprint(v)
	}
	if h := strings.TrimSpace(ctx.Input.Header("X-Trace-ID")); h != "" {
		return h
	}
	if h := strings.TrimSpace(ctx.Input.Header("Trace-Id")); h != "" {
		return h
	}
	return ""
}

// validate 为包级单例，validator 实例线程安全且缓存结构体元信息
var validate = validator.New()

// StartParsed 开局入参（params 为游戏自定义参数，原样透传给规则模块）
type StartParsed struct {
	BetAmount      string          `json:"bet_amount" validate:"required,max=32"`
	Params         json.RawMessage `json:"params"`
	IdempotencyKey string          `json:"idempotency_key" validate:"required,max=64"`
}

// ParseAndValidateStart 解析并校验开局请求（仅接受 JSON）
func ParseAndValidateStart(ctx *beegocontext.Context) (StartParsed, bool, string) {
	if !IsJSONContentType(ctx.Input.Header("Content-Type")) {
		return StartParsed{}, false, "content-type must be application/json"
	}
	var out StartParsed
	if err := json.NewDecoder(jsonBodyReader(ctx)).Decode(&out); err != nil {
		return StartParsed{}, false, "invalid json body"
	}
	if err := validate.Struct(&out); err != nil {
		return StartParsed{}, false, "missing or invalid fields"
	}
	if !IsMoneyFormat(out.BetAmount) {
		return StartParsed{}, false, "bet_amount must be numeric with up to 2 decimals"
	}
	if len(out.Params) == 0 {
		out.Params = json.RawMessage("{}")
	}
	if len(out.Params) > 4096 {
		return StartParsed{}, false, "params too large"
	}
	return out, true, ""
}

// ActionParsed 回合动作入参（action 为游戏自定义动作，原样透传给规则模块）
type ActionParsed struct {
	Action         json.RawMessage `json:"action" validate:"required"`
	IdempotencyKey string          `json:"idempotency_key" validate:"required,max=64"`
}

// ParseAndValidateAction 解析并校验动作请求
func ParseAndValidateAction(ctx *beegocontext.Context) (ActionParsed, bool, string) {
	if !IsJSONContentType(ctx.Input.Header("Content-Type")) {
		return ActionParsed{}, false, "content-type must be application/json"
	}
	var out ActionParsed
	if err := json.NewDecoder(jsonBodyReader(ctx)).Decode(&out); err != nil {
		return ActionParsed{}, false, "invalid json body"
	}
	if err := validate.Struct(&out); err != nil {
		return ActionParsed{}, false, "missing or invalid fields"
	}
	if len(out.Action) > 4096 {
		return ActionParsed{}, false, "action too large"
	}
	return out, true, ""
}

// CashoutParsed 兑现入参
type CashoutParsed struct {
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=64"`
}

// ParseAndValidateCashout 解析并校验兑现请求
func ParseAndValidateCashout(ctx *beegocontext.Context) (CashoutParsed, bool, string) {
	if !IsJSONContentType(ctx.Input.Header("Content-Type")) {
		return CashoutParsed{}, false, "content-type must be application/json"
	}
	var out CashoutParsed
	if err := json.NewDecoder(jsonBodyReader(ctx)).Decode(&out); err != nil {
		return CashoutParsed{}, false, "invalid json body"
	}
	if err := validate.Struct(&out); err != nil {
		return CashoutParsed{}, false, "idempotency_key required"
	}
	return out, true, ""
}

// IsValidRoundID 回合ID格式保护（UUID 长度上限 + 字符集）
var roundIDRe = regexp.MustCompile(`^[0-9a-zA-Z\-]{1,64}$`)

func IsValidRoundID(s string) bool {
	return roundIDRe.MatchString(s)
}
