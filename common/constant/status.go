package constant

// user status
const (
	StatusNormal   = 1 // 状态：正常
	StatusDisabled = 0 // 状态：禁用
)

// 回合状态（game_round.game_status）
const (
	RoundActive  = 1 // 进行中
	RoundSettled = 2 // 已结算
	RoundVoided  = 3 // 已作废
)
