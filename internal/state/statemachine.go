package state

import "fmt"

// State 回合状态
const (
	StateActive  = "active"  // 进行中(start~终态)
	StateSettled = "settled" // 已结算(终态派彩完成)
	StateVoided  = "voided"  // 已作废(退还本金)
)

// Event 回合事件
const (
	EvtSettle = "settle"
	EvtVoid   = "void"
)

// NextState 根据当前状态与事件计算下一个状态，非法转换报错。
// 终态(settled/voided)不接受任何事件，保证一局不会被推进两次。
func NextState(cur, evt string) (string, error) {
	switch cur {
	case StateActive:
		switch evt {
		case EvtSettle:
			return StateSettled, nil
		case EvtVoid:
			return StateVoided, nil
		}
	}
	return cur, fmt.Errorf("invalid transition: %s --%s--> ?", cur, evt)
}
