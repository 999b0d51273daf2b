package redis

// Redis Key 定义与构造器
// 统一管理业务使用的 Redis Key，避免散落的魔法字符串，便于统一维护与变更。

const (
	// PrefixIdemResult：幂等"结果缓存"Key 的前缀。
	// 作用：缓存某个 idempotency key 对应的第一次成功结果（JSON），用于后续重复请求直接返回。
	PrefixIdemResult = "round:idem:result:"
	// PrefixIdemLock：幂等"进行中锁"Key 的前缀。
	// 作用：使用 SETNX + TTL 标记 idempotency key 正在处理，吸收瞬时重复请求，减轻数据库压力。
	PrefixIdemLock = "round:idem:lock:"

	// PrefixRoundResult：回合终态结果缓存
	PrefixRoundResult = "round:result:"
)

// IdemResultKey：构造幂等"结果缓存"的完整 Key。
// 形如：round:idem:result:{idempotency_key}
func IdemResultKey(k string) string { return PrefixIdemResult + k }

// IdemLockKey：构造幂等"进行中锁"的完整 Key。
// 形如：round:idem:lock:{idempotency_key}
func IdemLockKey(k string) string { return PrefixIdemLock + k }

// RoundResultKey：构造回合终态结果缓存 Key。形如：round:result:{round_id}
func RoundResultKey(roundID string) string { return PrefixRoundResult + roundID }
