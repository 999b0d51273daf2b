package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// 随机数生成器（ROG）
// 所有游戏结果都由这里的抽取值直接决定资金转移，因此：
// 1. 只允许使用密码学强随机源（crypto/rand）
// 2. 熵源不可用时直接失败（fail closed），绝不降级到弱随机源
// 3. 每次抽取相互独立且均匀分布，一次抽取不得复用于两个不同的决策

// ErrEntropyUnavailable 熵源不可用：该请求必须中止，注金不得扣除（或立即退还）
var ErrEntropyUnavailable = errors.New("entropy source unavailable")

// Source 随机源抽象。业务代码只依赖该接口，测试中可注入确定性实现。
type Source interface {
	// Intn 返回 [0, n) 内的均匀整数
	Intn(n int) (int, error)
	// IntnSet 返回 [0, n) 内 k 个互不相同的均匀整数（如地雷布置）
	IntnSet(n, k int) ([]int, error)
	// Float64 返回 (0, 1) 内的均匀浮点数（如 crash 点抽取）
	Float64() (float64, error)
}

// CryptoSource 基于 crypto/rand 的生产实现
type CryptoSource struct{}

// New 返回生产用随机源
func New() Source { return CryptoSource{} }

func (CryptoSource) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("rng: invalid bound %d", n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, errors.Wrap(ErrEntropyUnavailable, err.Error())
	}
	return int(v.Int64()), nil
}

// IntnSet 采用部分 Fisher-Yates 洗牌，保证 k 个位置互不相同且均匀
func (s CryptoSource) IntnSet(n, k int) ([]int, error) {
	if n <= 0 || k < 0 || k > n {
		return nil, fmt.Errorf("rng: invalid set bounds n=%d k=%d", n, k)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		j, err := s.Intn(n - i)
		if err != nil {
			return nil, err
		}
		out = append(out, idx[i+j])
		idx[i], idx[i+j] = idx[i+j], idx[i]
	}
	return out, nil
}

// Float64 取 53 位随机尾数映射到 (0,1)；0 值重抽以保证开区间（-ln(0) 无定义）
func (s CryptoSource) Float64() (float64, error) {
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, errors.Wrap(ErrEntropyUnavailable, err.Error())
		}
		u := binary.BigEndian.Uint64(buf[:]) >> 11
		if u == 0 {
			continue
		}
		return float64(u) / (1 << 53), nil
	}
}
