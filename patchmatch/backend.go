package patchmatch

import (
	"fmt"
	"strings"
)

// BackendKind 计算后端类型，取值与原生库一致
type BackendKind int

const (
	BackendAuto BackendKind = 0x0000
	BackendCPU  BackendKind = 0x0001
	BackendCUDA BackendKind = 0x0002
)

func (k BackendKind) String() string {
	switch k {
	case BackendAuto:
		return "auto"
	case BackendCPU:
		return "cpu"
	case BackendCUDA:
		return "cuda"
	default:
		return "unknown"
	}
}

// ParseBackendKind 解析后端名称，只接受 cpu 与 cuda
//
// auto 会让原生库在CUDA缺失时回退到CPU，因此不作为可配置的取值。
func ParseBackendKind(name string) (BackendKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cpu":
		return BackendCPU, nil
	case "cuda", "":
		return BackendCUDA, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized backend %q", ErrInvalidOptions, name)
	}
}

// VoteMode 重叠patch对输出像素的投票方式
type VoteMode int

const (
	VotePlain    VoteMode = 0x0001
	VoteWeighted VoteMode = 0x0002
)

func (m VoteMode) String() string {
	switch m {
	case VotePlain:
		return "plain"
	case VoteWeighted:
		return "weighted"
	default:
		return "unknown"
	}
}

// ParseVoteMode 解析投票方式名称
func ParseVoteMode(name string) (VoteMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plain":
		return VotePlain, nil
	case "weighted", "":
		return VoteWeighted, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized vote mode %q", ErrInvalidOptions, name)
	}
}

// Backend 执行最近邻场搜索与投票的外部计算后端
//
// Run 同步阻塞直到整个金字塔调度完成，结果原地写入 out。
// 实现是否可重入由实现自行说明；共享同一物理设备句柄时必须在外部串行化。
type Backend interface {
	Available(kind BackendKind) bool
	Run(req *Request, out []byte) error
}
