package utils

import (
	"fmt"
	"sync/atomic"
	"time"
)

var idSeq atomic.Uint32

// GenerateID 生成基于时间戳的ID
func GenerateID() int64 {
	return time.Now().UnixNano()
}

// TempName 生成临时文件名，同一纳秒内的并发请求也不会冲突
func TempName(prefix, ext string) string {
	return fmt.Sprintf("%s_%d_%d%s", prefix, GenerateID(), idSeq.Add(1), ext)
}
