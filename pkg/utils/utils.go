// Package utils 提供通用小工具
package utils

import "time"

// Retry 以固定间隔重试 fn，直到成功或用尽尝试次数，返回最后一次错误
func Retry(maxAttempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < maxAttempts-1 {
			time.Sleep(delay)
		}
	}
	return lastErr
}
