//go:build !android

package utils

// EnsureStorageDir 非 Android 平台的空实现
// gdata 会自动创建存储目录
func EnsureStorageDir(sub string) error {
	return nil
}
