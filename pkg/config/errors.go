package config

import "errors"

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid scene config")
