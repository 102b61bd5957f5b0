package errors

import "errors"

// ErrCacheDisabled 未配置缓存客户端
var ErrCacheDisabled = errors.New("缓存未启用")
