package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("pass was modified by another request, refresh and retry")

// ErrMailDisabled 邮件服务未配置或已关闭
var ErrMailDisabled = errors.New("email service is not configured")
