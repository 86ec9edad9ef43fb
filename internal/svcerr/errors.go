// Package svcerr 定义了业务层统一的错误分类。
// 所有 service 返回这里的错误类型，handler 在边界处一次性映射为 HTTP 状态码，
// 避免每个控制器各自维护一套判断逻辑。
package svcerr

import (
	"errors"
	"fmt"
)

// 哨兵错误：调用方用 errors.Is 判断类别。
var (
	// ErrNotFound 表示在当前作用域内找不到目标资源。
	ErrNotFound = errors.New("not found")
	// ErrForbidden 表示主体已通过认证但缺少组织/团队/可见性层面的访问权。
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized 表示认证失败（token 缺失/无效/用户不存在）。
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict 表示唯一性冲突（如同一作用域内文件夹重名）。
	ErrConflict = errors.New("conflict")
	// ErrCooldown 表示操作处于冷却期内（演示组织重置限流）。
	ErrCooldown = errors.New("cooldown")
)

// ValidationError 表示输入校验失败，携带字段级信息。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation 构造一个字段级校验错误。
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation 报告 err 是否为校验错误。
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFound 构造一个带资源名的未找到错误。
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// Forbidden 构造一个带说明的拒绝访问错误。
func Forbidden(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}

// Conflict 构造一个带说明的唯一性冲突错误。
// 说明文本会原样返回给客户端，应使用可读的业务语言。
func Conflict(message string) error {
	return fmt.Errorf("%s: %w", message, ErrConflict)
}
