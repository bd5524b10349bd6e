package errors

import (
	"errors"
	"fmt"
)

// ── 通用哨兵错误 ──

var (
	// ErrForbidden 当前角色无权执行该操作
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
)

// StoreError 存储层失败，携带底层存储返回的可读信息
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store 包装存储层错误；err 为 nil 时返回 nil
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// AuthError 登录 / 注册失败
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

// ValidationError 本地校验失败（在任何存储调用之前抛出）
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

// Invalid 构造 ValidationError
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsStore 判断是否为存储层错误
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// IsValidation 判断是否为本地校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuth 判断是否为认证错误
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
