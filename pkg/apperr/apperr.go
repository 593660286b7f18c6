package apperr

import (
	"errors"
	"fmt"
)

// Kind 稳定的错误类别，handler 据此映射 HTTP 状态码
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindInvalidOperation
	KindNotFound
	KindUnauthorized
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error 对外暴露 Kind + Msg；底层存储错误只包在 Err 里，不进响应
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is 按 Kind 匹配，支持 errors.Is(err, apperr.NotFound("")) 风格的判断
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Wrap(kind Kind, msg string, err error) *Error { return &Error{Kind: kind, Msg: msg, Err: err} }

func InvalidArgument(msg string) *Error  { return New(KindInvalidArgument, msg) }
func InvalidOperation(msg string) *Error { return New(KindInvalidOperation, msg) }
func NotFound(msg string) *Error         { return New(KindNotFound, msg) }
func Unauthorized(msg string) *Error     { return New(KindUnauthorized, msg) }
func Conflict(msg string) *Error         { return New(KindConflict, msg) }
func Unavailable(msg string) *Error      { return New(KindUnavailable, msg) }

// KindOf 取出错误类别；非 *Error 一律视为 unknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message 返回可以安全下发给调用方的消息
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}
