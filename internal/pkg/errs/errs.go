package errs

import (
	"errors"
	"fmt"
)

// Kind 错误分类，决定对外的 HTTP 状态与业务码
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindPermissionDenied
	KindConflict
	KindValidation
	KindUnauthorized
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error 带分类的业务错误
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is 同 Kind 同 Msg 视为同一错误，便于 errors.Is 比较哨兵
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == e.Msg
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func NotFound(msg string) *Error         { return New(KindNotFound, msg) }
func PermissionDenied(msg string) *Error { return New(KindPermissionDenied, msg) }
func Conflict(msg string) *Error         { return New(KindConflict, msg) }
func Validation(msg string) *Error       { return New(KindValidation, msg) }
func Unauthorized(msg string) *Error     { return New(KindUnauthorized, msg) }

func Validationf(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// Unavailable 存储不可达
func Unavailable(err error) *Error {
	return Wrap(KindUnavailable, "storage unavailable", err)
}

// Internal 未分类的内部错误
func Internal(err error) *Error {
	return Wrap(KindInternal, "internal error", err)
}

// KindOf 返回错误链上第一个 *Error 的分类，没有则为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is 判断错误链上是否存在指定分类
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// 常用错误
var (
	ErrPostNotFound    = NotFound("post not found")
	ErrCommentNotFound = NotFound("comment not found")
	ErrUserNotFound    = NotFound("user not found")
	ErrImageNotFound   = NotFound("image not found")
	ErrNotOwner        = PermissionDenied("not the owner")
	ErrLoginTaken      = Conflict("login already registered")
	ErrBadCredentials  = Unauthorized("incorrect login or password")
	ErrTokenInvalid    = Unauthorized("invalid or expired token")
	ErrFileNotAllowed  = Validation("file type not supported")
)
