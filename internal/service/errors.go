package service

import (
	"errors"
	"fmt"
)

// ==================== 业务错误 ====================

// ErrorKind 错误类别
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindDuplicate         ErrorKind = "duplicate"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindDecode            ErrorKind = "decode"
	KindNotFound          ErrorKind = "not_found"
	KindForbidden         ErrorKind = "forbidden"
	KindStorage           ErrorKind = "storage"
)

// 错误码，前端按码展示
const (
	CodeUsernameEmpty     = "username_empty"
	CodeUsernameTooLong   = "username_too_long"
	CodePasswordTooShort  = "password_too_short"
	CodePasswordTooLong   = "password_too_long"
	CodePasswordMismatch  = "password_mismatch"
	CodeUsernameTaken     = "username_taken"
	CodeAvatarRequired    = "avatar_required"
	CodeBadCredentials    = "bad_credentials"
	CodeInvalidToken      = "invalid_token"
	CodeNameEmpty         = "name_empty"
	CodeNameTooLong       = "name_too_long"
	CodeNameTaken         = "name_taken"
	CodeAlreadyManages    = "already_manages"
	CodeNoRestaurant      = "no_restaurant"
	CodeLogoRequired      = "logo_required"
	CodeDescriptionLength = "description_length"
	CodeBadPrice          = "bad_price"
	CodeImageRequired     = "image_required"
	CodeFileTooLarge      = "file_too_large"
	CodeImageTooLarge     = "image_too_large"
	CodeBadFormat         = "unsupported_format"
	CodeBadImage          = "bad_image"
	CodeEmptyOrder        = "empty_order"
	CodeBadQuantity       = "bad_quantity"
	CodeOrderTooLarge     = "order_too_large"
	CodeBlocked           = "blocked"
	CodeAlreadyBlocked    = "already_blocked"
	CodeSelfBlock         = "self_block"
	CodeBadRole           = "bad_role"
	CodeBadScene          = "bad_scene"
	CodeSceneDish         = "scene_dish_mismatch"
	CodeContentEmpty      = "content_empty"
	CodeContentTooLong    = "content_too_long"
	CodeNotFound          = "not_found"
	CodeInternal          = "internal"
)

// BizError 带类别的业务错误
type BizError struct {
	Kind    ErrorKind
	Code    string
	Field   string
	Message string
	Err     error
}

func (e *BizError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s(%s): %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s(%s): %s", e.Kind, e.Code, e.Message)
}

func (e *BizError) Unwrap() error {
	return e.Err
}

func newValidation(code, field, message string) *BizError {
	return &BizError{Kind: KindValidation, Code: code, Field: field, Message: message}
}

func newDuplicate(code, field, message string, err error) *BizError {
	return &BizError{Kind: KindDuplicate, Code: code, Field: field, Message: message, Err: err}
}

func newNotFound(message string) *BizError {
	return &BizError{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

func newForbidden(code, message string) *BizError {
	return &BizError{Kind: KindForbidden, Code: code, Message: message}
}

// newStorage 存储失败对外只暴露通用信息
func newStorage(err error) *BizError {
	return &BizError{Kind: KindStorage, Code: CodeInternal, Message: "服务器内部错误，请稍后重试", Err: err}
}

// AsBizError 提取业务错误
func AsBizError(err error) (*BizError, bool) {
	var be *BizError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// KindOf 错误类别，非业务错误视为存储失败
func KindOf(err error) ErrorKind {
	if be, ok := AsBizError(err); ok {
		return be.Kind
	}
	return KindStorage
}

// IsKind 是否为指定类别
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// CodeOf 错误码
func CodeOf(err error) string {
	if be, ok := AsBizError(err); ok {
		return be.Code
	}
	return CodeInternal
}
