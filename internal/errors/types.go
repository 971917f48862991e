package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	ErrCodeStorageFailure      ErrorCode = "STORAGE_FAILURE"
	ErrCodeConversionFailure   ErrorCode = "CONVERSION_FAILURE"
	ErrCodeGenerationFailure   ErrorCode = "GENERATION_FAILURE"
	ErrCodeInternalServer      ErrorCode = "INTERNAL_SERVER_ERROR"
)

// AppError 应用错误结构体
type AppError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	HTTPCode int       `json:"-"`
	Cause    error     `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause 添加错误原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewInvalidInput 输入校验错误（在任何副作用之前检测）
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:     ErrCodeInvalidInput,
		Message:  message,
		HTTPCode: http.StatusBadRequest,
	}
}

// NewUnsupportedFileType 不支持的文件类型，消息与上传接口的拒绝应答一致
func NewUnsupportedFileType(ext string) *AppError {
	return &AppError{
		Code:     ErrCodeUnsupportedFileType,
		Message:  "Invalid file format. Allowed formats: txt, pdf, md.",
		HTTPCode: http.StatusBadRequest,
		Cause:    fmt.Errorf("unsupported file type: %s", ext),
	}
}

// NewStorageFailure 文件保存或向量库IO失败
func NewStorageFailure(message string, cause error) *AppError {
	return &AppError{
		Code:     ErrCodeStorageFailure,
		Message:  message,
		HTTPCode: http.StatusInternalServerError,
		Cause:    cause,
	}
}

// NewConversionFailure 文档解析/提取失败
func NewConversionFailure(message string, cause error) *AppError {
	return &AppError{
		Code:     ErrCodeConversionFailure,
		Message:  message,
		HTTPCode: http.StatusInternalServerError,
		Cause:    cause,
	}
}

// IsCode 判断错误是否属于指定错误码
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatus 返回错误对应的HTTP状态码，非AppError一律500
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPCode != 0 {
		return appErr.HTTPCode
	}
	return http.StatusInternalServerError
}
