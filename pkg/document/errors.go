package document

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrAlreadyPrepared 同一次构建中重复执行 prepare 阶段
	ErrAlreadyPrepared = errors.New("document already prepared")

	// ErrUnresolvedReference 引用的目标从未被渲染
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrNotPrepared 渲染前没有完成 prepare 阶段
	ErrNotPrepared = errors.New("document not prepared")
)

// 错误代码常量
const (
	ErrCodePrepare = "PREPARE_ERROR"
	ErrCodeLayout  = "LAYOUT_ERROR"
	ErrCodeRender  = "RENDER_ERROR"
	ErrCodeInput   = "INPUT_ERROR"
)

// BuildError 构建错误
type BuildError struct {
	Code    string // 错误代码
	Message string // 错误消息
	Pass    int    // 发生错误的渲染轮次，0 表示 prepare 阶段
	Cause   error  // 原因
}

// Error 实现error接口
func (e *BuildError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Pass > 0 {
		msg = fmt.Sprintf("%s at pass %d", msg, e.Pass)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap 返回原因错误
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// NewBuildError 创建构建错误
func NewBuildError(code, message string, pass int, cause error) *BuildError {
	return &BuildError{
		Code:    code,
		Message: message,
		Pass:    pass,
		Cause:   cause,
	}
}
