package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message），可选包装底层错误（Err）
//   - 支持错误检查函数（IsXXX），兼容 errors.Is / errors.As 与 %w 包装
//
// 使用场景：
//   - Catalog 错误：DATA_INTEGRITY（重复 ID、向量维度不一致）、NOT_FOUND
//   - Index 错误：EMPTY_INDEX、INVALID_INPUT
//   - Model 错误：INSUFFICIENT_HISTORY（仅作为 Ranker 内部路由信号）
//   - Engine 错误：INVALID_REQUEST（唯一会返回给调用方的请求级错误）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "DATA_INTEGRITY"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "index", "profile"）
	Err     error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Module, e.Message, e.Err)
	}
	return e.Module + ": " + e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is 让 errors.Is 按 Module + Code 比较，便于与哨兵错误匹配。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Module == "" || e.Module == t.Module)
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的第一个 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建包装了底层错误的领域错误
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound            = "NOT_FOUND"            // 资源不存在（未知游戏/用户）
	ErrorCodeNotSupported        = "NOT_SUPPORTED"        // 操作不支持
	ErrorCodeUnavailable         = "UNAVAILABLE"          // 服务不可用
	ErrorCodeInvalidInput        = "INVALID_INPUT"        // 输入无效
	ErrorCodeInvalidRequest      = "INVALID_REQUEST"      // 请求不合法（负数 K、非法过滤条件）
	ErrorCodeDataIntegrity       = "DATA_INTEGRITY"       // 目录数据不完整或重复
	ErrorCodeEmptyIndex          = "EMPTY_INDEX"          // 向量索引为空
	ErrorCodeInsufficientHistory = "INSUFFICIENT_HISTORY" // 用户行为不足以支撑协同过滤
	ErrorCodeInternalError       = "INTERNAL_ERROR"       // 内部错误
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 游戏目录
	ModuleIndex   = "index"   // 相似度索引
	ModuleModel   = "model"   // 协同过滤模型
	ModuleProfile = "profile" // 用户偏好存储
	ModuleEngine  = "engine"  // 混合排序引擎
)

// 哨兵错误，配合 errors.Is 使用
var (
	ErrInsufficientHistory = NewDomainError(ModuleModel, ErrorCodeInsufficientHistory, "insufficient interaction history")
	ErrEmptyIndex          = NewDomainError(ModuleIndex, ErrorCodeEmptyIndex, "similarity index is empty")
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// IsInvalidRequest 检查错误是否为 INVALID_REQUEST
func IsInvalidRequest(err error) bool { return hasCode(err, ErrorCodeInvalidRequest) }

// IsDataIntegrity 检查错误是否为 DATA_INTEGRITY
func IsDataIntegrity(err error) bool { return hasCode(err, ErrorCodeDataIntegrity) }

// IsEmptyIndex 检查错误是否为 EMPTY_INDEX
func IsEmptyIndex(err error) bool { return hasCode(err, ErrorCodeEmptyIndex) }

// IsInsufficientHistory 检查错误是否为 INSUFFICIENT_HISTORY
func IsInsufficientHistory(err error) bool { return hasCode(err, ErrorCodeInsufficientHistory) }
