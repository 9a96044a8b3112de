package logic

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 引擎错误分类。单记录操作同步返回错误且不产生部分写入;
// 批量操作按条目记录错误并继续处理其余条目。
var (
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("记录不存在")

	// ErrPreconditionFailed 源状态、角色或输入不满足流转条件
	ErrPreconditionFailed = errors.New("前置条件不满足")
)

// MissingDocumentError 付款确认缺少必需凭证
type MissingDocumentError struct {
	DocumentType string // 缺少的凭证类型编码
}

func (e *MissingDocumentError) Error() string {
	return fmt.Sprintf("缺少必需凭证: %s", e.DocumentType)
}

// preconditionf 包装一个带原因的前置条件错误
func preconditionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPreconditionFailed, fmt.Sprintf(format, args...))
}

// isDuplicateKey 唯一键冲突视为并发创建竞争,按零效果成功处理
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
