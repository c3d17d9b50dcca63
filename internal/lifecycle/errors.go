package lifecycle

import "errors"

// Kind 错误类别,表达规则失败的性质
// 表示层根据类别映射 HTTP 状态码,核心层永远返回类型化错误而不是布尔值
type Kind string

const (
	// KindValidation 输入校验失败,在任何存储写入之前返回
	KindValidation Kind = "validation"
	// KindForbidden 授权规则失败,不产生任何部分变更
	KindForbidden Kind = "forbidden"
	// KindNotFound 任务或用户 ID 无法解析
	KindNotFound Kind = "not_found"
	// KindConflict 乐观并发冲突,例如任务已提交
	KindConflict Kind = "conflict"
	// KindUnavailable 后端存储不可达,重试耗尽后返回
	KindUnavailable Kind = "unavailable"
)

// Error 生命周期引擎的类型化错误
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf 返回错误的类别,非引擎错误返回空串
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// 错误定义
var (
	ErrEmptyTaskName    = &Error{Kind: KindValidation, Code: "EMPTY_TASK_NAME", Message: "task name cannot be empty"}
	ErrEmptyDescription = &Error{Kind: KindValidation, Code: "EMPTY_DESCRIPTION", Message: "description cannot be empty"}
	ErrZeroDeadline     = &Error{Kind: KindValidation, Code: "ZERO_DEADLINE", Message: "deadline is required"}
	ErrInvalidRole      = &Error{Kind: KindValidation, Code: "INVALID_ROLE", Message: "unknown role"}
	ErrInvalidPriority  = &Error{Kind: KindValidation, Code: "INVALID_PRIORITY", Message: "unknown priority"}

	ErrCreateNotAllowed   = &Error{Kind: KindForbidden, Code: "CREATE_NOT_ALLOWED", Message: "role is not allowed to create tasks"}
	ErrAssigneeNotAllowed = &Error{Kind: KindForbidden, Code: "ASSIGNEE_NOT_ALLOWED", Message: "role is not allowed to assign to this assignee"}
	ErrNotAssignee        = &Error{Kind: KindForbidden, Code: "NOT_ASSIGNEE", Message: "only the assignee may perform this operation"}
	ErrNotReviewer        = &Error{Kind: KindForbidden, Code: "NOT_REVIEWER", Message: "only a reviewer may perform this operation"}
	ErrNotOwner           = &Error{Kind: KindForbidden, Code: "NOT_OWNER", Message: "only the owner may perform this operation"}

	ErrTaskNotFound = &Error{Kind: KindNotFound, Code: "TASK_NOT_FOUND", Message: "task not found"}
	ErrUserNotFound = &Error{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "user not found"}

	ErrAlreadySubmitted = &Error{Kind: KindConflict, Code: "ALREADY_SUBMITTED", Message: "task has already been submitted"}
	ErrAlreadyCompleted = &Error{Kind: KindConflict, Code: "ALREADY_COMPLETED", Message: "task has already been completed"}
	ErrNotSubmitted     = &Error{Kind: KindConflict, Code: "NOT_SUBMITTED", Message: "task has not been submitted"}
	ErrPhotoListFrozen  = &Error{Kind: KindConflict, Code: "PHOTO_LIST_FROZEN", Message: "photo list is frozen after submission"}

	ErrStoreUnavailable = &Error{Kind: KindUnavailable, Code: "STORE_UNAVAILABLE", Message: "backing store is unavailable"}
)
