// Package lifecycle 实现任务生命周期引擎:
// 任务从创建、指派、提交到完成的状态机,以及每个状态下
// 谁可以创建、读取、变更任务的授权规则。
// 本包是纯逻辑,不依赖存储和表示层;所有守卫在任何状态
// 变更之前执行,失败时返回类型化错误,绝不部分应用。
package lifecycle

import (
	"strings"
	"time"
)

// State 任务状态,由 isSubmitted/isCompleted 两个标志推导
type State string

const (
	StateCreated    State = "created"
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
	StateCompleted  State = "completed"
)

// Actor 执行操作的已认证主体
type Actor struct {
	ID   string
	Role Role
}

// Snapshot 授权守卫所需的任务快照
// 不变式: IsCompleted == true 蕴含 IsSubmitted == true
type Snapshot struct {
	AssignedTo  string
	PhotoCount  int
	IsSubmitted bool
	IsCompleted bool
}

// State 返回快照对应的状态
func (s Snapshot) State() State {
	switch {
	case s.IsCompleted:
		return StateCompleted
	case s.IsSubmitted:
		return StateSubmitted
	case s.PhotoCount > 0:
		return StateInProgress
	default:
		return StateCreated
	}
}

// ValidateNewTask 校验创建任务的输入,在任何存储写入之前执行
func ValidateNewTask(name, description string, deadline time.Time) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyTaskName
	}
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	if deadline.IsZero() {
		return ErrZeroDeadline
	}
	return nil
}

// AuthorizeCreate 校验 actor 能否创建指派给目标角色的任务
func AuthorizeCreate(actor Actor, assignee Role) error {
	return actor.Role.CanAssignTo(assignee)
}

// AuthorizeAttachPhoto 校验 actor 能否向任务追加照片
// 照片列表在提交前仅允许追加,提交后对指派人冻结
func AuthorizeAttachPhoto(actor Actor, t Snapshot) error {
	if actor.ID != t.AssignedTo {
		return ErrNotAssignee
	}
	if t.IsSubmitted {
		return ErrPhotoListFrozen
	}
	return nil
}

// AuthorizeSubmit 校验 actor 能否提交任务
func AuthorizeSubmit(actor Actor, t Snapshot) error {
	if actor.ID != t.AssignedTo {
		return ErrNotAssignee
	}
	if t.IsSubmitted {
		return ErrAlreadySubmitted
	}
	return nil
}

// AuthorizeComplete 校验 actor 能否将已提交的任务标记为完成
func AuthorizeComplete(actor Actor, t Snapshot) error {
	if !actor.Role.IsReviewer() {
		return ErrNotReviewer
	}
	if !t.IsSubmitted {
		return ErrNotSubmitted
	}
	if t.IsCompleted {
		return ErrAlreadyCompleted
	}
	return nil
}

// AuthorizeReject 校验 actor 能否驳回已提交的任务
// 驳回把任务退回给指派人 (Submitted -> InProgress),照片保留
func AuthorizeReject(actor Actor, t Snapshot) error {
	if !actor.Role.IsReviewer() {
		return ErrNotReviewer
	}
	if !t.IsSubmitted {
		return ErrNotSubmitted
	}
	if t.IsCompleted {
		return ErrAlreadyCompleted
	}
	return nil
}
