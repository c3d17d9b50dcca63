package service

import (
	"context"
	"time"

	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/Teja20002/EZY-Management/internal/metrics"
	"github.com/Teja20002/EZY-Management/internal/model"
	"github.com/Teja20002/EZY-Management/internal/repository"
	"github.com/Teja20002/EZY-Management/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EventNotifier 任务生命周期事件通知接口
// 由 websocket.Hub 实现,推送是尽力而为
type EventNotifier interface {
	TaskEvent(eventType, taskID, taskName, actorID string)
}

// Task 任务视图,所有接口返回的任务表示
type Task struct {
	ID             string     `json:"id"`
	TaskName       string     `json:"taskName"`
	Description    string     `json:"description"`
	AssignedBy     string     `json:"assignedBy"`
	AssignedTo     string     `json:"assignedTo"`
	Priority       string     `json:"priority"`
	Deadline       time.Time  `json:"deadline"`
	UploadedPhotos []string   `json:"uploadedPhotos"`
	IsSubmitted    bool       `json:"isSubmitted"`
	IsCompleted    bool       `json:"isCompleted"`
	State          string     `json:"state"`
	CreatedAt      time.Time  `json:"createdAt"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// CreateTaskInput 创建任务的输入
type CreateTaskInput struct {
	TaskName    string    `json:"taskName"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assignedTo"`
	Priority    string    `json:"priority"`
	Deadline    time.Time `json:"deadline"`
}

// TaskService 任务服务接口
// 所有操作显式接收已认证的 actor,授权守卫在任何存储写入之前执行
type TaskService interface {
	Create(ctx context.Context, actor lifecycle.Actor, input CreateTaskInput) (*Task, error)
	TaskByID(ctx context.Context, actor lifecycle.Actor, id string) (*Task, error)
	AttachPhoto(ctx context.Context, actor lifecycle.Actor, taskID, photoURL string) (*Task, error)
	Submit(ctx context.Context, actor lifecycle.Actor, taskID string) (*Task, error)
	Complete(ctx context.Context, actor lifecycle.Actor, taskID string) (*Task, error)
	Reject(ctx context.Context, actor lifecycle.Actor, taskID, reason string) (*Task, error)
	AssignedToMe(ctx context.Context, actor lifecycle.Actor) ([]*Task, error)
	AssignedByMe(ctx context.Context, actor lifecycle.Actor) ([]*Task, error)
	ReviewQueue(ctx context.Context, actor lifecycle.Actor) ([]*Task, error)
}

// taskService 任务服务实现
type taskService struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	history  repository.StateHistoryRepository
	audit    AuditService
	notifier EventNotifier
}

// NewTaskService 创建任务服务
func NewTaskService(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	history repository.StateHistoryRepository,
	audit AuditService,
	notifier EventNotifier,
) TaskService {
	return &taskService{
		tasks:    tasks,
		users:    users,
		history:  history,
		audit:    audit,
		notifier: notifier,
	}
}

// Create 创建任务
// 输入校验和指派授权都通过后才写入存储,指派目标必须是存在的用户
func (s *taskService) Create(ctx context.Context, actor lifecycle.Actor, input CreateTaskInput) (*Task, error) {
	if err := lifecycle.ValidateNewTask(input.TaskName, input.Description, input.Deadline); err != nil {
		return nil, err
	}
	priority, err := lifecycle.ParsePriority(input.Priority)
	if err != nil {
		return nil, err
	}

	assignee, err := s.users.FindByID(input.AssignedTo)
	if err != nil {
		return nil, err
	}
	assigneeRole, err := lifecycle.ParseRole(assignee.Role)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.AuthorizeCreate(actor, assigneeRole); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &model.TaskModel{
		ID:          uuid.New().String(),
		TaskName:    input.TaskName,
		Description: input.Description,
		AssignedBy:  actor.ID,
		AssignedTo:  assignee.ID,
		Priority:    string(priority),
		Deadline:    input.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.SetPhotos([]string{}); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}

	metrics.RecordTaskCreated()
	s.recordHistory(task.ID, "", lifecycle.StateCreated, "", actor.ID)
	s.recordAudit(ctx, actor.ID, "create", task.ID, map[string]interface{}{
		"task_name":   task.TaskName,
		"assigned_to": task.AssignedTo,
		"priority":    task.Priority,
	})
	s.notify("task_created", task, actor.ID)

	return toTask(task)
}

// TaskByID 查询单个任务
// 只有指派人、创建人和审核角色可以查看
func (s *taskService) TaskByID(ctx context.Context, actor lifecycle.Actor, id string) (*Task, error) {
	task, err := s.tasks.FindByID(id)
	if err != nil {
		return nil, err
	}
	if actor.ID != task.AssignedTo && actor.ID != task.AssignedBy && !actor.Role.IsReviewer() {
		return nil, lifecycle.ErrNotAssignee
	}
	return toTask(task)
}

// AttachPhoto 向任务追加一张已上传照片的 URL
// 照片列表仅追加,提交后冻结
func (s *taskService) AttachPhoto(ctx context.Context, actor lifecycle.Actor, taskID, photoURL string) (*Task, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	snapshot := task.Snapshot()
	if err := lifecycle.AuthorizeAttachPhoto(actor, snapshot); err != nil {
		return nil, err
	}

	if err := s.tasks.AppendPhoto(taskID, photoURL); err != nil {
		return nil, err
	}

	metrics.RecordPhotoUploaded()
	// 第一张照片把任务从 created 推进到 in_progress
	if snapshot.State() == lifecycle.StateCreated {
		s.recordHistory(taskID, lifecycle.StateCreated, lifecycle.StateInProgress, "", actor.ID)
	}
	s.recordAudit(ctx, actor.ID, "attach_photo", taskID, map[string]interface{}{
		"photo_url": photoURL,
	})

	return s.reload(taskID)
}

// Submit 提交任务等待审核
func (s *taskService) Submit(ctx context.Context, actor lifecycle.Actor, taskID string) (*Task, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	snapshot := task.Snapshot()
	if err := lifecycle.AuthorizeSubmit(actor, snapshot); err != nil {
		return nil, err
	}

	if err := s.tasks.MarkSubmitted(taskID, time.Now()); err != nil {
		return nil, err
	}

	metrics.RecordTransition("submit")
	s.recordHistory(taskID, snapshot.State(), lifecycle.StateSubmitted, "", actor.ID)
	s.recordAudit(ctx, actor.ID, "submit", taskID, nil)
	s.notify("task_submitted", task, actor.ID)

	return s.reload(taskID)
}

// Complete 将已提交的任务标记为完成,终态
func (s *taskService) Complete(ctx context.Context, actor lifecycle.Actor, taskID string) (*Task, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.AuthorizeComplete(actor, task.Snapshot()); err != nil {
		return nil, err
	}

	if err := s.tasks.MarkCompleted(taskID, time.Now()); err != nil {
		return nil, err
	}

	metrics.RecordTransition("complete")
	s.recordHistory(taskID, lifecycle.StateSubmitted, lifecycle.StateCompleted, "", actor.ID)
	s.recordAudit(ctx, actor.ID, "complete", taskID, nil)
	s.notify("task_completed", task, actor.ID)

	return s.reload(taskID)
}

// Reject 驳回已提交的任务,退回给指派人继续处理
// 已上传的照片保留,驳回原因写入状态历史和审计日志
func (s *taskService) Reject(ctx context.Context, actor lifecycle.Actor, taskID, reason string) (*Task, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.AuthorizeReject(actor, task.Snapshot()); err != nil {
		return nil, err
	}

	if err := s.tasks.MarkRejected(taskID); err != nil {
		return nil, err
	}

	metrics.RecordTransition("reject")
	s.recordHistory(taskID, lifecycle.StateSubmitted, lifecycle.StateInProgress, reason, actor.ID)
	s.recordAudit(ctx, actor.ID, "reject", taskID, map[string]interface{}{
		"reason": reason,
	})
	s.notify("task_rejected", task, actor.ID)

	return s.reload(taskID)
}

// AssignedToMe 查询指派给 actor 的任务
func (s *taskService) AssignedToMe(ctx context.Context, actor lifecycle.Actor) ([]*Task, error) {
	tasks, err := s.tasks.FindByAssignee(actor.ID)
	if err != nil {
		return nil, err
	}
	return toTasks(tasks)
}

// AssignedByMe 查询 actor 创建的任务
func (s *taskService) AssignedByMe(ctx context.Context, actor lifecycle.Actor) ([]*Task, error) {
	tasks, err := s.tasks.FindByAssigner(actor.ID)
	if err != nil {
		return nil, err
	}
	return toTasks(tasks)
}

// ReviewQueue 查询待审核队列,只对审核角色开放
func (s *taskService) ReviewQueue(ctx context.Context, actor lifecycle.Actor) ([]*Task, error) {
	if !actor.Role.IsReviewer() {
		return nil, lifecycle.ErrNotReviewer
	}
	tasks, err := s.tasks.FindSubmittedPendingReview()
	if err != nil {
		return nil, err
	}
	return toTasks(tasks)
}

// reload 重新读取任务并转换为视图
func (s *taskService) reload(taskID string) (*Task, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	return toTask(task)
}

// recordHistory 记录一次状态迁移,失败只告警不阻断操作
func (s *taskService) recordHistory(taskID string, from, to lifecycle.State, reason, operator string) {
	err := s.history.Save(&model.StateHistoryModel{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		FromState: string(from),
		ToState:   string(to),
		Reason:    reason,
		Operator:  operator,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logrus.WithError(err).WithField("task_id", taskID).Warn("failed to record state history")
	}
}

// recordAudit 记录审计日志,失败只告警不阻断操作
func (s *taskService) recordAudit(ctx context.Context, userID, action, taskID string, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(userID, action, "task", taskID, utils.RequestID(ctx), details); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action":  action,
			"task_id": taskID,
		}).Warn("failed to record audit log")
	}
}

// notify 推送生命周期事件
func (s *taskService) notify(eventType string, task *model.TaskModel, actorID string) {
	if s.notifier == nil {
		return
	}
	s.notifier.TaskEvent(eventType, task.ID, task.TaskName, actorID)
}

// toTask 将数据模型转换为任务视图
func toTask(tm *model.TaskModel) (*Task, error) {
	photos, err := tm.Photos()
	if err != nil {
		return nil, err
	}
	return &Task{
		ID:             tm.ID,
		TaskName:       tm.TaskName,
		Description:    tm.Description,
		AssignedBy:     tm.AssignedBy,
		AssignedTo:     tm.AssignedTo,
		Priority:       tm.Priority,
		Deadline:       tm.Deadline,
		UploadedPhotos: photos,
		IsSubmitted:    tm.IsSubmitted,
		IsCompleted:    tm.IsCompleted,
		State:          string(tm.Snapshot().State()),
		CreatedAt:      tm.CreatedAt,
		SubmittedAt:    tm.SubmittedAt,
		CompletedAt:    tm.CompletedAt,
	}, nil
}

// toTasks 批量转换任务视图
func toTasks(models []*model.TaskModel) ([]*Task, error) {
	tasks := make([]*Task, 0, len(models))
	for _, tm := range models {
		task, err := toTask(tm)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
