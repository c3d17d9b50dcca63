package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Teja20002/EZY-Management/internal/config"
	"github.com/Teja20002/EZY-Management/internal/database"
	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/Teja20002/EZY-Management/internal/model"
	"github.com/Teja20002/EZY-Management/internal/repository"
	"github.com/Teja20002/EZY-Management/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingNotifier 记录推送事件的测试替身
type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) TaskEvent(eventType, taskID, taskName, actorID string) {
	n.events = append(n.events, eventType)
}

// fixture 服务层测试环境
type fixture struct {
	db       *gorm.DB
	tasks    service.TaskService
	audits   service.AuditService
	history  repository.StateHistoryRepository
	notifier *recordingNotifier

	owner      lifecycle.Actor
	supervisor lifecycle.Actor
	manager    lifecycle.Actor
	employee   lifecycle.Actor
	outsider   lifecycle.Actor
}

// setupFixture 创建内存数据库上的服务层测试环境
func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	historyRepo := repository.NewStateHistoryRepository(db)
	audits := service.NewAuditService(repository.NewAuditLogRepository(db))
	notifier := &recordingNotifier{}
	tasks := service.NewTaskService(taskRepo, userRepo, historyRepo, audits, notifier)

	f := &fixture{
		db:       db,
		tasks:    tasks,
		audits:   audits,
		history:  historyRepo,
		notifier: notifier,
	}

	f.owner = f.addUser(t, userRepo, "Olive", lifecycle.RoleOwner)
	f.supervisor = f.addUser(t, userRepo, "Sam", lifecycle.RoleSupervisor)
	f.manager = f.addUser(t, userRepo, "Mina", lifecycle.RoleManager)
	f.employee = f.addUser(t, userRepo, "Eli", lifecycle.RoleEmployee)
	f.outsider = f.addUser(t, userRepo, "Omar", lifecycle.RoleEmployee)

	return f
}

func (f *fixture) addUser(t *testing.T, repo repository.UserRepository, name string, role lifecycle.Role) lifecycle.Actor {
	t.Helper()

	now := time.Now()
	user := &model.UserModel{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        name + "@ezy.test",
		PasswordHash: "hash",
		Role:         string(role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(user))
	return lifecycle.Actor{ID: user.ID, Role: role}
}

func (f *fixture) createTask(t *testing.T, actor, assignee lifecycle.Actor) *service.Task {
	t.Helper()

	task, err := f.tasks.Create(context.Background(), actor, service.CreateTaskInput{
		TaskName:    "restock shelves",
		Description: "restock aisle five before opening",
		AssignedTo:  assignee.ID,
		Priority:    "Normal",
		Deadline:    time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	return task
}

// TestTaskService_FullLifecycle 测试完整生命周期:
// 创建 -> 两张照片 -> 提交 -> 完成,重复完成返回冲突
func TestTaskService_FullLifecycle(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	task := f.createTask(t, f.owner, f.employee)
	assert.Equal(t, "created", task.State)
	assert.Empty(t, task.UploadedPhotos)

	task, err := f.tasks.AttachPhoto(ctx, f.employee, task.ID, "http://x/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", task.State)

	task, err = f.tasks.AttachPhoto(ctx, f.employee, task.ID, "http://x/2.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://x/1.jpg", "http://x/2.jpg"}, task.UploadedPhotos)

	task, err = f.tasks.Submit(ctx, f.employee, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "submitted", task.State)
	assert.NotNil(t, task.SubmittedAt)

	task, err = f.tasks.Complete(ctx, f.manager, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", task.State)
	assert.NotNil(t, task.CompletedAt)

	_, err = f.tasks.Complete(ctx, f.manager, task.ID)
	assert.ErrorIs(t, err, lifecycle.ErrAlreadyCompleted)

	// 事件按生命周期顺序推送
	assert.Equal(t, []string{"task_created", "task_submitted", "task_completed"}, f.notifier.events)

	// 每次迁移记录审计日志
	logs, err := f.audits.ForResource("task", task.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 5)

	// 状态历史完整
	history, err := f.history.FindByTask(task.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "completed", history[3].ToState)
}

// TestTaskService_Create_Authorization 测试创建授权矩阵
func TestTaskService_Create_Authorization(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	create := func(actor, assignee lifecycle.Actor) error {
		_, err := f.tasks.Create(ctx, actor, service.CreateTaskInput{
			TaskName:    "task",
			Description: "desc",
			AssignedTo:  assignee.ID,
			Priority:    "High",
			Deadline:    time.Now().Add(time.Hour),
		})
		return err
	}

	assert.NoError(t, create(f.owner, f.manager))
	assert.NoError(t, create(f.owner, f.employee))
	assert.NoError(t, create(f.manager, f.employee))

	assert.ErrorIs(t, create(f.manager, f.manager), lifecycle.ErrAssigneeNotAllowed)
	assert.ErrorIs(t, create(f.owner, f.supervisor), lifecycle.ErrAssigneeNotAllowed)
	assert.ErrorIs(t, create(f.supervisor, f.employee), lifecycle.ErrCreateNotAllowed)
	assert.ErrorIs(t, create(f.employee, f.outsider), lifecycle.ErrCreateNotAllowed)
}

// TestTaskService_Create_Validation 测试创建输入校验
func TestTaskService_Create_Validation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.tasks.Create(ctx, f.owner, service.CreateTaskInput{
		TaskName:    "",
		Description: "desc",
		AssignedTo:  f.employee.ID,
		Priority:    "Normal",
		Deadline:    time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, lifecycle.ErrEmptyTaskName)

	_, err = f.tasks.Create(ctx, f.owner, service.CreateTaskInput{
		TaskName:    "task",
		Description: "desc",
		AssignedTo:  f.employee.ID,
		Priority:    "urgent",
		Deadline:    time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidPriority)

	_, err = f.tasks.Create(ctx, f.owner, service.CreateTaskInput{
		TaskName:    "task",
		Description: "desc",
		AssignedTo:  "missing",
		Priority:    "Normal",
		Deadline:    time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, lifecycle.ErrUserNotFound)
}

// TestTaskService_SubmitGuards 测试提交守卫
func TestTaskService_SubmitGuards(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	task := f.createTask(t, f.owner, f.employee)

	// 非指派人不能提交,审核角色也不行
	_, err := f.tasks.Submit(ctx, f.outsider, task.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotAssignee)
	_, err = f.tasks.Submit(ctx, f.manager, task.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotAssignee)

	_, err = f.tasks.Submit(ctx, f.employee, task.ID)
	require.NoError(t, err)

	// 重复提交返回冲突
	_, err = f.tasks.Submit(ctx, f.employee, task.ID)
	assert.ErrorIs(t, err, lifecycle.ErrAlreadySubmitted)

	// 提交后照片列表冻结
	_, err = f.tasks.AttachPhoto(ctx, f.employee, task.ID, "http://x/late.jpg")
	assert.ErrorIs(t, err, lifecycle.ErrPhotoListFrozen)
}

// TestTaskService_CompleteGuards 测试完成守卫
func TestTaskService_CompleteGuards(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	task := f.createTask(t, f.owner, f.employee)

	// 未提交不能完成
	_, err := f.tasks.Complete(ctx, f.manager, task.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotSubmitted)

	_, err = f.tasks.Submit(ctx, f.employee, task.ID)
	require.NoError(t, err)

	// 员工不能完成,即使是指派人
	_, err = f.tasks.Complete(ctx, f.employee, task.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotReviewer)

	// supervisor 不能创建但可以审核
	_, err = f.tasks.Complete(ctx, f.supervisor, task.ID)
	assert.NoError(t, err)
}

// TestTaskService_Reject 测试驳回回路:
// 驳回退回进行中,照片保留,原因进入状态历史,然后可以重新提交
func TestTaskService_Reject(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	task := f.createTask(t, f.manager, f.employee)

	_, err := f.tasks.AttachPhoto(ctx, f.employee, task.ID, "http://x/1.jpg")
	require.NoError(t, err)
	_, err = f.tasks.Submit(ctx, f.employee, task.ID)
	require.NoError(t, err)

	// 员工不能驳回
	_, err = f.tasks.Reject(ctx, f.employee, task.ID, "blurry photo")
	assert.ErrorIs(t, err, lifecycle.ErrNotReviewer)

	rejected, err := f.tasks.Reject(ctx, f.manager, task.ID, "blurry photo")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", rejected.State)
	assert.False(t, rejected.IsSubmitted)
	assert.Equal(t, []string{"http://x/1.jpg"}, rejected.UploadedPhotos)

	// 驳回原因写入状态历史
	history, err := f.history.FindByTask(task.ID)
	require.NoError(t, err)
	last := history[len(history)-1]
	assert.Equal(t, "in_progress", last.ToState)
	assert.Equal(t, "blurry photo", last.Reason)

	// 未提交状态不能再驳回
	_, err = f.tasks.Reject(ctx, f.manager, task.ID, "again")
	assert.ErrorIs(t, err, lifecycle.ErrNotSubmitted)

	// 补拍后重新提交并完成
	_, err = f.tasks.AttachPhoto(ctx, f.employee, task.ID, "http://x/2.jpg")
	require.NoError(t, err)
	_, err = f.tasks.Submit(ctx, f.employee, task.ID)
	require.NoError(t, err)
	done, err := f.tasks.Complete(ctx, f.manager, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", done.State)
}

// TestTaskService_ReadViews 测试三个读视图和可见性
func TestTaskService_ReadViews(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	task := f.createTask(t, f.owner, f.employee)
	f.createTask(t, f.manager, f.employee)

	mine, err := f.tasks.AssignedToMe(ctx, f.employee)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	created, err := f.tasks.AssignedByMe(ctx, f.owner)
	require.NoError(t, err)
	assert.Len(t, created, 1)

	// 审核队列只含已提交未完成的任务
	queue, err := f.tasks.ReviewQueue(ctx, f.manager)
	require.NoError(t, err)
	assert.Empty(t, queue)

	_, err = f.tasks.Submit(ctx, f.employee, task.ID)
	require.NoError(t, err)

	queue, err = f.tasks.ReviewQueue(ctx, f.supervisor)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, task.ID, queue[0].ID)

	// 员工不能查看审核队列
	_, err = f.tasks.ReviewQueue(ctx, f.employee)
	assert.ErrorIs(t, err, lifecycle.ErrNotReviewer)

	// 单任务可见性: 指派人、创建人和审核角色可见,其他员工不可见
	_, err = f.tasks.TaskByID(ctx, f.employee, task.ID)
	assert.NoError(t, err)
	_, err = f.tasks.TaskByID(ctx, f.owner, task.ID)
	assert.NoError(t, err)
	_, err = f.tasks.TaskByID(ctx, f.outsider, task.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotAssignee)

	_, err = f.tasks.TaskByID(ctx, f.manager, "missing")
	assert.ErrorIs(t, err, lifecycle.ErrTaskNotFound)
}
