package repository_test

import (
	"testing"
	"time"

	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/Teja20002/EZY-Management/internal/model"
	"github.com/Teja20002/EZY-Management/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUser 构造一个可持久化的用户
func newUser(name, email, role string) *model.UserModel {
	now := time.Now()
	return &model.UserModel{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// TestUserRepository_CreateAndFind 测试用户创建和查询
func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := repository.NewUserRepository(setupDB(t))

	user := newUser("Alice", "alice@ezy.test", "employee")
	require.NoError(t, repo.Create(user))

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)

	byEmail, err := repo.FindByEmail("alice@ezy.test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

// TestUserRepository_NotFound 测试未知用户返回 NotFound
func TestUserRepository_NotFound(t *testing.T) {
	repo := repository.NewUserRepository(setupDB(t))

	_, err := repo.FindByID("missing")
	assert.ErrorIs(t, err, lifecycle.ErrUserNotFound)

	_, err = repo.FindByEmail("nobody@ezy.test")
	assert.ErrorIs(t, err, lifecycle.ErrUserNotFound)

	err = repo.UpdateRole("missing", "manager")
	assert.ErrorIs(t, err, lifecycle.ErrUserNotFound)
}

// TestUserRepository_FindByRole 测试按角色查询,按姓名排序
func TestUserRepository_FindByRole(t *testing.T) {
	repo := repository.NewUserRepository(setupDB(t))

	require.NoError(t, repo.Create(newUser("Carol", "carol@ezy.test", "employee")))
	require.NoError(t, repo.Create(newUser("Bob", "bob@ezy.test", "employee")))
	require.NoError(t, repo.Create(newUser("Mallory", "mallory@ezy.test", "manager")))

	employees, err := repo.FindByRole("employee")
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Bob", employees[0].Name)
	assert.Equal(t, "Carol", employees[1].Name)
}

// TestUserRepository_UpdateRole 测试角色变更
func TestUserRepository_UpdateRole(t *testing.T) {
	repo := repository.NewUserRepository(setupDB(t))

	user := newUser("Dave", "dave@ezy.test", "employee")
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.UpdateRole(user.ID, "manager"))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "manager", found.Role)
}

// TestStateHistoryRepository 测试状态历史按时间升序
func TestStateHistoryRepository(t *testing.T) {
	repo := repository.NewStateHistoryRepository(setupDB(t))

	base := time.Now()
	for i, to := range []string{"created", "in_progress", "submitted"} {
		require.NoError(t, repo.Save(&model.StateHistoryModel{
			ID:        uuid.New().String(),
			TaskID:    "task-1",
			ToState:   to,
			Operator:  "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	history, err := repo.FindByTask("task-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "created", history[0].ToState)
	assert.Equal(t, "submitted", history[2].ToState)
}

// TestAuditLogRepository 测试审计日志按资源查询
func TestAuditLogRepository(t *testing.T) {
	repo := repository.NewAuditLogRepository(setupDB(t))

	require.NoError(t, repo.Save(&model.AuditLogModel{
		ID:           uuid.New().String(),
		UserID:       "u1",
		Action:       "submit",
		ResourceType: "task",
		ResourceID:   "task-1",
		CreatedAt:    time.Now(),
	}))
	require.NoError(t, repo.Save(&model.AuditLogModel{
		ID:           uuid.New().String(),
		UserID:       "u2",
		Action:       "update_role",
		ResourceType: "user",
		ResourceID:   "u3",
		CreatedAt:    time.Now(),
	}))

	logs, err := repo.FindByResource("task", "task-1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "submit", logs[0].Action)
}
