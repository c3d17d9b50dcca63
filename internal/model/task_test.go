package model_test

import (
	"testing"
	"time"

	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/Teja20002/EZY-Management/internal/model"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() *model.TaskModel {
	now := time.Now()
	return &model.TaskModel{
		ID:          "t1",
		TaskName:    "fix door",
		Description: "front door lock",
		AssignedBy:  "owner-1",
		AssignedTo:  "emp-1",
		Priority:    "High",
		Deadline:    now.Add(time.Hour),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TestTaskModel_Validate 测试任务模型校验
func TestTaskModel_Validate(t *testing.T) {
	assert.NoError(t, validTask().Validate())

	missing := validTask()
	missing.TaskName = ""
	assert.Error(t, missing.Validate())

	badPriority := validTask()
	badPriority.Priority = "urgent"
	assert.Error(t, badPriority.Validate())

	// 完成必须先提交
	broken := validTask()
	broken.IsCompleted = true
	assert.Error(t, broken.Validate())

	broken.IsSubmitted = true
	assert.NoError(t, broken.Validate())
}

// TestTaskModel_Photos 测试照片列表序列化
func TestTaskModel_Photos(t *testing.T) {
	task := validTask()

	photos, err := task.Photos()
	require.NoError(t, err)
	assert.Empty(t, photos)

	require.NoError(t, task.SetPhotos([]string{"http://x/1.jpg", "http://x/2.jpg"}))
	photos, err = task.Photos()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://x/1.jpg", "http://x/2.jpg"}, photos)
}

// TestTaskModel_Snapshot 测试快照推导
func TestTaskModel_Snapshot(t *testing.T) {
	task := validTask()
	require.NoError(t, task.SetPhotos([]string{"http://x/1.jpg"}))
	task.IsSubmitted = true

	snapshot := task.Snapshot()
	assert.Equal(t, "emp-1", snapshot.AssignedTo)
	assert.Equal(t, 1, snapshot.PhotoCount)
	assert.Equal(t, lifecycle.StateSubmitted, snapshot.State())
}

// TestTaskModel_Snapshot_CorruptPhotos 测试照片列表损坏时的快照降级
func TestTaskModel_Snapshot_CorruptPhotos(t *testing.T) {
	hook := logrustest.NewGlobal()
	defer hook.Reset()

	task := validTask()
	task.UploadedPhotos = []byte("{not-json")

	snapshot := task.Snapshot()
	assert.Equal(t, 0, snapshot.PhotoCount)
	assert.Equal(t, lifecycle.StateCreated, snapshot.State())

	// 损坏的列不能无声吞掉
	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, task.ID, hook.LastEntry().Data["task_id"])
}

// TestUserModel_Validate 测试用户模型校验
func TestUserModel_Validate(t *testing.T) {
	now := time.Now()
	user := &model.UserModel{
		ID:           "u1",
		Name:         "Alice",
		Email:        "alice@ezy.test",
		PasswordHash: "hash",
		Role:         "employee",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	assert.NoError(t, user.Validate())

	user.Email = ""
	assert.Error(t, user.Validate())
}
