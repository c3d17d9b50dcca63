package service_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/Teja20002/EZY-Management/internal/config"
	"github.com/Teja20002/EZY-Management/internal/lifecycle"
	"github.com/Teja20002/EZY-Management/internal/repository"
	"github.com/Teja20002/EZY-Management/internal/service"
	"github.com/Teja20002/EZY-Management/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPhotoService 创建本地存储上的照片服务
func setupPhotoService(t *testing.T, f *fixture) (service.PhotoService, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.New(config.StorageConfig{
		Driver:   "local",
		LocalDir: dir,
		BaseURL:  "http://localhost:8080/photos",
	})
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository(f.db)
	return service.NewPhotoService(store, f.tasks, taskRepo), dir
}

// listFiles 列出目录中的文件名
func listFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// TestPhotoService_Upload 测试两阶段上传:
// 先写对象存储,成功后把 URL 追加到任务元数据
func TestPhotoService_Upload(t *testing.T) {
	f := setupFixture(t)
	photos, dir := setupPhotoService(t, f)

	task := f.createTask(t, f.owner, f.employee)

	updated, err := photos.Upload(context.Background(), f.employee, task.ID, &storage.UploadInput{
		Reader:      strings.NewReader("jpeg-bytes"),
		Size:        10,
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	require.Len(t, updated.UploadedPhotos, 1)
	assert.True(t, strings.HasPrefix(updated.UploadedPhotos[0], "http://localhost:8080/photos/"))
	assert.Equal(t, "in_progress", updated.State)

	files := listFiles(t, dir)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0], ".jpg"))
}

// TestPhotoService_Upload_Forbidden 测试守卫在写存储之前执行
func TestPhotoService_Upload_Forbidden(t *testing.T) {
	f := setupFixture(t)
	photos, dir := setupPhotoService(t, f)

	task := f.createTask(t, f.owner, f.employee)

	// 非指派人不能上传,blob 不落盘
	_, err := photos.Upload(context.Background(), f.outsider, task.ID, &storage.UploadInput{
		Reader:      strings.NewReader("jpeg-bytes"),
		Size:        10,
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, lifecycle.ErrNotAssignee)
	assert.Empty(t, listFiles(t, dir))

	// 提交后上传被拒,blob 同样不落盘
	_, err = f.tasks.Submit(context.Background(), f.employee, task.ID)
	require.NoError(t, err)
	_, err = photos.Upload(context.Background(), f.employee, task.ID, &storage.UploadInput{
		Reader:      strings.NewReader("jpeg-bytes"),
		Size:        10,
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, lifecycle.ErrPhotoListFrozen)
	assert.Empty(t, listFiles(t, dir))
}

// failingTaskService 元数据追加总是失败的测试替身
type failingTaskService struct {
	service.TaskService
}

func (s *failingTaskService) AttachPhoto(ctx context.Context, actor lifecycle.Actor, taskID, photoURL string) (*service.Task, error) {
	return nil, lifecycle.ErrStoreUnavailable
}

// TestPhotoService_Upload_OrphanCleanup 测试孤儿 blob 清理:
// 元数据追加失败时已上传的文件被删除,错误照常返回
func TestPhotoService_Upload_OrphanCleanup(t *testing.T) {
	f := setupFixture(t)
	_, dir := setupPhotoService(t, f)

	store, err := storage.New(config.StorageConfig{
		Driver:   "local",
		LocalDir: dir,
		BaseURL:  "http://localhost:8080/photos",
	})
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository(f.db)
	photos := service.NewPhotoService(store, &failingTaskService{f.tasks}, taskRepo)

	task := f.createTask(t, f.owner, f.employee)

	_, err = photos.Upload(context.Background(), f.employee, task.ID, &storage.UploadInput{
		Reader:      strings.NewReader("jpeg-bytes"),
		Size:        10,
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, lifecycle.ErrStoreUnavailable)
	assert.Empty(t, listFiles(t, dir))
}
