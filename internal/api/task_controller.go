package api

import (
	"net/http"

	"github.com/Teja20002/EZY-Management/internal/auth"
	"github.com/Teja20002/EZY-Management/internal/service"
	"github.com/Teja20002/EZY-Management/internal/storage"
	"github.com/gin-gonic/gin"
)

// maxPhotoSize 单张照片上限
const maxPhotoSize = 10 << 20

// TaskController 任务控制器
type TaskController struct {
	tasks  service.TaskService
	photos service.PhotoService
}

// NewTaskController 创建任务控制器
func NewTaskController(tasks service.TaskService, photos service.PhotoService) *TaskController {
	return &TaskController{
		tasks:  tasks,
		photos: photos,
	}
}

// Create 创建任务
func (c *TaskController) Create(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var input service.CreateTaskInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := c.tasks.Create(ctx.Request.Context(), actor, input)
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Created(ctx, task)
}

// Get 获取任务详情
func (c *TaskController) Get(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	task, err := c.tasks.TaskByID(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, task)
}

// AssignedToMe 查询指派给当前用户的任务
func (c *TaskController) AssignedToMe(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	tasks, err := c.tasks.AssignedToMe(ctx.Request.Context(), actor)
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, tasks)
}

// AssignedByMe 查询当前用户创建的任务
func (c *TaskController) AssignedByMe(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	tasks, err := c.tasks.AssignedByMe(ctx.Request.Context(), actor)
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, tasks)
}

// Review 查询待审核队列
func (c *TaskController) Review(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	tasks, err := c.tasks.ReviewQueue(ctx.Request.Context(), actor)
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, tasks)
}

// UploadPhoto 上传任务照片
// multipart 表单的 photo 字段,先写对象存储再追加任务元数据
func (c *TaskController) UploadPhoto(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	header, err := ctx.FormFile("photo")
	if err != nil {
		Error(ctx, http.StatusBadRequest, "photo file is required", err.Error())
		return
	}
	if header.Size > maxPhotoSize {
		Error(ctx, http.StatusBadRequest, "photo is too large", "")
		return
	}

	file, err := header.Open()
	if err != nil {
		Error(ctx, http.StatusBadRequest, "failed to read photo", err.Error())
		return
	}
	defer file.Close()

	task, err := c.photos.Upload(ctx.Request.Context(), actor, ctx.Param("id"), &storage.UploadInput{
		Reader:      file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, task)
}

// Submit 提交任务等待审核
func (c *TaskController) Submit(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	task, err := c.tasks.Submit(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, task)
}

// Complete 完成任务
func (c *TaskController) Complete(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	task, err := c.tasks.Complete(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, task)
}

// rejectRequest 驳回请求体
type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject 驳回任务,退回给指派人
func (c *TaskController) Reject(ctx *gin.Context) {
	actor, ok := auth.CurrentActor(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var req rejectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := c.tasks.Reject(ctx.Request.Context(), actor, ctx.Param("id"), req.Reason)
	if err != nil {
		HandleError(ctx, err)
		return
	}

	Success(ctx, task)
}
