package service

import (
	"encoding/json"
	"time"

	"github.com/Teja20002/EZY-Management/internal/model"
	"github.com/Teja20002/EZY-Management/internal/repository"
	"github.com/google/uuid"
)

// AuditService 审计日志服务接口
// 每次创建/照片追加/提交/完成/驳回以及角色变更记录一条日志
type AuditService interface {
	Record(userID, action, resourceType, resourceID, requestID string, details map[string]interface{}) error
	ForResource(resourceType, resourceID string) ([]*model.AuditLogModel, error)
}

// auditService 审计日志服务实现
type auditService struct {
	audits repository.AuditLogRepository
}

// NewAuditService 创建审计日志服务
func NewAuditService(audits repository.AuditLogRepository) AuditService {
	return &auditService{audits: audits}
}

// Record 记录一条审计日志
func (s *auditService) Record(userID, action, resourceType, resourceID, requestID string, details map[string]interface{}) error {
	entry := &model.AuditLogModel{
		ID:           uuid.New().String(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    requestID,
		CreatedAt:    time.Now(),
	}
	if len(details) > 0 {
		data, err := json.Marshal(details)
		if err != nil {
			return err
		}
		entry.Details = data
	}
	return s.audits.Save(entry)
}

// ForResource 查询某资源的审计日志
func (s *auditService) ForResource(resourceType, resourceID string) ([]*model.AuditLogModel, error) {
	return s.audits.FindByResource(resourceType, resourceID)
}
