package lifecycle

import "strings"

// Role 封闭的角色枚举
// 存储层保存的自由字符串必须先经过 ParseRole,解析失败显式报错,
// 不允许静默落到未知角色
type Role string

const (
	RoleOwner      Role = "owner"
	RoleSupervisor Role = "supervisor"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
)

// ParseRole 解析角色字符串
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleOwner:
		return RoleOwner, nil
	case RoleSupervisor:
		return RoleSupervisor, nil
	case RoleManager:
		return RoleManager, nil
	case RoleEmployee:
		return RoleEmployee, nil
	}
	return "", ErrInvalidRole
}

// Valid 角色是否为合法枚举值
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleSupervisor, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsReviewer 角色是否有审核权限 (manager 及以上)
func (r Role) IsReviewer() bool {
	switch r {
	case RoleOwner, RoleSupervisor, RoleManager:
		return true
	}
	return false
}

// CanAssignTo 校验本角色能否把任务指派给目标角色
// owner 可指派给 manager 或 employee, manager 只能指派给 employee,
// supervisor 和 employee 不允许创建任务
func (r Role) CanAssignTo(assignee Role) error {
	switch r {
	case RoleOwner:
		if assignee == RoleManager || assignee == RoleEmployee {
			return nil
		}
		return ErrAssigneeNotAllowed
	case RoleManager:
		if assignee == RoleEmployee {
			return nil
		}
		return ErrAssigneeNotAllowed
	}
	return ErrCreateNotAllowed
}
