package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/aubertlucas/gmao-lucas/internal/dto"
	"github.com/aubertlucas/gmao-lucas/internal/service"
	pkgerrors "github.com/aubertlucas/gmao-lucas/pkg/errors"
	"github.com/aubertlucas/gmao-lucas/pkg/response"
)

// ActionHandler 工单模块 HTTP 处理器
type ActionHandler struct {
	actionSvc service.ActionService
}

// NewActionHandler 创建 ActionHandler
func NewActionHandler(actionSvc service.ActionService) *ActionHandler {
	return &ActionHandler{actionSvc: actionSvc}
}

// CreateAction 创建工单
// POST /api/v1/actions
func (h *ActionHandler) CreateAction(c *gin.Context) {
	var req dto.CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.actionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssigneeNotFound):
			response.BadRequest(c, 14002, "指定的负责人不存在")
		case errors.Is(err, service.ErrLocationNotFound):
			response.BadRequest(c, 14003, "指定的地点不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// GetAction 查询工单详情
// GET /api/v1/actions/:id
func (h *ActionHandler) GetAction(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.actionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrActionNotFound) {
			response.NotFound(c, 14001, "工单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListActions 工单列表（分页 + 过滤）
// GET /api/v1/actions?assigned_to=&location_id=&status=&priority=&search=&page=&page_size=
func (h *ActionHandler) ListActions(c *gin.Context) {
	var q dto.ActionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "查询参数无效")
		return
	}

	list, total, err := h.actionSvc.List(c.Request.Context(), &q)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, q.Page, q.PageSize)
}

// UpdateAction 更新工单（乐观锁校验版本号）
// PUT /api/v1/actions/:id
func (h *ActionHandler) UpdateAction(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.actionSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActionNotFound):
			response.NotFound(c, 14001, "工单不存在")
		case errors.Is(err, service.ErrAssigneeNotFound):
			response.BadRequest(c, 14002, "指定的负责人不存在")
		case errors.Is(err, service.ErrLocationNotFound):
			response.BadRequest(c, 14003, "指定的地点不存在")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 14004, "工单已被其他操作修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// DeleteAction 删除工单（仅管理员）
// DELETE /api/v1/actions/:id
func (h *ActionHandler) DeleteAction(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.actionSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrActionNotFound) {
			response.NotFound(c, 14001, "工单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.NoContent(c)
}

// ReorderActions 批量改写工单序号（拖拽排序）
// POST /api/v1/actions/reorder
func (h *ActionHandler) ReorderActions(c *gin.Context) {
	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.actionSvc.Reorder(c.Request.Context(), &req); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// CalculateEndDate 预览预计结束日期（不落库）
// POST /api/v1/actions/calculate-end-date
func (h *ActionHandler) CalculateEndDate(c *gin.Context) {
	var req dto.CalculateEndDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.actionSvc.CalculateEndDate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrAssigneeNotFound) {
			response.BadRequest(c, 14002, "指定的负责人不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/action_handler.go
