package handler

import (
	"github.com/d60-Lab/vidtube/internal/service"
)

// Handler 聚合各业务 service，按文件拆分路由方法
type Handler struct {
	authService     service.AuthService
	relationService service.RelationService
	viewService     service.ViewService
	contentService  service.ContentService
}

func New(
	authService service.AuthService,
	relationService service.RelationService,
	viewService service.ViewService,
	contentService service.ContentService,
) *Handler {
	return &Handler{
		authService:     authService,
		relationService: relationService,
		viewService:     viewService,
		contentService:  contentService,
	}
}
