package api

import (
	"github.com/keepupapp/keepup-server/internal/service"
)

// Services groups the business services used by the API server.
type Services struct {
	Auth  *service.AuthService
	Task  *service.TaskService
	Media *service.MediaService
	Tag   *service.TagService
}
