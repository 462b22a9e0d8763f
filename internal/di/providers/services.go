package providers

import (
	"github.com/samber/do/v2"

	"github.com/keepupapp/keepup-server/internal/auth"
	"github.com/keepupapp/keepup-server/internal/config"
	"github.com/keepupapp/keepup-server/internal/logger"
	"github.com/keepupapp/keepup-server/internal/service"
	"github.com/keepupapp/keepup-server/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideOwnershipPolicy provides the 404/403 switch for owner-scoped resources.
func ProvideOwnershipPolicy(i do.Injector) (service.OwnershipPolicy, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return service.OwnershipPolicy{RevealForbidden: cfg.Auth.RevealForbidden}, nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, validator, log.Logger), nil
}

// ProvideTagService provides the tag dictionary service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideTaskService provides the task service.
func ProvideTaskService(i do.Injector) (*service.TaskService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	policy := do.MustInvoke[service.OwnershipPolicy](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTaskService(storeHandle.Store, validator, policy, log.Logger), nil
}

// ProvideMediaService provides the media service.
func ProvideMediaService(i do.Injector) (*service.MediaService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tagService := do.MustInvoke[*service.TagService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	policy := do.MustInvoke[service.OwnershipPolicy](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMediaService(storeHandle.Store, tagService, validator, policy, log.Logger), nil
}
