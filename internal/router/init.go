package router

import (
	"github.com/oksasatya/campus-connect/internal/application"
	"github.com/oksasatya/campus-connect/internal/container"
	pginfra "github.com/oksasatya/campus-connect/internal/infrastructure/postgres"
	"github.com/oksasatya/campus-connect/internal/infrastructure/search"
	handlers "github.com/oksasatya/campus-connect/internal/interface/http"
	"github.com/oksasatya/campus-connect/internal/router/modules"
	tpl "github.com/oksasatya/campus-connect/pkg/mailer/templates"
)

type AccountModuleDeps struct {
	Service *application.AccountService
	Handler *handlers.AuthHandler
}

func buildAccountDeps(c *container.Container) AccountModuleDeps {
	cfg := c.Config
	accounts := pginfra.NewAccountRepository(c.PG)
	colleges := pginfra.NewCollegeRepository(c.PG)

	service := application.NewAccountService(accounts, colleges, c.JWT, c.Logger, cfg.UploadMaxFiles)
	if c.Rabbit != nil {
		service.Welcome = application.WelcomeMail{
			Pub:        c.Rabbit,
			AppName:    cfg.AppName,
			LoginURL:   tpl.JoinURL(cfg.FrontendURL, "/login"),
			SupportURL: cfg.SupportURL,
		}
	}
	if c.ES != nil {
		service.Indexer = search.NewProfileIndexer(c.ES, cfg.ESProfilesIndex)
	}

	return AccountModuleDeps{
		Service: service,
		Handler: handlers.NewAuthHandler(service, c.Logger),
	}
}

// InitModules builds every feature module from c and registers it with the
// router registry. Call once during startup.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	rdb := c.Cache()

	account := buildAccountDeps(c)
	r.Add(modules.NewAuthModule(account.Handler, c.JWT, rdb))

	uploads := application.NewUploadService(c.Store, c.Logger, cfg.UploadPrefix, cfg.UploadMaxFiles, cfg.UploadMaxFileBytes)
	r.Add(modules.NewUploadModule(
		handlers.NewUploadHandler(uploads, c.Logger, uploads.MaxFiles, uploads.MaxFileBytes),
		c.JWT,
		rdb,
	))

	collegeRepo := pginfra.NewCollegeRepository(c.PG)
	r.Add(modules.NewCollegeModule(handlers.NewCollegeHandler(application.NewCollegeService(collegeRepo, rdb, c.Logger), c.Logger)))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
