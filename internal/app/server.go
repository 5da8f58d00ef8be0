package app

import (
	"github.com/pkg/errors"

	"github.com/crmdesk/crmdesk/internal/adminapi"
	"github.com/crmdesk/crmdesk/internal/export"
	"github.com/crmdesk/crmdesk/internal/webserver"
	"github.com/crmdesk/crmdesk/internal/webui"
)

// NewWebServer mounts the HTML pages and the JSON API on one echo server.
func (a *Application) NewWebServer() (*webserver.Server, error) {
	pdf, err := export.NewEngine(a.appConfig.Export)
	if err != nil {
		return nil, err
	}
	renderer, err := webui.NewRenderer()
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}

	srv := webserver.NewServer(a.appConfig, renderer)
	webui.NewHandler(a.authService, a.crmService, pdf, a.bus).Register(srv)
	adminapi.New(a.appConfig.Web, a.authService, a.crmService, a.logs).Register(srv)
	return srv, nil
}
