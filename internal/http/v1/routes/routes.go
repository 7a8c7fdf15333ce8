package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	authhandler "github.com/roktodan/roktodan-api/internal/http/v1/auth"
	"github.com/roktodan/roktodan-api/internal/http/v1/profile"
	"github.com/roktodan/roktodan-api/internal/http/v1/requests"
	"github.com/roktodan/roktodan-api/internal/http/v1/users"
	"github.com/roktodan/roktodan-api/internal/identity"
	"github.com/roktodan/roktodan-api/internal/lifecycle"
	platformauth "github.com/roktodan/roktodan-api/internal/platform/auth"
	profilesvc "github.com/roktodan/roktodan-api/internal/service/profile"
	requestsvc "github.com/roktodan/roktodan-api/internal/service/request"
)

// Register wires all HTTP routes into the provided API router.
func Register(
	api huma.API,
	reconciler *identity.Reconciler,
	profileService profilesvc.Service,
	requestStore requestsvc.Store,
	engine *lifecycle.Engine,
	revoker platformauth.Revoker,
) {
	prefix := apiPrefix(api)

	// Every operation declaring Security gets a reconciled Principal.
	api.UseMiddleware(identity.NewMiddleware(api, reconciler))

	authhandler.Register(api, profileService, revoker)
	profile.Register(api, profileService)
	requests.Register(api, requestStore, engine, prefix)
	users.Register(api, profileService, revoker, prefix)
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
