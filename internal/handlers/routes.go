package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers every link and auth route. The /links/search
// path shadows the code wildcard, which is why "search" is a reserved
// alias.
func RegisterRoutes(api huma.API, linkHandler *LinkHandler, authHandler *AuthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "shorten-link",
		Method:      http.MethodPost,
		Path:        "/links/shorten",
		Summary:     "Create short link",
		Description: "Creates a short link for the given target URL, optionally under a caller-chosen alias.",
		Tags:        []string{"links"},
	}, linkHandler.Shorten)

	huma.Register(api, huma.Operation{
		OperationID: "search-links",
		Method:      http.MethodGet,
		Path:        "/links/search",
		Summary:     "Search links by target URL",
		Description: "Returns every link whose target URL matches exactly.",
		Tags:        []string{"links"},
	}, linkHandler.Search)

	huma.Register(api, huma.Operation{
		OperationID: "redirect-link",
		Method:      http.MethodGet,
		Path:        "/links/{code}",
		Summary:     "Redirect to target URL",
		Description: "Redirects to the target URL for the short code.",
		Tags:        []string{"links"},
	}, linkHandler.Redirect)

	huma.Register(api, huma.Operation{
		OperationID: "update-link",
		Method:      http.MethodPut,
		Path:        "/links/{code}",
		Summary:     "Update link target",
		Description: "Replaces the target URL. Only the link's owner may update it.",
		Tags:        []string{"links"},
	}, linkHandler.Update)

	huma.Register(api, huma.Operation{
		OperationID: "delete-link",
		Method:      http.MethodDelete,
		Path:        "/links/{code}",
		Summary:     "Delete link",
		Description: "Removes the link. Only the link's owner may delete it.",
		Tags:        []string{"links"},
	}, linkHandler.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "link-stats",
		Method:      http.MethodGet,
		Path:        "/links/{code}/stats",
		Summary:     "Link statistics",
		Description: "Returns creation time, click count and access timestamps for a code.",
		Tags:        []string{"links"},
	}, linkHandler.Stats)

	huma.Register(api, huma.Operation{
		OperationID: "register-user",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register account",
		Tags:        []string{"auth"},
	}, authHandler.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/jwt/login",
		Summary:     "Obtain bearer token",
		Tags:        []string{"auth"},
	}, authHandler.Login)
}
