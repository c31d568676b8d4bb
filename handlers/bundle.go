package handlers

import (
	"secondlife/middleware"
	"secondlife/services/ratelimit"
)

// HandlerBundle groups the endpoint handlers with the request guards the router needs.
type HandlerBundle struct {
	Resolver   middleware.AuthResolver
	Limiter    ratelimit.Limiter
	RatePolicy ratelimit.Policy
	// TrustedProxies may set the client address through X-Forwarded-For.
	TrustedProxies []string

	Health      *HealthHandler
	User        *UserHandler
	Admin       *AdminHandler
	Items       *ItemHandler
	Themes      *ThemeHandler
	Eco         *EcoHandler
	Suggestions *SuggestionHandler
}
