package routes

import (
	"net/http"
	"time"

	"secondlife/handlers"
	"secondlife/middleware"
	"secondlife/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Per-endpoint bucket caps. They only ever lower the configured RATE_LIMIT_MAX.
const (
	capAdminListUsers  = 15
	capItemsCreate     = 20
	capItemsUpdate     = 20
	capItemsArchive    = 15
	capItemsAddMedia   = 25
	capThemesCreate    = 10
	capEcoView         = 40
	capEcoAdminList    = 20
	capEcoAdminCreate  = 15
	capSuggestPending  = 20
	capSuggestApprove  = 20
	capSuggestDelete   = 15
	capSuggestGenerate = 5
)

type routeSet struct {
	hb *handlers.HandlerBundle
}

func (rs routeSet) limit(scope string, maxTokens int) gin.HandlerFunc {
	return middleware.RateLimit(rs.hb.Limiter, rs.hb.RatePolicy, scope, maxTokens)
}

// preflight answers every OPTIONS request with 204 after cors set its headers.
func preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	rs := routeSet{hb}
	r.GET("/health", rs.limit("health:check", 0), hb.Health.GetHealthHandler)
}

// RegisterUserRoutes registers the caller's session and profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	rs := routeSet{hb}
	api := r.Group("")
	api.Use(middleware.RequireAuth(hb.Resolver))
	{
		api.GET("/getSessionContext", rs.limit("auth:context", 0), hb.User.GetSessionContextHandler)
		api.GET("/getMyProfile", rs.limit("profile:get", 0), hb.User.GetMyProfileHandler)
		api.POST("/upsertMyProfile", rs.limit("profile:upsert", 0), hb.User.UpsertMyProfileHandler)
	}
}

// RegisterItemRoutes registers listing endpoints. Ownership is checked by the service.
func RegisterItemRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	rs := routeSet{hb}
	api := r.Group("")
	api.Use(middleware.RequireAuth(hb.Resolver))
	{
		api.POST("/createItem", rs.limit("items:create", capItemsCreate), hb.Items.CreateItemHandler)
		api.GET("/listItems", rs.limit("items:list", 0), hb.Items.ListItemsHandler)
		api.GET("/getItemDetail", rs.limit("items:get", 0), hb.Items.GetItemDetailHandler)
		api.POST("/updateItem", rs.limit("items:update", capItemsUpdate), hb.Items.UpdateItemHandler)
		api.POST("/archiveItem", rs.limit("items:archive", capItemsArchive), hb.Items.ArchiveItemHandler)
		api.POST("/addItemMedia", rs.limit("items:addMedia", capItemsAddMedia), hb.Items.AddItemMediaHandler)
	}
}

// RegisterThemeRoutes registers theme week endpoints.
func RegisterThemeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	rs := routeSet{hb}
	r.GET("/getCurrentThemeWeek", rs.limit("themes:current", 0), hb.Themes.GetCurrentThemeWeekHandler)
	r.GET("/listThemeWeeks", rs.limit("themes:list", 0), hb.Themes.ListThemeWeeksHandler)

	admin := r.Group("")
	admin.Use(middleware.RequireAuth(hb.Resolver), middleware.RequireAdmin())
	admin.POST("/createThemeWeek", rs.limit("themes:create", capThemesCreate), hb.Themes.CreateThemeWeekHandler)
}

// RegisterEcoRoutes registers eco content endpoints.
func RegisterEcoRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	rs := routeSet{hb}
	r.GET("/listEcoContents", rs.limit("eco:list", 0), hb.Eco.ListEcoContentsHandler)
	r.GET("/getEcoContentDetail", rs.limit("eco:detail", 0), hb.Eco.GetEcoContentDetailHandler)
	r.POST("/trackEcoView", rs.limit("eco:view", capEcoView), hb.Eco.TrackEcoViewHandler)

	admin := r.Group("")
	admin.Use(middleware.RequireAuth(hb.Resolver), middleware.RequireAdmin())
	{
		admin.GET("/adminListEcoContents", rs.limit("eco:adminList", capEcoAdminList), hb.Eco.AdminListEcoContentsHandler)
		admin.POST("/adminCreateEcoContent", rs.limit("eco:adminCreate", capEcoAdminCreate), hb.Eco.AdminCreateEcoContentHandler)
	}
}

// RegisterSuggestionRoutes registers AI suggestion reading and moderation endpoints.
func RegisterSuggestionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	rs := routeSet{hb}
	r.GET("/listPublishedAiSuggestions",
		middleware.RequireAuth(hb.Resolver),
		rs.limit("aiSuggestions:published", 0),
		hb.Suggestions.ListPublishedHandler)

	admin := r.Group("")
	admin.Use(middleware.RequireAuth(hb.Resolver), middleware.RequireAdmin())
	{
		admin.GET("/listPendingAiSuggestions", rs.limit("aiSuggestions:pending", capSuggestPending), hb.Suggestions.ListPendingHandler)
		admin.POST("/approveAiSuggestion", rs.limit("aiSuggestions:approve", capSuggestApprove), hb.Suggestions.ApproveHandler)
		admin.POST("/deleteAiSuggestion", rs.limit("aiSuggestions:delete", capSuggestDelete), hb.Suggestions.DeleteHandler)
		admin.POST("/adminGenerateWeeklySuggestions", rs.limit("aiSuggestions:generate", capSuggestGenerate), hb.Suggestions.GenerateHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	rs := routeSet{hb}
	adminGroup := r.Group("")
	adminGroup.Use(middleware.RequireAuth(hb.Resolver), middleware.RequireAdmin())
	adminGroup.GET("/adminListUsers", rs.limit("admin:listUsers", capAdminListUsers), hb.Admin.ListUsersHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.HandleMethodNotAllowed = true
	if err := r.SetTrustedProxies(hb.TrustedProxies); err != nil {
		zap.L().Error("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(utils.ErrorHandler(), utils.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(preflight())

	RegisterHealthRoute(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterItemRoutes(r, hb)
	RegisterThemeRoutes(r, hb)
	RegisterEcoRoutes(r, hb)
	RegisterSuggestionRoutes(r, hb)
	RegisterAdminRoutes(r, hb)

	r.NoMethod(utils.NoMethodHandler)
	r.NoRoute(utils.NoRouteHandler)
}
