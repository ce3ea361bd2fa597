package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sckohen/covey.town-projectTofu/internal/adapters/signal"
	"github.com/sckohen/covey.town-projectTofu/internal/app"
	"github.com/sckohen/covey.town-projectTofu/internal/config"
	"github.com/sckohen/covey.town-projectTofu/internal/domain"
)

// ClientTokenMiddleware gives every browser a stable token cookie used as
// the WS connection identity.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// SetupRouter wires the REST surface for the six space requests plus the
// town/player endpoints and the WS signal upgrade. Every space endpoint
// answers with the handler's ResponseEnvelope.
func SetupRouter(ctx context.Context, cfg *config.Config, towns *app.TownManager) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("TofuSessions", store))
	r.Use(ClientTokenMiddleware())

	log.Info().Str("module", "adapters.http").Msg("router setup")

	api := r.Group("/api")

	api.POST("/towns", func(c *gin.Context) {
		var req struct {
			CoveyTownID string `json:"coveyTownID" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"isOK": false, "message": "missing or invalid coveyTownID"})
			return
		}
		town := towns.GetOrCreate(domain.TownID(req.CoveyTownID))
		c.JSON(http.StatusOK, gin.H{"isOK": true, "response": gin.H{"coveyTownID": town.ID()}})
	})

	api.GET("/towns", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"isOK": true, "response": gin.H{"towns": towns.List()}})
	})

	api.POST("/towns/:townID/players", func(c *gin.Context) {
		town, ok := towns.Get(domain.TownID(c.Param("townID")))
		if !ok {
			c.JSON(http.StatusOK, gin.H{"isOK": false, "message": "town not found"})
			return
		}
		var req struct {
			UserName string `json:"userName" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"isOK": false, "message": "missing or invalid userName"})
			return
		}
		player, err := town.AddPlayer(req.UserName)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"isOK": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"isOK": true, "response": player})
	})

	api.GET("/towns/:townID/players", func(c *gin.Context) {
		town, ok := towns.Get(domain.TownID(c.Param("townID")))
		if !ok {
			c.JSON(http.StatusOK, gin.H{"isOK": false, "message": "town not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"isOK": true, "response": gin.H{"players": town.PlayersSnapshot()}})
	})

	// The six space requests, bodies bound into the handler payloads.

	api.POST("/towns/:townID/spaces", func(c *gin.Context) {
		var req app.SpaceCreateRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"isOK": false, "message": "invalid payload"})
			return
		}
		req.CoveyTownID = c.Param("townID")
		c.JSON(http.StatusOK, app.SpaceCreateHandler(towns, req))
	})

	api.GET("/towns/:townID/spaces", func(c *gin.Context) {
		req := app.SpaceListRequest{CoveyTownID: c.Param("townID")}
		c.JSON(http.StatusOK, app.SpaceListHandler(towns, req))
	})

	api.PUT("/towns/:townID/spaces/:spaceID/join", func(c *gin.Context) {
		var req app.SpaceJoinRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"isOK": false, "message": "invalid payload"})
			return
		}
		req.CoveyTownID = c.Param("townID")
		req.CoveySpaceID = c.Param("spaceID")
		c.JSON(http.StatusOK, app.SpaceJoinHandler(towns, req))
	})

	api.POST("/towns/:townID/spaces/:spaceID/claim", func(c *gin.Context) {
		var req app.SpaceClaimRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"isOK": false, "message": "invalid payload"})
			return
		}
		req.CoveyTownID = c.Param("townID")
		req.CoveySpaceID = c.Param("spaceID")
		c.JSON(http.StatusOK, app.SpaceClaimHandler(towns, req))
	})

	api.PATCH("/towns/:townID/spaces/:spaceID", func(c *gin.Context) {
		var req app.SpaceUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"isOK": false, "message": "invalid payload"})
			return
		}
		req.CoveyTownID = c.Param("townID")
		req.CoveySpaceID = c.Param("spaceID")
		c.JSON(http.StatusOK, app.SpaceUpdateHandler(towns, req))
	})

	// Space detail: members and whitelist as full player summaries.
	api.GET("/towns/:townID/spaces/:spaceID", func(c *gin.Context) {
		town, ok := towns.Get(domain.TownID(c.Param("townID")))
		if !ok {
			c.JSON(http.StatusOK, gin.H{"isOK": false, "message": "town not found"})
			return
		}
		space, ok := town.Spaces().Get(domain.SpaceID(c.Param("spaceID")))
		if !ok {
			c.JSON(http.StatusOK, gin.H{"isOK": false, "message": "space not found"})
			return
		}
		host, _ := space.Host()
		presenter, _ := space.Presenter()
		c.JSON(http.StatusOK, gin.H{"isOK": true, "response": gin.H{
			"coveySpaceID": space.Space().ID,
			"isPrivate":    space.IsPrivate(),
			"hostID":       host,
			"presenterID":  presenter,
			"members":      space.MembersSnapshot(),
			"whitelist":    space.WhitelistSnapshot(),
		}})
	})

	api.DELETE("/towns/:townID/spaces/:spaceID", func(c *gin.Context) {
		req := app.SpaceDisbandRequest{
			CoveyTownID:  c.Param("townID"),
			CoveySpaceID: c.Param("spaceID"),
		}
		c.JSON(http.StatusOK, app.SpaceDisbandHandler(towns, req))
	})

	api.GET("/ws/signal", func(c *gin.Context) {
		ctrl := signal.NewSignalWSController(towns, cfg)
		log.Info().Str("module", "adapters.http").Str("sid", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	return r
}
