package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/handler"
)

// CatalogHandlers are the handlers behind the deposited-game and reference
// data routes.
type CatalogHandlers struct {
	Games            *handler.DepositedGameHandler
	Sessions         *handler.SessionHandler
	Sellers          *handler.SellerHandler
	Clients          *handler.ClientHandler
	GameDescriptions *handler.GameDescriptionHandler
}

// crud is satisfied by every reference data handler.
type crud interface {
	Create(echo.Context) error
	List(echo.Context) error
	Get(echo.Context) error
	Update(echo.Context) error
	Delete(echo.Context) error
}

// RegisterCatalog registers deposited games and the reference data. Reads
// are public, writes need a token.
func RegisterCatalog(e *echo.Echo, h CatalogHandlers, g Guards) {
	dg := e.Group("/deposited-game")
	dg.POST("", h.Games.Create, g.writes()...)
	dg.POST("/current-session", h.Games.CreateInCurrentSession, g.writes()...)
	dg.GET("", h.Games.List, g.cached()...)
	dg.GET("/:id", h.Games.Get, g.cached()...)
	dg.GET("/seller/:sellerId", h.Games.BySeller, g.cached()...)
	dg.GET("/session/:sessionId", h.Games.BySession, g.cached()...)
	dg.GET("/seller/:sellerId/session/:sessionId", h.Games.BySellerAndSession, g.cached()...)
	dg.PUT("/:id", h.Games.Update, g.writes()...)
	dg.DELETE("/:id", h.Games.Delete, g.writes()...)
	dg.PUT("/:id/for-sale", h.Games.SetForSale, g.writes()...)
	dg.PUT("/:id/remove-from-sale", h.Games.RemoveFromSale, g.writes()...)
	dg.PUT("/:id/picked-up", h.Games.MarkPickedUp, g.writes()...)

	// static paths before the CRUD params
	e.GET("/session/open", h.Sessions.Open)
	e.GET("/session/:id/is-open", h.Sessions.IsOpen)
	registerCRUD(e, "/session", h.Sessions, g, true)
	registerCRUD(e, "/game-description", h.GameDescriptions, g, true)
	// balances and contact details are not cached
	registerCRUD(e, "/seller", h.Sellers, g, false)
	registerCRUD(e, "/client", h.Clients, g, false)
}

func registerCRUD(e *echo.Echo, prefix string, h crud, g Guards, cache bool) {
	grp := e.Group(prefix)
	var reads []echo.MiddlewareFunc
	if cache {
		reads = g.cached()
	}
	grp.POST("", h.Create, g.writes()...)
	grp.GET("", h.List, reads...)
	grp.GET("/:id", h.Get, reads...)
	grp.PUT("/:id", h.Update, g.writes()...)
	grp.DELETE("/:id", h.Delete, g.writes()...)
}
