package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/handler"
)

// RegisterSales registers /transaction. Recording a sale changes game
// status, so writes also clear the catalog cache.
func RegisterSales(e *echo.Echo, t *handler.TransactionHandler, g Guards) {
	grp := e.Group("/transaction")
	grp.POST("", t.Create, g.writes()...)
	grp.POST("/bulk", t.CreateBulk, g.writes()...)
	grp.GET("", t.List, g.auth())
	grp.GET("/by-session/:sessionId", t.BySession)
	grp.GET("/client/:clientId", t.ByClient)
	grp.GET("/seller/:sellerId", t.BySeller)
	grp.GET("/:id", t.Get)
	grp.PUT("/:id", t.Update, g.writes()...)
	grp.DELETE("/:id", t.Delete, g.writes()...)
}
