package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// RegisterRoutes serves the interview form page and its assets
func RegisterRoutes(router *gin.Engine) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		panic("embedded web assets missing: " + err.Error())
	}

	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("embedded web assets missing: " + err.Error())
	}

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
	router.StaticFS("/static", http.FS(assets))
}
