package catalog

import (
	"github.com/DhavalSuthar-24/profiles/internal/store"
	"github.com/gin-gonic/gin"
)

func RegisterCatalogRoutes(router *gin.RouterGroup, repo store.CatalogRepository) {
	ctrl := NewCatalogController(repo)

	router.GET("/interests", ctrl.ListInterests)
	router.GET("/skills", ctrl.ListSkills)
}
