package catalog

import (
	"log/slog"
	"net/http"

	"github.com/DhavalSuthar-24/profiles/internal/store"
	"github.com/DhavalSuthar-24/profiles/pkg/logger"
	"github.com/DhavalSuthar-24/profiles/pkg/responses"
	"github.com/gin-gonic/gin"
)

// CatalogController serves the shared interest and skill lists.
type CatalogController struct {
	repo store.CatalogRepository
}

func NewCatalogController(repo store.CatalogRepository) *CatalogController {
	return &CatalogController{repo: repo}
}

// ListInterests godoc
// @Summary List interests
// @Description Every interest known to the catalog, ordered by name
// @Tags catalog
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]models.Interest} "Interests"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /interests [get]
func (ctrl *CatalogController) ListInterests(c *gin.Context) {
	interests, err := ctrl.repo.ListInterests(c.Request.Context())
	if err != nil {
		logger.From(c.Request.Context()).Error("list interests", slog.String("error", err.Error()))
		responses.InternalServerError(c)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Interests retrieved successfully", interests)
}

// ListSkills godoc
// @Summary List skills
// @Description Every skill known to the catalog, ordered by name
// @Tags catalog
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]models.Skill} "Skills"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /skills [get]
func (ctrl *CatalogController) ListSkills(c *gin.Context) {
	skills, err := ctrl.repo.ListSkills(c.Request.Context())
	if err != nil {
		logger.From(c.Request.Context()).Error("list skills", slog.String("error", err.Error()))
		responses.InternalServerError(c)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Skills retrieved successfully", skills)
}
