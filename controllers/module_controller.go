package controllers

import (
	"errors"
	"io"
	"net/http"

	"module-keeper/internal/direct"
	"module-keeper/internal/logger"
	"module-keeper/internal/models"
	"module-keeper/services"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	server *services.Server
	router *direct.Router
}

/**
 * Create new Module controller instance
 * @param {*services.Server} server - Server owning the current module manager
 * @returns {*ModuleController} New Module controller with all module actions registered
 * @example
 * server := services.NewServer(&cfg, services.OpenModuleManager(&cfg))
 * controller := controllers.NewModuleController(server)
 */
func NewModuleController(server *services.Server) *ModuleController {
	c := &ModuleController{
		server: server,
		router: direct.NewRouter(),
	}
	c.registerActions()
	return c
}

func (c *ModuleController) registerActions() {
	mm := c.server.Modules
	direct.Register(c.router, "getInstalledModules", func(models.EmptyParams) ([]models.ModuleSummary, error) {
		return mm().ListInstalledSummaries()
	})
	direct.Register(c.router, "getAvailableModules", func(models.EmptyParams) ([]models.ModuleSummary, error) {
		return mm().ListAvailableSummaries()
	})
	direct.Register(c.router, "getModuleDetails", func(p models.ModuleParams) (*models.ModuleDetail, error) {
		return mm().ResolvePackageDetail(p.ID)
	})
	direct.Register(c.router, "require", func(p models.TargetParams) (models.RequestResponse, error) {
		return mm().BuildRequireRequest(p.ID, p.URL)
	})
	direct.Register(c.router, "remove", func(p models.TargetParams) (models.RequestResponse, error) {
		return mm().BuildRemoveRequest(p.ID, p.URL), nil
	})
	direct.Register(c.router, "check", func(p models.ModuleParams) (models.CheckResponse, error) {
		return mm().BuildCheckResponse(p.ID), nil
	})
}

/**
 * Register module action routes to a Gin router group
 * @param {*gin.RouterGroup} r - Group the routes are mounted on, may carry auth middleware
 * @description
 * - GET  /backend/module/api/v1/actions          lists action names
 * - POST /backend/module/api/v1/actions/:action  runs an action with the JSON body as params
 */
func (c *ModuleController) RegisterRoutes(r gin.IRoutes) {
	r.GET(models.ActionsPath, c.ListActions)
	r.POST(models.ActionsPath+"/:action", c.CallAction)
}

// @Summary 列出模块动作
// @Tags Modules
// @Produce json
// @Success 200 {array} string
// @Router /backend/module/api/v1/actions [get]
func (c *ModuleController) ListActions(g *gin.Context) {
	g.JSON(http.StatusOK, c.router.Actions())
}

// @Summary 执行模块动作
// @Description getInstalledModules, getAvailableModules, getModuleDetails, require, remove, check
// @Tags Modules
// @Accept json
// @Produce json
// @Param action path string true "动作名称"
// @Success 200 {object} interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /backend/module/api/v1/actions/{action} [post]
func (c *ModuleController) CallAction(g *gin.Context) {
	action := g.Param("action")
	body, err := io.ReadAll(g.Request.Body)
	if err != nil {
		services.RecordAction(action, "params.invalid")
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{
			Code:  "params.invalid",
			Error: err.Error(),
		})
		return
	}

	result, err := c.router.Dispatch(action, body)
	switch {
	case err == nil:
		services.RecordAction(action, "ok")
		g.JSON(http.StatusOK, result)
	case errors.Is(err, direct.ErrActionNotFound):
		services.RecordAction(action, "action.not_found")
		g.JSON(http.StatusNotFound, &models.ErrorResponse{
			Code:  "action.not_found",
			Error: err.Error(),
		})
	case errors.Is(err, direct.ErrInvalidParams):
		services.RecordAction(action, "params.invalid")
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{
			Code:  "params.invalid",
			Error: err.Error(),
		})
	default:
		logger.Errorf("Action '%s' failed: %v", action, err)
		services.RecordAction(action, "module.repository_failed")
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{
			Code:  "module.repository_failed",
			Error: err.Error(),
		})
	}
}
