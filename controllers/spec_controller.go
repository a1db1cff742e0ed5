package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"speckeeper/internal/spec"
	"speckeeper/services"
)

// ErrorResponse is the error body every handler returns on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

type SpecController struct {
	manager *services.SpecManager
}

/**
 * Create new spec controller instance
 * @param {*services.SpecManager} manager - Spec manager backing the API
 * @returns {*SpecController} New spec controller instance
 */
func NewSpecController(manager *services.SpecManager) *SpecController {
	return &SpecController{
		manager: manager,
	}
}

/**
 * Register all spec API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers routes for:
 *   - Spec management (list/get/load/unload)
 *   - Desired state (up/down)
 * @example
 * router := gin.Default()
 * controller := NewSpecController(services.GetSpecManager())
 * controller.RegisterRoutes(router)
 */
func (sc *SpecController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/speckeeper/api/v1")
	api.GET("/specs", sc.ListSpecs)
	api.GET("/specs/:name", sc.GetSpec)
	api.POST("/specs", sc.LoadSpec)
	api.DELETE("/specs/:name", sc.UnloadSpec)
	api.POST("/specs/:name/up", sc.SpecUp)
	api.POST("/specs/:name/down", sc.SpecDown)
}

// ListSpecs lists every loaded service spec
//
//	@Summary		List all specs
//	@Description	Get every loaded service spec, sorted by package name
//	@Tags			Specs
//	@Accept			json
//	@Produce		json
//	@Success		200	{array}		spec.ServiceSpec	"Loaded specs"
//	@Router			/speckeeper/api/v1/specs [get]
func (sc *SpecController) ListSpecs(c *gin.Context) {
	c.JSON(200, sc.manager.Specs())
}

// GetSpec returns one spec by package name
//
//	@Summary		Get spec
//	@Description	Get the loaded spec for a package name
//	@Tags			Specs
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string				true	"Package name"
//	@Success		200		{object}	spec.ServiceSpec	"Loaded spec"
//	@Failure		404		{object}	ErrorResponse		"No spec for that name"
//	@Router			/speckeeper/api/v1/specs/{name} [get]
func (sc *SpecController) GetSpec(c *gin.Context) {
	name := c.Param("name")
	s, ok := sc.manager.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no spec loaded for " + name})
		return
	}
	c.JSON(200, s)
}

// LoadSpec applies a load request
//
//	@Summary		Load or update a spec
//	@Description	Apply a partial-update load request; composite targets expand into member specs
//	@Tags			Specs
//	@Accept			json
//	@Produce		json
//	@Param			request	body		spec.LoadRequest	true	"Load request"
//	@Success		200		{object}	map[string]interface{}	"Load result"
//	@Failure		400		{object}	ErrorResponse	"Malformed request or bind contract violation"
//	@Failure		500		{object}	ErrorResponse	"Persistence failure"
//	@Router			/speckeeper/api/v1/specs [post]
func (sc *SpecController) LoadSpec(c *gin.Context) {
	var req spec.LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	result, err := sc.manager.Load(&req)
	if err != nil {
		c.JSON(loadErrorStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	switch loaded := result.(type) {
	case spec.ServiceOnly:
		c.JSON(200, gin.H{"spec": loaded.Service})
	case spec.Composite:
		c.JSON(200, gin.H{"composite": loaded.Descriptor, "members": loaded.Members})
	}
}

// Bind contract and request shape problems are the caller's to fix;
// everything else is on us.
func loadErrorStatus(err error) int {
	var missing *spec.MissingRequiredBindError
	var invalid *spec.InvalidBindsError
	var binding *spec.InvalidBindingError
	switch {
	case errors.Is(err, spec.ErrMissingRequiredIdent),
		errors.As(err, &missing),
		errors.As(err, &invalid),
		errors.As(err, &binding):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// UnloadSpec removes a spec (or a whole composite) by name
//
//	@Summary		Unload spec
//	@Description	Remove the spec file for a package name; composite names remove the descriptor and every member
//	@Tags			Specs
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string	true	"Package or composite name"
//	@Success		200		{object}	map[string]interface{}	"Unload success response"
//	@Failure		404		{object}	ErrorResponse	"No spec for that name"
//	@Router			/speckeeper/api/v1/specs/{name} [delete]
func (sc *SpecController) UnloadSpec(c *gin.Context) {
	name := c.Param("name")
	if err := sc.manager.Unload(name); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "spec unloaded", "name": name})
}

// SpecUp sets a spec's desired state to up
//
//	@Summary		Set desired state up
//	@Tags			Specs
//	@Produce		json
//	@Param			name	path		string	true	"Package name"
//	@Success		200		{object}	map[string]interface{}	"State change response"
//	@Failure		404		{object}	ErrorResponse	"No spec for that name"
//	@Router			/speckeeper/api/v1/specs/{name}/up [post]
func (sc *SpecController) SpecUp(c *gin.Context) {
	sc.setDesiredState(c, spec.DesiredUp)
}

// SpecDown sets a spec's desired state to down
//
//	@Summary		Set desired state down
//	@Tags			Specs
//	@Produce		json
//	@Param			name	path		string	true	"Package name"
//	@Success		200		{object}	map[string]interface{}	"State change response"
//	@Failure		404		{object}	ErrorResponse	"No spec for that name"
//	@Router			/speckeeper/api/v1/specs/{name}/down [post]
func (sc *SpecController) SpecDown(c *gin.Context) {
	sc.setDesiredState(c, spec.DesiredDown)
}

func (sc *SpecController) setDesiredState(c *gin.Context, state spec.DesiredState) {
	name := c.Param("name")
	if err := sc.manager.SetDesiredState(name, state); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(200, gin.H{"name": name, "desired_state": state})
}
