package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"maxloyalty.com/backoffice/console"
	"maxloyalty.com/backoffice/permissions"
	"maxloyalty.com/backoffice/store"
	"maxloyalty.com/backoffice/utils"
	web "maxloyalty.com/backoffice/web/common"
)

// PermissionsEndpoint serves the route tree of one user with its grants.
// Grants are stored as permisos rows, one per user and route.
type PermissionsEndpoint struct {
	store  store.Store[console.Permission]
	routes []permissions.Route
	log    *slog.Logger
}

func RegisterPermissions(r *gin.RouterGroup, s store.Store[console.Permission], routes []permissions.Route, log *slog.Logger) {
	endpoint := &PermissionsEndpoint{store: s, routes: routes, log: log}
	r.GET("/permisos/usuario/:userId", endpoint.Load)
	r.PUT("/permisos/usuario/:userId", endpoint.Save)
}

func (this *PermissionsEndpoint) userID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("userId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Usuario inválido"))
		return 0, false
	}
	return id, true
}

// grants returns the stored rows of a user keyed by route id.
func (this *PermissionsEndpoint) grants(ctx context.Context, userID int) (map[int]console.Permission, error) {
	rows, _, err := this.store.List(ctx, store.Query{})
	if err != nil {
		return nil, err
	}
	out := map[int]console.Permission{}
	for _, row := range utils.Filter(rows, func(p console.Permission) bool { return p.UsuarioID == userID }) {
		out[row.RutaID] = row
	}
	return out, nil
}

func (this *PermissionsEndpoint) tree(ctx context.Context, userID int) ([]permissions.Route, error) {
	rows, err := this.grants(ctx, userID)
	if err != nil {
		return nil, err
	}
	routes := make([]permissions.Route, len(this.routes))
	for i, r := range this.routes {
		r.Permitted = rows[r.ID].Permitido
		routes[i] = r
	}
	return routes, nil
}

func (this *PermissionsEndpoint) Load(c *gin.Context) {
	userID, ok := this.userID(c)
	if !ok {
		return
	}
	routes, err := this.tree(c.Request.Context(), userID)
	if err != nil {
		this.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(routes))
}

// Save applies a bulk update. The resulting set must keep every granted
// child under a granted parent. Rows are written one by one; a failure
// part way leaves the earlier rows written.
func (this *PermissionsEndpoint) Save(c *gin.Context) {
	userID, ok := this.userID(c)
	if !ok {
		return
	}
	var grants []permissions.Grant
	if err := c.ShouldBindJSON(&grants); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	ctx := c.Request.Context()
	rows, err := this.grants(ctx, userID)
	if err != nil {
		this.fail(c, err)
		return
	}
	if err := this.check(rows, grants); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}

	for _, g := range grants {
		row, exists := rows[g.RouteID]
		if exists && row.Permitido == g.Permitted {
			continue
		}
		if exists {
			row.Permitido = g.Permitted
			_, err = this.store.Update(ctx, row)
		} else {
			_, err = this.store.Create(ctx, console.Permission{
				UsuarioID:  userID,
				RutaID:     g.RouteID,
				RutaNombre: this.route(g.RouteID).Name,
				Permitido:  g.Permitted,
			})
		}
		if err != nil {
			this.fail(c, err)
			return
		}
	}
	this.log.InfoContext(ctx, "permissions saved", "user", userID, "grants", len(grants))

	routes, err := this.tree(ctx, userID)
	if err != nil {
		this.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(routes))
}

func (this *PermissionsEndpoint) route(id int) *permissions.Route {
	for i := range this.routes {
		if this.routes[i].ID == id {
			return &this.routes[i]
		}
	}
	return nil
}

func (this *PermissionsEndpoint) check(rows map[int]console.Permission, grants []permissions.Grant) error {
	permitted := map[int]bool{}
	for id, row := range rows {
		permitted[id] = row.Permitido
	}
	for _, g := range grants {
		r := this.route(g.RouteID)
		if r == nil {
			return fmt.Errorf("Ruta %d desconocida: %w", g.RouteID, permissions.ErrUnknownRoute)
		}
		permitted[g.RouteID] = g.Permitted
	}
	for _, r := range this.routes {
		if r.ParentID == nil || !permitted[r.ID] {
			continue
		}
		parent := this.route(*r.ParentID)
		if parent != nil && !permitted[parent.ID] {
			return fmt.Errorf("La ruta %s requiere %s: %w", r.Name, parent.Name, permissions.ErrParentDisabled)
		}
	}
	return nil
}

func (this *PermissionsEndpoint) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	this.log.ErrorContext(c.Request.Context(), "permissions", "error", err)
	c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
}
