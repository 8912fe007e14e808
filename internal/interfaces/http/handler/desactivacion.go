package handler

import (
	"context"

	"github.com/erp/contable/internal/application/softdelete"
	"github.com/erp/contable/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Deactivator soft-deletes an entity once nothing references it
type Deactivator interface {
	Deactivate(ctx context.Context, kind softdelete.Kind, tenantID, id uuid.UUID) (*softdelete.DeactivationResult, error)
}

// deactivationKinds maps the collection segment of the URL to the entity kind
var deactivationKinds = map[string]softdelete.Kind{
	"centros-costo": softdelete.KindCentroCosto,
	"cuentas":       softdelete.KindCuenta,
	"proveedores":   softdelete.KindProveedor,
	"productos":     softdelete.KindProducto,
}

// DesactivacionHandler serves DELETE on the soft-deletable collections
type DesactivacionHandler struct {
	BaseHandler
	guard Deactivator
}

// NewDesactivacionHandler creates a new DesactivacionHandler
func NewDesactivacionHandler(guard Deactivator) *DesactivacionHandler {
	return &DesactivacionHandler{guard: guard}
}

// RegisterRoutes mounts DELETE /:kind/:id
func (h *DesactivacionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/:kind/:id", h.Deactivate)
}

// Deactivate godoc
// @ID           deactivateEntity
// @Summary      Deactivate an entity
// @Description  Flips activo to false. Refused while the entity has active children
// @Description  or is referenced by journal lines or purchase orders.
// @Tags         desactivacion
// @Produce      json
// @Param        kind path string true "Collection" Enums(centros-costo, cuentas, proveedores, productos)
// @Param        id path string true "Entity ID" format(uuid)
// @Success      200 {object} APIResponse[softdelete.DeactivationResult]
// @Failure      400 {object} ErrorResponse "still referenced or already inactive"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /{kind}/{id} [delete]
func (h *DesactivacionHandler) Deactivate(c *gin.Context) {
	kind, ok := deactivationKinds[c.Param("kind")]
	if !ok {
		h.Error(c, dto.ErrCodeNotFound, "Unknown collection "+c.Param("kind"))
		return
	}
	tenantID, id, ok := h.RequestScope(c, string(kind))
	if !ok {
		return
	}

	result, err := h.guard.Deactivate(c.Request.Context(), kind, tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
