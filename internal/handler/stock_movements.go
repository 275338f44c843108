package handler

import (
	"net/http"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/apierror"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockMovementsHandler struct{ svc service.StockService }

func NewStockMovementsHandler(svc service.StockService) *StockMovementsHandler {
	return &StockMovementsHandler{svc: svc}
}

// Create godoc
// @Summary Registrar movimiento de stock manual
// @Tags stock
// @Accept json
// @Produce json
// @Param body body dto.CreateMovementRequest true "Movimiento"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/stock-movements [post]
func (h *StockMovementsHandler) Create(c *gin.Context) {
	var req dto.CreateMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	movement, err := h.svc.RegisterMovement(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "movement": movement})
}

// List godoc
// @Summary Historial de movimientos con filtros
// @Tags stock
// @Produce json
// @Param product_id query string false "Filtrar por producto"
// @Param type query string false "INGRESO | EGRESO | AJUSTE"
// @Param from query string false "Fecha desde (YYYY-MM-DD)"
// @Param to query string false "Fecha hasta (YYYY-MM-DD)"
// @Param page query int false "Página" default(1)
// @Param limit query int false "Tamaño de página" default(50)
// @Success 200 {object} dto.MovementListResponse
// @Security BearerAuth
// @Router /api/stock-movements [get]
func (h *StockMovementsHandler) List(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parámetros inválidos: "+err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parámetros inválidos"))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockMovementsHandler) ListByProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	movements, err := h.svc.ListByProduct(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "movements": movements})
}

// CurrentStock returns the ledger-derived stock per product, the
// authoritative view used to spot drift in the cached column.
func (h *StockMovementsHandler) CurrentStock(c *gin.Context) {
	rows, err := h.svc.CurrentStock(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stock": rows})
}

func (h *StockMovementsHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}
