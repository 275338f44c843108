package handler

import (
	"net/http"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/apierror"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct {
	svc        service.SaleService
	reportSvc  service.ReportService
	receiptSvc service.ReceiptService
}

func NewSalesHandler(svc service.SaleService, reportSvc service.ReportService, receiptSvc service.ReceiptService) *SalesHandler {
	return &SalesHandler{svc: svc, reportSvc: reportSvc, receiptSvc: receiptSvc}
}

// Create godoc
// @Summary Registrar venta
// @Description Valida el carrito, descuenta stock y registra la venta en una única transacción.
// @Tags sales
// @Accept json
// @Produce json
// @Param body body dto.CreateSaleRequest true "Carrito"
// @Success 201 {object} dto.CreateSaleResponse
// @Failure 400 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.CreateSale(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateSaleResponse{
		Success: true,
		Message: "Venta registrada correctamente",
		Sale:    *sale,
	})
}

func (h *SalesHandler) List(c *gin.Context) {
	sales, err := h.svc.ListSales(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaleListResponse{Success: true, Sales: sales})
}

func (h *SalesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	sale, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sale": sale})
}

func (h *SalesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.DeleteSale(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Venta eliminada"})
}

func (h *SalesHandler) Clear(c *gin.Context) {
	if err := h.svc.ClearSales(c.Request.Context()); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Historial de ventas vaciado"})
}

// Receipt godoc
// @Summary Descargar ticket PDF de una venta
// @Tags sales
// @Produce application/pdf
// @Param id path string true "ID de la venta"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /api/sales/{id}/receipt [get]
func (h *SalesHandler) Receipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	path, err := h.receiptSvc.Generate(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.FileAttachment(path, "ticket_"+id.String()+".pdf")
}

// ReportSummary godoc
// @Summary Resumen de ventas por período
// @Tags sales
// @Produce json
// @Param period query string false "today | week | month | all" default(today)
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/sales/reports/summary [get]
func (h *SalesHandler) ReportSummary(c *gin.Context) {
	period := c.DefaultQuery("period", "today")
	report, err := h.reportSvc.Summary(c.Request.Context(), period)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReportResponse{Success: true, Report: *report})
}
