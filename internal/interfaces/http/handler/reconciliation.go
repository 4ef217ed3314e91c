package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reconapp "github.com/openledger/backend/internal/application/reconciliation"
	"github.com/openledger/backend/internal/interfaces/http/dto"
)

// ReconciliationHandler handles payment reconciliation API endpoints
type ReconciliationHandler struct {
	BaseHandler
	service *reconapp.Service
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(service *reconapp.Service) *ReconciliationHandler {
	return &ReconciliationHandler{
		service: service,
	}
}

// Fetch godoc
//
//	@Summary		Fetch unreconciled entries
//	@Description	Returns the unreconciled payments and outstanding invoices for a party ledger
//	@Tags			reconciliation
//	@Accept			json
//	@Produce		json
//	@Param			request	body	reconapp.FetchRequest	true	"Ledger selection and filters"
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Router			/reconciliation/fetch [post]
func (h *ReconciliationHandler) Fetch(c *gin.Context) {
	var req reconapp.FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	resp, err := h.service.Fetch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reconcile godoc
//
//	@Summary		Reconcile payments against invoices
//	@Description	Applies the submitted allocations and returns the refreshed slates
//	@Tags			reconciliation
//	@Accept			json
//	@Produce		json
//	@Param			request	body	reconapp.ReconcileRequest	true	"Allocations to apply"
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		422	{object}	dto.Response
//	@Router			/reconciliation/reconcile [post]
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	var req reconapp.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	resp, err := h.service.Reconcile(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Difference godoc
//
//	@Summary		Preview the exchange difference of one allocation
//	@Description	Reports the difference amount an allocation row would produce without applying it
//	@Tags			reconciliation
//	@Accept			json
//	@Produce		json
//	@Param			request	body	reconapp.DifferenceRequest	true	"Allocation row to preview"
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Router			/reconciliation/difference [post]
func (h *ReconciliationHandler) Difference(c *gin.Context) {
	var req reconapp.DifferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	resp, err := h.service.Difference(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all reconciliation routes
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recon := rg.Group("/reconciliation")
	{
		recon.POST("/fetch", h.Fetch)
		recon.POST("/reconcile", h.Reconcile)
		recon.POST("/difference", h.Difference)
	}
}
