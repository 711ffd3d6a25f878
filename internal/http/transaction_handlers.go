package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"finance-tracker/internal/service"
)

type createTransactionRequest struct {
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

type updateTransactionRequest struct {
	ID          string       `json:"id" binding:"required"`
	Amount      *json.Number `json:"amount"`
	Type        *string      `json:"type"`
	Description *string      `json:"description"`
}

type deleteTransactionRequest struct {
	ID string `json:"id" binding:"required"`
}

func (h *Handler) listTransactions(c *gin.Context) {
	dr, err := service.ParseDayRange(c.Query("from"), c.Query("to"), h.view.Location)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	txs, err := h.txs.List(c.Request.Context(), currentUserID(c), dr)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	resp := make([]TransactionResponse, len(txs))
	for i := range txs {
		resp[i] = transactionToResponse(txs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getTransaction(c *gin.Context) {
	tx, err := h.txs.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactionToResponse(*tx))
}

func (h *Handler) createTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, badRequest(err))
		return
	}

	tx, err := h.txs.Create(c.Request.Context(), currentUserID(c), service.CreateTransactionInput{
		Amount:      req.Amount.String(),
		Type:        req.Type,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transactionToResponse(*tx))
}

func (h *Handler) updateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, badRequest(err))
		return
	}

	in := service.UpdateTransactionInput{
		Type:        req.Type,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount := req.Amount.String()
		in.Amount = &amount
	}

	tx, err := h.txs.Update(c.Request.Context(), currentUserID(c), req.ID, in)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactionToResponse(*tx))
}

func (h *Handler) deleteTransaction(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		var req deleteTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.abortWithError(c, badRequest(err))
			return
		}
		id = req.ID
	}

	if err := h.txs.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted", "id": id})
}

func (h *Handler) dashboardSummary(c *gin.Context) {
	sum, err := h.summary.Summary(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.summaryToResponse(sum))
}
