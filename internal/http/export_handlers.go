package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-tracker/internal/service"
)

func (h *Handler) createExport(c *gin.Context) {
	dr, err := service.ParseDayRange(c.Query("from"), c.Query("to"), h.view.Location)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	st, err := h.exports.Export(c.Request.Context(), currentUserID(c), dr)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, statementToResponse(*st))
}

func (h *Handler) listExports(c *gin.Context) {
	statements, err := h.exports.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	resp := make([]StatementResponse, len(statements))
	for i := range statements {
		resp[i] = statementToResponse(statements[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) purgeExports(c *gin.Context) {
	n, err := h.exports.Purge(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
