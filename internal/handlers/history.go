package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"moegraph/internal/models"
	"moegraph/internal/services"
)

type HistoryHandler struct {
	ledger *services.HistoryLedger
}

func NewHistoryHandler(ledger *services.HistoryLedger) *HistoryHandler {
	return &HistoryHandler{ledger: ledger}
}

// Get 操作记录 (GET /api/history[?node_id=])，新的在前
func (h *HistoryHandler) Get(c *gin.Context) {
	var (
		entries []models.HistoryEntry
		err     error
	)

	if v := c.Query("node_id"); v != "" {
		nodeID, perr := strconv.ParseUint(v, 10, 32)
		if perr != nil {
			badRequest(c, "node_id 不合法")
			return
		}
		entries, err = h.ledger.RecentForNode(c.Request.Context(), uint(nodeID))
	} else {
		entries, err = h.ledger.Recent(c.Request.Context())
	}

	if err != nil {
		renderError(c, err)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}
