package handler

import (
	"net/http"

	"finance-tracker/internal/report"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves /reports.
type ReportHandler struct {
	Store store.Store
}

func NewReportHandler(s store.Store) *ReportHandler {
	return &ReportHandler{Store: s}
}

// Summary returns category totals and budget utilisation for ?month=YYYY-MM.
func (h *ReportHandler) Summary(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	month := c.Query("month")
	if err := util.ValidateMonth(month); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Provide month as YYYY-MM")
		return
	}

	ctx := c.Request.Context()
	txs, err := h.Store.ListTransactions(ctx, uid)
	if err != nil {
		serverError(c, "Failed to load transactions", err)
		return
	}
	budgets, err := h.Store.ListBudgets(ctx, uid)
	if err != nil {
		serverError(c, "Failed to load budgets", err)
		return
	}

	util.JSON(c, http.StatusOK, report.Summarize(month, txs, budgets))
}
