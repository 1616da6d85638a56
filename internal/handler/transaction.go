package handler

import (
	"errors"
	"net/http"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves /transactions.
type TransactionHandler struct {
	Store store.Store
}

func NewTransactionHandler(s store.Store) *TransactionHandler {
	return &TransactionHandler{Store: s}
}

type createTransactionReq struct {
	BudgetID    *int64         `json:"budget_id"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Amount      *models.Amount `json:"amount"`
	Date        string         `json:"date"`
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	rows, err := h.Store.ListTransactions(c.Request.Context(), uid)
	if err != nil {
		serverError(c, "Failed to list transactions", err)
		return
	}
	util.JSON(c, http.StatusOK, rows)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTransactionReq
	if !bindJSON(c, &req) {
		return
	}
	if req.Category == "" || req.Amount == nil || req.Date == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msgMissingFields)
		return
	}
	if err := util.ValidateDate(req.Date); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Provide date as YYYY-MM-DD")
		return
	}

	in := models.TransactionInput{
		Category:    req.Category,
		Description: req.Description,
		Amount:      *req.Amount,
		Date:        req.Date,
	}
	if req.BudgetID != nil {
		in.BudgetID = *req.BudgetID
	}

	trx, err := h.Store.CreateTransaction(c.Request.Context(), uid, in)
	if err != nil {
		serverError(c, "Failed to create transaction", err)
		return
	}
	util.JSON(c, http.StatusCreated, trx)
}

// UpdateTransaction replaces only the fields present in the body.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Transaction not found")
		return
	}

	var patch models.TransactionPatch
	if !bindJSON(c, &patch) {
		return
	}
	if patch.Date != nil {
		if err := util.ValidateDate(*patch.Date); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Provide date as YYYY-MM-DD")
			return
		}
	}

	trx, err := h.Store.UpdateTransaction(c.Request.Context(), uid, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Transaction not found")
		return
	}
	if err != nil {
		serverError(c, "Failed to update transaction", err)
		return
	}
	util.JSON(c, http.StatusOK, trx)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Transaction not found")
		return
	}

	removed, err := h.Store.DeleteTransaction(c.Request.Context(), uid, id)
	if err != nil {
		serverError(c, "Failed to delete transaction", err)
		return
	}
	if !removed {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Transaction not found")
		return
	}
	util.JSON(c, http.StatusOK, gin.H{"success": true})
}
