package handler

import (
	"errors"
	"net/http"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// BudgetHandler serves /budgets.
type BudgetHandler struct {
	Store store.Store
}

func NewBudgetHandler(s store.Store) *BudgetHandler {
	return &BudgetHandler{Store: s}
}

type createBudgetReq struct {
	Name      string         `json:"name"`
	Category  string         `json:"category"`
	Amount    *models.Amount `json:"amount"`
	Period    string         `json:"period"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
}

func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	rows, err := h.Store.ListBudgets(c.Request.Context(), uid)
	if err != nil {
		serverError(c, "Failed to list budgets", err)
		return
	}
	util.JSON(c, http.StatusOK, rows)
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	var req createBudgetReq
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == "" || req.Category == "" || req.Amount == nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msgMissingFields)
		return
	}

	budget, err := h.Store.CreateBudget(c.Request.Context(), uid, models.BudgetInput{
		Name:      req.Name,
		Category:  req.Category,
		Amount:    *req.Amount,
		Period:    req.Period,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		serverError(c, "Failed to create budget", err)
		return
	}
	util.JSON(c, http.StatusCreated, budget)
}

// UpdateBudget replaces only the fields present in the body.
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Budget not found")
		return
	}

	var patch models.BudgetPatch
	if !bindJSON(c, &patch) {
		return
	}

	budget, err := h.Store.UpdateBudget(c.Request.Context(), uid, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Budget not found")
		return
	}
	if err != nil {
		serverError(c, "Failed to update budget", err)
		return
	}
	util.JSON(c, http.StatusOK, budget)
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Budget not found")
		return
	}

	removed, err := h.Store.DeleteBudget(c.Request.Context(), uid, id)
	if err != nil {
		serverError(c, "Failed to delete budget", err)
		return
	}
	if !removed {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Budget not found")
		return
	}
	util.JSON(c, http.StatusOK, gin.H{"success": true})
}
