package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Transactions"

var exportHeader = []string{"date", "category", "description", "amount", "budget_id"}

// ExportHandler writes the caller's transactions as CSV or XLSX.
type ExportHandler struct {
	Store store.Store
}

func NewExportHandler(s store.Store) *ExportHandler {
	return &ExportHandler{Store: s}
}

func exportRow(t models.Transaction) []string {
	desc := ""
	if t.Description != nil {
		desc = *t.Description
	}
	budget := ""
	if t.BudgetID != nil {
		budget = strconv.FormatInt(*t.BudgetID, 10)
	}
	return []string{t.Date, t.Category, desc, t.Amount.String(), budget}
}

func attachmentName(ext string) string {
	return fmt.Sprintf("attachment; filename=\"transactions_%s.%s\"", time.Now().Format("20060102"), ext)
}

func (h *ExportHandler) ExportCSV(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	txs, err := h.Store.ListTransactions(c.Request.Context(), uid)
	if err != nil {
		serverError(c, "Failed to load transactions", err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", attachmentName("csv"))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeader)
	for _, t := range txs {
		_ = w.Write(exportRow(t))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = c.Error(err)
	}
}

func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	txs, err := h.Store.ListTransactions(c.Request.Context(), uid)
	if err != nil {
		serverError(c, "Failed to load transactions", err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	// rename the default sheet instead of adding a second one
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		serverError(c, "Failed to build workbook", err)
		return
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		serverError(c, "Failed to build workbook", err)
		return
	}
	for i, t := range txs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		amount, _ := t.Amount.Float64()
		row := exportRow(t)
		values := []any{row[0], row[1], row[2], amount, row[4]}
		if t.BudgetID != nil {
			values[4] = *t.BudgetID
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			serverError(c, "Failed to build workbook", err)
			return
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", attachmentName("xlsx"))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
