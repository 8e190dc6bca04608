// controllers/report.go
package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"stylemanager-backend/config"
	"stylemanager-backend/export"
	"stylemanager-backend/models"
	"stylemanager-backend/services"
	"stylemanager-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportController handles the transaction report and its exports
type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// load reads the filter from the query and returns the matching list.
func (rc *ReportController) load(c *gin.Context) (services.Filter, []models.Transaction, bool) {
	filter, err := services.ParseFilter(c.Query("employee_id"), c.Query("start_date"), c.Query("end_date"), config.App.Location)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return filter, nil, false
	}

	txs, err := rc.reports.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Error loading transactions: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar transações")
		return filter, nil, false
	}
	return filter, txs, true
}

// GetTransactions returns the filtered list with its totals
func (rc *ReportController) GetTransactions(c *gin.Context) {
	_, txs, ok := rc.load(c)
	if !ok {
		return
	}
	totals := services.Totals(txs)

	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"totals":       totals,
		"formatted": gin.H{
			"revenue": utils.FormatCurrency(totals.Revenue),
			"payout":  utils.FormatCurrency(totals.Payout),
			"company": utils.FormatCurrency(totals.Company),
		},
	})
}

func (rc *ReportController) DeleteTransaction(c *gin.Context) {
	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de transação inválido")
		return
	}
	if !utils.RequireConfirmation(c, "Tem certeza que deseja excluir esta transação?") {
		return
	}

	if err := rc.reports.Delete(c.Request.Context(), txID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Transação não encontrada")
		} else {
			log.Printf("Error deleting transaction %s: %v", txID, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao excluir transação")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transação excluída com sucesso"})
}

func sendWorkbook(c *gin.Context, filename string, sheets []export.Sheet) {
	data, err := export.Workbook(sheets)
	if err != nil {
		log.Printf("Error writing %s: %v", filename, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao gerar planilha")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentTypeXLSX, data)
}

// ExportPayroll downloads the per-stylist payment workbook
func (rc *ReportController) ExportPayroll(c *gin.Context) {
	filter, txs, ok := rc.load(c)
	if !ok {
		return
	}

	filterName := ""
	if filter.EmployeeID != nil {
		var employee models.Employee
		if err := config.DB.First(&employee, "id = ?", *filter.EmployeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Funcionário não encontrado")
			} else {
				log.Printf("Error loading employee %s: %v", *filter.EmployeeID, err)
				utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao gerar planilha")
			}
			return
		}
		filterName = employee.Name
	} else if len(txs) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Não há dados para exportar.")
		return
	}

	sendWorkbook(c, export.PayrollFilename, export.Payroll(txs, filterName, config.App.Location))
}

// ExportBalance downloads the general balance workbook
func (rc *ReportController) ExportBalance(c *gin.Context) {
	_, txs, ok := rc.load(c)
	if !ok {
		return
	}
	sendWorkbook(c, export.BalanceFilename, []export.Sheet{export.Balance(txs, config.App.Location)})
}

// CopyReport returns the list as tab separated text
func (rc *ReportController) CopyReport(c *gin.Context) {
	_, txs, ok := rc.load(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/tab-separated-values; charset=utf-8", []byte(export.CopyText(txs, config.App.Location)))
}
