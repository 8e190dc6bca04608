package controllers

import (
	"log"
	"net/http"
	"sort"
	"time"

	"stylemanager-backend/commission"
	"stylemanager-backend/config"
	"stylemanager-backend/models"
	"stylemanager-backend/services"
	"stylemanager-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DashboardOverview struct {
	Today       commission.Totals    `json:"today"`
	Month       commission.Totals    `json:"month"`
	TopStylists []StylistSummary     `json:"top_stylists"`
	Recent      []models.Transaction `json:"recent"`
	LastClosing *models.DailyClosing `json:"last_closing"`
}

type StylistSummary struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Payout  decimal.Decimal `json:"payout"`
}

// GetDashboardOverview summarizes today and the current month.
func GetDashboardOverview(c *gin.Context) {
	ctx := c.Request.Context()
	loc := config.App.Location
	now := time.Now().In(loc)
	reports := services.NewReportService(config.DB)

	var overview DashboardOverview

	today, err := reports.List(ctx, services.DayFilter(now))
	if err != nil {
		log.Printf("Error loading today's transactions: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar painel")
		return
	}
	overview.Today = services.Totals(today)

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)
	month, err := reports.List(ctx, services.Filter{From: &firstOfMonth, To: &lastOfMonth})
	if err != nil {
		log.Printf("Error loading month transactions: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar painel")
		return
	}
	overview.Month = services.Totals(month)
	overview.TopStylists = topStylists(month, 4)

	if len(month) > 5 {
		overview.Recent = month[:5]
	} else {
		overview.Recent = month
	}

	var last models.DailyClosing
	if err := config.DB.Order("day DESC").Limit(1).Find(&last).Error; err == nil && last.Day != "" {
		overview.LastClosing = &last
	}

	c.JSON(http.StatusOK, overview)
}

// topStylists ranks stylists by revenue in a loaded list.
func topStylists(txs []models.Transaction, limit int) []StylistSummary {
	index := make(map[string]int)
	var out []StylistSummary
	for _, tx := range txs {
		key := tx.EmployeeID.String()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, StylistSummary{Name: tx.Employee.Name})
		}
		out[i].Count++
		out[i].Revenue = out[i].Revenue.Add(tx.TotalAmount)
		out[i].Payout = out[i].Payout.Add(tx.EmployeeAmount)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
