package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stylemanager-backend/config"
	"stylemanager-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const ownerEmail = "dona@salao.com"

func setupTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prevApp, prevCache, prevDB := config.App, config.AppCache, config.DB
	if err := config.ConnectDB(config.DBConfig{Driver: "sqlite", URL: "file::memory:"}); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := models.AutoMigrate(config.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db := config.DB

	config.App = config.Config{
		CORSOrigins: []string{"http://localhost:3000"},
		DB:          config.DBConfig{Driver: "sqlite", URL: "file::memory:"},
		Auth: config.AuthConfig{
			JWTSecret:           "test-secret",
			ExpiryHours:         1,
			BootstrapAdminEmail: ownerEmail,
		},
		Location:     time.UTC,
		AuthRateSpec: "1000-M",
	}
	config.AppCache = config.NewCache(nil)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		config.App, config.AppCache, config.DB = prevApp, prevCache, prevDB
	})
	return SetupRouter(config.App, nil)
}

func doJSON(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

type authResp struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func register(t *testing.T, r http.Handler, email string) authResp {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/auth/register", "", gin.H{"email": email, "password": "segredo1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d %s", email, w.Code, w.Body.String())
	}
	var resp authResp
	decode(t, w, &resp)
	return resp
}

type idResp struct {
	ID string `json:"id"`
}

func create(t *testing.T, r http.Handler, token, path string, body interface{}) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, path, token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST %s: status %d %s", path, w.Code, w.Body.String())
	}
	var resp idResp
	decode(t, w, &resp)
	return resp.ID
}

type formState struct {
	CommissionPercentage string  `json:"commission_percentage"`
	TotalAmount          string  `json:"total_amount"`
	ServiceName          string  `json:"service_name"`
	ServiceID            *string `json:"service_id"`
	EmployeeID           *string `json:"employee_id"`
	CanSubmit            bool    `json:"can_submit"`
	Preview              *struct {
		EmployeeAmount decimal.Decimal `json:"employee_amount"`
		CompanyAmount  decimal.Decimal `json:"company_amount"`
	} `json:"preview"`
}

type reportResp struct {
	Transactions []struct {
		ID       string `json:"id"`
		Employee struct {
			Name string `json:"name"`
		} `json:"employee"`
	} `json:"transactions"`
	Totals struct {
		Count   int             `json:"count"`
		Revenue decimal.Decimal `json:"revenue"`
		Payout  decimal.Decimal `json:"payout"`
		Company decimal.Decimal `json:"company"`
	} `json:"totals"`
}

func TestSetupModeAnswersEveryRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupModeRouter(config.Config{})
	for _, path := range []string{"/health", "/auth/login", "/api/employees"} {
		w := doJSON(r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "Configuração Ausente") {
			t.Fatalf("%s: status %d %s", path, w.Code, w.Body.String())
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupTestApp(t)

	owner := register(t, r, ownerEmail)
	if owner.User.Role != "admin" {
		t.Fatalf("bootstrap email got role %q", owner.User.Role)
	}
	staff := register(t, r, "Recepcao@Salao.com")
	if staff.User.Role != "user" {
		t.Fatalf("new user got role %q", staff.User.Role)
	}

	w := doJSON(r, http.MethodPost, "/auth/register", "", gin.H{"email": "recepcao@salao.com", "password": "segredo1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status %d", w.Code)
	}
	w = doJSON(r, http.MethodPost, "/auth/register", "", gin.H{"email": "novo@salao.com", "password": "123"})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "pelo menos 6") {
		t.Fatalf("short password: status %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/auth/login", "", gin.H{"email": ownerEmail, "password": "errada"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad credentials: status %d", w.Code)
	}
	w = doJSON(r, http.MethodPost, "/auth/login", "", gin.H{"email": "recepcao@salao.com", "password": "segredo1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d %s", w.Code, w.Body.String())
	}
	var login authResp
	decode(t, w, &login)

	w = doJSON(r, http.MethodGet, "/auth/me", login.Token, nil)
	var me struct {
		Role         string   `json:"role"`
		AllowedViews []string `json:"allowed_views"`
	}
	decode(t, w, &me)
	if me.Role != "user" || len(me.AllowedViews) != 2 {
		t.Fatalf("me = %+v", me)
	}
}

func TestUserRoleIsGated(t *testing.T) {
	r := setupTestApp(t)
	register(t, r, ownerEmail)
	user := register(t, r, "estilista@salao.com")

	if w := doJSON(r, http.MethodGet, "/api/employees", user.Token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("user on employees: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/reports/transactions", user.Token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("user on reports: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/services", user.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("user on services: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/api/services", user.Token, gin.H{"name": "Corte", "commission_percentage": 50}); w.Code != http.StatusForbidden {
		t.Fatalf("user creating service: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/dailylog/options", user.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("user on daily log: status %d", w.Code)
	}

	w := doJSON(r, http.MethodGet, "/api/views/reports", user.Token, nil)
	var d struct {
		View     string `json:"view"`
		FellBack bool   `json:"fell_back"`
	}
	decode(t, w, &d)
	if d.View != "dailyLog" || !d.FellBack {
		t.Fatalf("navigation = %+v", d)
	}

	if w := doJSON(r, http.MethodGet, "/api/employees", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous on employees: status %d", w.Code)
	}
}

func TestDailyLogToReport(t *testing.T) {
	r := setupTestApp(t)
	admin := register(t, r, ownerEmail).Token

	anaID := create(t, r, admin, "/api/employees", gin.H{"name": "Ana", "commission_percentage": 40})
	brunoID := create(t, r, admin, "/api/employees", gin.H{"name": "Bruno", "commission_percentage": "35"})
	corteID := create(t, r, admin, "/api/services", gin.H{"name": "Corte", "commission_percentage": 50})

	preview := func(body gin.H) formState {
		t.Helper()
		w := doJSON(r, http.MethodPost, "/api/dailylog/preview", admin, body)
		if w.Code != http.StatusOK {
			t.Fatalf("preview: status %d %s", w.Code, w.Body.String())
		}
		var st formState
		decode(t, w, &st)
		return st
	}

	st := preview(gin.H{"employee_id": anaID, "total_amount": 100})
	if st.CommissionPercentage != "40" || st.Preview == nil ||
		!st.Preview.EmployeeAmount.Equal(decimal.NewFromInt(40)) || !st.Preview.CompanyAmount.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("employee default preview = %+v", st)
	}
	if st.CanSubmit {
		t.Fatalf("submittable without a service name")
	}

	st = preview(gin.H{"employee_id": anaID, "service_id": corteID, "total_amount": "100"})
	if st.CommissionPercentage != "50" || !st.Preview.EmployeeAmount.Equal(decimal.NewFromInt(50)) || !st.CanSubmit {
		t.Fatalf("service preview = %+v", st)
	}

	st = preview(gin.H{"employee_id": anaID, "service_id": corteID, "commission_percentage": 30, "total_amount": "100,00"})
	if st.CommissionPercentage != "30" || !st.Preview.EmployeeAmount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("manual rate preview = %+v", st)
	}

	w := doJSON(r, http.MethodPost, "/api/dailylog", admin, gin.H{"employee_id": anaID, "total_amount": 100})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("incomplete entry: status %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/api/dailylog", admin, gin.H{
		"date": "2024-05-10", "employee_id": anaID, "service_id": corteID, "total_amount": 100,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create entry: status %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Form formState `json:"form"`
	}
	decode(t, w, &created)
	if created.Form.TotalAmount != "" || created.Form.ServiceID != nil || created.Form.EmployeeID == nil ||
		created.Form.CommissionPercentage != "40" {
		t.Fatalf("form after submit = %+v", created.Form)
	}

	w = doJSON(r, http.MethodPost, "/api/dailylog", admin, gin.H{
		"date": "2024-05-11", "employee_id": brunoID, "service_name": "Barba", "total_amount": 40,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create typed entry: status %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/reports/transactions", admin, nil)
	var report reportResp
	decode(t, w, &report)
	if len(report.Transactions) != 2 || report.Transactions[0].Employee.Name != "Bruno" {
		t.Fatalf("report = %+v", report)
	}
	if !report.Totals.Revenue.Equal(decimal.NewFromInt(140)) || !report.Totals.Payout.Equal(decimal.NewFromInt(64)) ||
		!report.Totals.Company.Equal(decimal.NewFromInt(76)) {
		t.Fatalf("totals = %+v", report.Totals)
	}

	w = doJSON(r, http.MethodGet, "/api/reports/transactions?employee_id="+anaID+"&start_date=2024-05-10&end_date=2024-05-10", admin, nil)
	decode(t, w, &report)
	if len(report.Transactions) != 1 || report.Transactions[0].Employee.Name != "Ana" {
		t.Fatalf("filtered report = %+v", report)
	}

	w = doJSON(r, http.MethodGet, "/api/reports/copy", admin, nil)
	if !strings.HasPrefix(w.Body.String(), "Data\tEstilista\tServiço\tTotal\tComissão\tSalão\n") ||
		!strings.Contains(w.Body.String(), "10/05/2024\tAna\tCorte\t100,00\t50,00\t50,00") {
		t.Fatalf("copy text = %q", w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/reports/export/payroll", admin, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Content-Disposition"), "Relatorio_Pagamento_Individual.xlsx") {
		t.Fatalf("payroll export: status %d %v", w.Code, w.Header())
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open payroll: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[0] != "Bruno" || sheets[1] != "Ana" {
		t.Fatalf("payroll sheets = %v", sheets)
	}

	w = doJSON(r, http.MethodGet, "/api/reports/export/balance", admin, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Content-Disposition"), "Balanco_Geral.xlsx") {
		t.Fatalf("balance export: status %d", w.Code)
	}

	txID := report.Transactions[0].ID
	if w := doJSON(r, http.MethodDelete, "/api/reports/transactions/"+txID, admin, nil); w.Code != http.StatusPreconditionRequired {
		t.Fatalf("delete without confirmation: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/reports/transactions/"+txID+"?confirm=true", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: status %d %s", w.Code, w.Body.String())
	}
	w = doJSON(r, http.MethodGet, "/api/reports/transactions", admin, nil)
	decode(t, w, &report)
	if len(report.Transactions) != 1 || !report.Totals.Revenue.Equal(decimal.NewFromInt(40)) ||
		!report.Totals.Payout.Equal(decimal.NewFromInt(14)) || !report.Totals.Company.Equal(decimal.NewFromInt(26)) {
		t.Fatalf("after delete = %+v", report)
	}
}

func TestPayrollExportWithoutData(t *testing.T) {
	r := setupTestApp(t)
	admin := register(t, r, ownerEmail).Token

	w := doJSON(r, http.MethodGet, "/api/reports/export/payroll", admin, nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Não há dados para exportar.") {
		t.Fatalf("empty payroll: status %d %s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodGet, "/api/reports/transactions?start_date=ontem", admin, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad date filter: status %d", w.Code)
	}
}

func TestEmployeeLifecycle(t *testing.T) {
	r := setupTestApp(t)
	admin := register(t, r, ownerEmail).Token

	if w := doJSON(r, http.MethodPost, "/api/employees", admin, gin.H{"name": "Ana", "commission_percentage": 120}); w.Code != http.StatusBadRequest {
		t.Fatalf("out of range commission: status %d", w.Code)
	}

	anaID := create(t, r, admin, "/api/employees", gin.H{"name": "Ana", "commission_percentage": 40})
	caioID := create(t, r, admin, "/api/employees", gin.H{"name": "Caio", "commission_percentage": 0})

	var options struct {
		Employees []struct {
			ID string `json:"id"`
		} `json:"employees"`
	}
	decode(t, doJSON(r, http.MethodGet, "/api/dailylog/options", admin, nil), &options)
	if len(options.Employees) != 2 {
		t.Fatalf("options = %+v", options)
	}

	w := doJSON(r, http.MethodPut, "/api/employees/"+caioID, admin, gin.H{"active": false, "commission_percentage": 45})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d %s", w.Code, w.Body.String())
	}
	var updated struct {
		Active               bool            `json:"active"`
		CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	}
	decode(t, w, &updated)
	if updated.Active || !updated.CommissionPercentage.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("updated = %+v", updated)
	}

	decode(t, doJSON(r, http.MethodGet, "/api/dailylog/options", admin, nil), &options)
	if len(options.Employees) != 1 || options.Employees[0].ID != anaID {
		t.Fatalf("options after deactivation = %+v", options)
	}

	var active []idResp
	decode(t, doJSON(r, http.MethodGet, "/api/employees?active=true", admin, nil), &active)
	if len(active) != 1 {
		t.Fatalf("active employees = %+v", active)
	}

	w = doJSON(r, http.MethodPost, "/api/dailylog", admin, gin.H{"employee_id": anaID, "service_name": "Escova", "total_amount": 50})
	if w.Code != http.StatusCreated {
		t.Fatalf("create entry: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/employees/"+anaID+"?confirm=true", admin, nil); w.Code != http.StatusConflict {
		t.Fatalf("delete employee with history: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/employees/"+caioID, admin, nil); w.Code != http.StatusPreconditionRequired {
		t.Fatalf("delete without confirmation: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/employees/"+caioID+"?confirm=true", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodPut, "/api/employees/"+caioID, admin, gin.H{"name": "Caio"}); w.Code != http.StatusNotFound {
		t.Fatalf("update deleted: status %d", w.Code)
	}
}

func TestDailyLogRejectsInactiveSelections(t *testing.T) {
	r := setupTestApp(t)
	admin := register(t, r, ownerEmail).Token

	anaID := create(t, r, admin, "/api/employees", gin.H{"name": "Ana", "commission_percentage": 40})
	brunoID := create(t, r, admin, "/api/employees", gin.H{"name": "Bruno", "commission_percentage": 35})
	corteID := create(t, r, admin, "/api/services", gin.H{"name": "Corte", "commission_percentage": 50})

	if w := doJSON(r, http.MethodPut, "/api/employees/"+anaID, admin, gin.H{"active": false}); w.Code != http.StatusOK {
		t.Fatalf("deactivate: status %d %s", w.Code, w.Body.String())
	}
	w := doJSON(r, http.MethodPost, "/api/dailylog", admin, gin.H{
		"employee_id": anaID, "service_name": "Corte", "total_amount": 100,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("inactive stylist: status %d %s", w.Code, w.Body.String())
	}

	if err := config.DB.Model(&models.Service{}).Where("id = ?", corteID).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate service: %v", err)
	}
	w = doJSON(r, http.MethodPost, "/api/dailylog", admin, gin.H{
		"employee_id": brunoID, "service_id": corteID, "total_amount": 100,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("inactive service: status %d %s", w.Code, w.Body.String())
	}

	var count int64
	config.DB.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Fatalf("%d transactions recorded for inactive selections", count)
	}
}

func TestRoleChangeReachesOpenSession(t *testing.T) {
	r := setupTestApp(t)
	admin := register(t, r, ownerEmail)
	user := register(t, r, "gerente@salao.com")

	if w := doJSON(r, http.MethodGet, "/api/reports/transactions", user.Token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("before promotion: status %d", w.Code)
	}
	w := doJSON(r, http.MethodPut, "/api/users/"+user.User.ID+"/role", admin.Token, gin.H{"role": "admin"})
	if w.Code != http.StatusOK {
		t.Fatalf("promote: status %d %s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodGet, "/api/reports/transactions", user.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("after promotion: status %d", w.Code)
	}

	w = doJSON(r, http.MethodPut, "/api/users/"+user.User.ID+"/role", admin.Token, gin.H{"role": "dono"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid role: status %d", w.Code)
	}

	// demote back, then the owner is the last admin
	doJSON(r, http.MethodPut, "/api/users/"+user.User.ID+"/role", admin.Token, gin.H{"role": "user"})
	if w := doJSON(r, http.MethodGet, "/api/reports/transactions", user.Token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("after demotion: status %d", w.Code)
	}
	w = doJSON(r, http.MethodPut, "/api/users/"+admin.User.ID+"/role", admin.Token, gin.H{"role": "user"})
	if w.Code != http.StatusConflict {
		t.Fatalf("demoting last admin: status %d", w.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	r := setupTestApp(t)
	user := register(t, r, "estilista@salao.com")

	if w := doJSON(r, http.MethodPost, "/auth/logout", user.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/auth/me", user.Token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d", w.Code)
	}
}

func TestClosingOnDemand(t *testing.T) {
	r := setupTestApp(t)
	admin := register(t, r, ownerEmail).Token
	anaID := create(t, r, admin, "/api/employees", gin.H{"name": "Ana", "commission_percentage": 40})
	doJSON(r, http.MethodPost, "/api/dailylog", admin, gin.H{
		"date": "2024-05-10", "employee_id": anaID, "service_name": "Corte", "total_amount": 100,
	})

	w := doJSON(r, http.MethodPost, "/api/reports/closings", admin, gin.H{"date": "2024-05-10"})
	if w.Code != http.StatusOK {
		t.Fatalf("close day: status %d %s", w.Code, w.Body.String())
	}
	var closing struct {
		Day     string          `json:"day"`
		Count   int             `json:"count"`
		Company decimal.Decimal `json:"company"`
	}
	decode(t, w, &closing)
	if closing.Day != "2024-05-10" || closing.Count != 1 || !closing.Company.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("closing = %+v", closing)
	}

	var closings []struct {
		Day string `json:"day"`
	}
	decode(t, doJSON(r, http.MethodGet, "/api/reports/closings", admin, nil), &closings)
	if len(closings) != 1 {
		t.Fatalf("closings = %+v", closings)
	}

	if w := doJSON(r, http.MethodPost, "/api/reports/closings", admin, gin.H{"date": "10/05/2024"}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad date: status %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/reports/dashboard", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("dashboard: status %d", w.Code)
	}
}
