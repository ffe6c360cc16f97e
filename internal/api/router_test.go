package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/landworks/registry-system/internal/core/domain"
	"github.com/landworks/registry-system/internal/core/ports"
)

const testSecret = "test-secret"

// ---------------------------------------------------------------------------
// Stub services
// ---------------------------------------------------------------------------

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ChangePassword(context.Context, string, string, string) error {
	return nil
}

func (s *stubAuthService) SeedAdmin(context.Context, string, string) error {
	return nil
}

type stubLandService struct {
	createFn       func(ctx context.Context, input ports.CreatePlotInput) (*domain.LandPlot, error)
	getFn          func(ctx context.Context, id string) (*domain.LandPlot, error)
	updateStatusFn func(ctx context.Context, id, status string) (*domain.LandPlot, error)
}

func (s *stubLandService) CreatePlot(ctx context.Context, input ports.CreatePlotInput) (*domain.LandPlot, error) {
	return s.createFn(ctx, input)
}

func (s *stubLandService) GetPlot(ctx context.Context, id string) (*domain.LandPlot, error) {
	return s.getFn(ctx, id)
}

func (s *stubLandService) ListPlots(context.Context, ports.ListPlotsFilter) (*ports.ListPlotsResult, error) {
	return &ports.ListPlotsResult{Pagination: ports.Pagination{CurrentPage: 1}}, nil
}

func (s *stubLandService) UpdatePlot(ctx context.Context, id string, _ ports.UpdatePlotInput) (*domain.LandPlot, error) {
	return s.getFn(ctx, id)
}

func (s *stubLandService) UpdateStatus(ctx context.Context, id, status string) (*domain.LandPlot, error) {
	return s.updateStatusFn(ctx, id, status)
}

func (s *stubLandService) MarkAsSold(ctx context.Context, id string) (*domain.LandPlot, error) {
	return s.getFn(ctx, id)
}

type stubTransactionService struct {
	recordFn func(ctx context.Context, input ports.RecordTransactionInput, userID string) (*ports.TransactionDetail, error)
}

func (s *stubTransactionService) Record(ctx context.Context, input ports.RecordTransactionInput, userID string) (*ports.TransactionDetail, error) {
	return s.recordFn(ctx, input, userID)
}

func (s *stubTransactionService) GetByID(context.Context, string) (*ports.TransactionDetail, error) {
	return nil, domain.ErrTransactionNotFound
}

func (s *stubTransactionService) List(context.Context, ports.ListTransactionsFilter) (*ports.ListTransactionsResult, error) {
	return &ports.ListTransactionsResult{Pagination: ports.Pagination{CurrentPage: 1}}, nil
}

func (s *stubTransactionService) Update(context.Context, string, ports.UpdateTransactionInput) (*ports.TransactionWithPlot, error) {
	return nil, domain.ErrTransactionNotFound
}

func (s *stubTransactionService) CalculateCommission(salePrice decimal.Decimal, rate *decimal.Decimal) (*ports.CommissionBreakdown, error) {
	effective := decimal.NewFromFloat(0.10)
	if rate != nil {
		effective = *rate
	}
	amount := domain.ComputeCommission(salePrice, effective)
	return &ports.CommissionBreakdown{
		SalePrice:            salePrice,
		CommissionRate:       effective,
		CommissionAmount:     amount,
		NetAmount:            salePrice.Sub(amount),
		CommissionPercentage: effective.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%",
	}, nil
}

type stubStatsService struct{}

func (s *stubStatsService) TransactionStatistics(context.Context, time.Time, time.Time) (*ports.TransactionStats, error) {
	return &ports.TransactionStats{Count: 2, TotalRevenue: decimal.NewFromInt(90000)}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testPlot() *domain.LandPlot {
	return &domain.LandPlot{
		ID:         "plot-1",
		PlotNumber: "GB001",
		Location:   "East Legon, Accra",
		Size:       decimal.NewFromFloat(2.5),
		SizeUnit:   domain.UnitAcres,
		Status:     domain.StatusAvailable,
		OwnerName:  "Kwame Mensah",
	}
}

func testRouter(t *testing.T) *echo.Echo {
	t.Helper()
	land := &stubLandService{
		createFn: func(_ context.Context, input ports.CreatePlotInput) (*domain.LandPlot, error) {
			p := testPlot()
			p.PlotNumber = domain.NormalizePlotNumber(input.PlotNumber)
			return p, nil
		},
		getFn: func(_ context.Context, id string) (*domain.LandPlot, error) {
			if id != "plot-1" {
				return nil, domain.ErrPlotNotFound
			}
			return testPlot(), nil
		},
		updateStatusFn: func(_ context.Context, id, status string) (*domain.LandPlot, error) {
			return nil, domain.ErrInvalidTransition
		},
	}
	txs := &stubTransactionService{
		recordFn: func(_ context.Context, input ports.RecordTransactionInput, userID string) (*ports.TransactionDetail, error) {
			return nil, domain.ErrPlotAlreadySold
		},
	}
	auth := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			return &domain.User{ID: "user-2", Email: input.Email, Role: domain.Role(input.Role)}, nil
		},
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if password != "correct-horse" {
				return "", nil, domain.ErrInvalidCredentials
			}
			return "token123", &domain.User{ID: "user-1", Email: email, Role: domain.RoleAdmin}, nil
		},
	}

	return NewRouter(Dependencies{
		AuthService:        auth,
		LandService:        land,
		TransactionService: txs,
		StatsService:       &stubStatsService{},
		JWTSecret:          testSecret,
		Logger:             zerolog.Nop(),
	})
}

func bearerToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   "user-1",
		"email": "caller@registry.example",
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func doRequest(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_LoginIsPublic(t *testing.T) {
	e := testRouter(t)

	rec := doRequest(e, http.MethodPost, "/auth/login", "", `{"email":"a@b.example","password":"correct-horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Errorf("expected token in response, got %v", resp)
	}
}

func TestRouter_LoginBadCredentials(t *testing.T) {
	e := testRouter(t)

	rec := doRequest(e, http.MethodPost, "/auth/login", "", `{"email":"a@b.example","password":"wrong-password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_PlotsRequireAuth(t *testing.T) {
	e := testRouter(t)

	rec := doRequest(e, http.MethodGet, "/v1/plots", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestRouter_RegisterIsAdminOnly(t *testing.T) {
	e := testRouter(t)
	body := `{"email":"new@registry.example","password":"longenough","role":"STAFF","first_name":"Ama","last_name":"Owusu"}`

	rec := doRequest(e, http.MethodPost, "/auth/register", bearerToken(t, "STAFF"), body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("STAFF register: expected 403, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodPost, "/auth/register", bearerToken(t, "ADMIN"), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("ADMIN register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AuditorIsReadOnly(t *testing.T) {
	e := testRouter(t)
	auditor := bearerToken(t, "AUDITOR")

	rec := doRequest(e, http.MethodGet, "/v1/plots", auditor, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("auditor list plots: expected 200, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodPost, "/v1/plots", auditor,
		`{"plot_number":"GB002","location":"Tema","size":1.5,"size_unit":"ACRES","owner_name":"Abena"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("auditor create plot: expected 403, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodPost, "/v1/transactions", auditor, `{}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("auditor record transaction: expected 403, got %d", rec.Code)
	}
}

func TestRouter_CreatePlotValidation(t *testing.T) {
	e := testRouter(t)
	staff := bearerToken(t, "STAFF")

	rec := doRequest(e, http.MethodPost, "/v1/plots", staff,
		`{"plot_number":"GB002","location":"Tema","size":1.5,"size_unit":"FURLONGS","owner_name":"Abena"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad size unit: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_PlotNotFoundMapsTo404(t *testing.T) {
	e := testRouter(t)

	rec := doRequest(e, http.MethodGet, "/v1/plots/missing", bearerToken(t, "STAFF"), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "land plot not found" {
		t.Errorf("error envelope: got %q", resp["error"])
	}
}

func TestRouter_AlreadySoldMapsTo422(t *testing.T) {
	e := testRouter(t)
	body := `{"land_plot_id":"plot-1","buyer_name":"John Buyer","buyer_contact":"+233241234567",` +
		`"seller_name":"Kwame Mensah","seller_contact":"+233209876543","sale_price":50000}`

	rec := doRequest(e, http.MethodPost, "/v1/transactions", bearerToken(t, "STAFF"), body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_InvalidTransitionMapsTo422(t *testing.T) {
	e := testRouter(t)

	rec := doRequest(e, http.MethodPatch, "/v1/plots/plot-1/status", bearerToken(t, "STAFF"),
		`{"status":"AVAILABLE"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_CommissionQuote(t *testing.T) {
	e := testRouter(t)

	rec := doRequest(e, http.MethodPost, "/v1/transactions/commission", bearerToken(t, "AUDITOR"),
		`{"sale_price":100000,"commission_rate":0.15}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["commission_amount"] != "15000.00" {
		t.Errorf("commission_amount: got %v", resp["commission_amount"])
	}
	if resp["net_amount"] != "85000.00" {
		t.Errorf("net_amount: got %v", resp["net_amount"])
	}
	if resp["commission_percentage"] != "15.00%" {
		t.Errorf("commission_percentage: got %v", resp["commission_percentage"])
	}
}

func TestRouter_Statistics(t *testing.T) {
	e := testRouter(t)

	rec := doRequest(e, http.MethodGet, "/v1/transactions/statistics", bearerToken(t, "AUDITOR"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["count"] != float64(2) {
		t.Errorf("count: got %v", resp["count"])
	}
}

func TestRouter_HealthIsPublic(t *testing.T) {
	e := testRouter(t)

	rec := doRequest(e, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
