package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/ugcompta/invoiceflow/internal/application/analytics"
	"github.com/ugcompta/invoiceflow/internal/application/auth"
	"github.com/ugcompta/invoiceflow/internal/application/billing"
	"github.com/ugcompta/invoiceflow/internal/application/declaration"
	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/application/usecase"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
	"github.com/ugcompta/invoiceflow/internal/infrastructure/memory"
	"github.com/ugcompta/invoiceflow/internal/infrastructure/pdf"
	apphttp "github.com/ugcompta/invoiceflow/internal/interfaces/http"
)

const (
	testJWTSecret = mwSecret
	testExpMin    = 60
	testIssuer    = mwIssuer
)

// newAPI app Fiber completa sobre el store en memoria.
func newAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	st := memory.New()
	resolver := tax.NewRateResolver(st.FiscalParameters())
	tokenCfg := usecase.TokenConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(st.Users(), st.Businesses(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		BusinessUC:    usecase.NewBusinessUseCase(st, st.Businesses(), resolver, tokenCfg),
		UserUC:        usecase.NewUserUseCase(st.Users()),
		ModuleService: usecase.NewModuleService(st.Modules()),
		CustomerUC:    billing.NewCustomerUseCase(st.Customers()),
		ProductUC:     billing.NewProductUseCase(st.Products()),
		PurchaseUC:    billing.NewPurchaseUseCase(st.Purchases()),
		InvoiceUC: billing.NewInvoiceUseCase(st, st.Businesses(), st.Customers(), st.Products(), st.Invoices(),
			resolver, billing.InvoiceConfig{StampDutyEnabled: true, DefaultDueDays: 30}),
		InvoicePDF:    billing.NewPDFUseCase(st.Invoices(), st.Businesses(), st.Customers(), pdf.NewMarotoPDFGenerator()),
		DeclarationUC: declaration.NewUseCase(st.Businesses(), st.Declarations(), resolver),
		DashboardUC:   appanalytics.NewDashboardUseCase(st.Analytics(), st.Businesses()),
		JWTSecret:     testJWTSecret,
	})
	return app, st
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func onboard(t *testing.T, app *fiber.App, in dto.CreateBusinessRequest) dto.OnboardingResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/businesses", "", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.OnboardingResponse
	decode(t, resp, &out)
	return out
}

func sarl() dto.CreateBusinessRequest {
	return dto.CreateBusinessRequest{
		Name: "Atlas Distribution", LegalType: "societe", FiscalRegime: "reel",
		LegalForm: "SARL", Capital: decimal.NewFromInt(1000000),
		NIF: "000016001234567", RC: "16/00-1234567B18",
		OwnerEmail: "gerant@atlas.dz", OwnerPassword: "motdepasse1",
	}
}

func TestOnboarding_ValidacionYRegimen(t *testing.T) {
	app, _ := newAPI(t)

	resp := call(t, app, http.MethodPost, "/api/businesses", "", dto.CreateBusinessRequest{Name: "X"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var verr dto.ErrorResponse
	decode(t, resp, &verr)
	assert.Equal(t, "VALIDATION", verr.Code)
	assert.NotEmpty(t, verr.Details)

	bad := sarl()
	bad.LegalType, bad.FiscalRegime = "personne_physique", ""
	resp = call(t, app, http.MethodPost, "/api/businesses", "", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &verr)
	assert.Equal(t, "UNSUPPORTED_REGIME", verr.Code)

	out := onboard(t, app, sarl())
	assert.Equal(t, tax.RegimeCorporate, out.Business.Regime)
	assert.Equal(t, entity.RoleAdmin, out.Owner.Role)

	resp = call(t, app, http.MethodGet, "/api/business/tax-config", out.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cfg dto.TaxConfigResponse
	decode(t, resp, &cfg)
	assert.True(t, cfg.Configuration.Modules.G50)
	assert.False(t, cfg.Configuration.Modules.G12)
	assert.Contains(t, cfg.Configuration.InvoiceFooter, "SARL au capital de")

	resp = call(t, app, http.MethodPost, "/api/businesses", "", sarl())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestFacturacionYDeclaracion_FlujoCompleto(t *testing.T) {
	app, _ := newAPI(t)
	owner := onboard(t, app, sarl())

	resp := call(t, app, http.MethodPost, "/api/customers", owner.Token, dto.CreateCustomerRequest{Name: "Condor", NIF: "000016009876543"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var customer dto.CustomerResponse
	decode(t, resp, &customer)

	resp = call(t, app, http.MethodPost, "/api/products", owner.Token, dto.CreateProductRequest{
		SKU: "CAB-01", Name: "Câble 2.5mm", Kind: "goods", UnitPrice: decimal.NewFromInt(100), TVARate: decimal.NewFromInt(19),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product dto.ProductResponse
	decode(t, resp, &product)

	body := map[string]any{
		"customer_id":    customer.ID,
		"issue_date":     "2025-03-10T00:00:00Z",
		"payment_method": "cash",
		"items":          []map[string]any{{"product_id": product.ID, "quantity": "10"}},
	}
	resp = call(t, app, http.MethodPost, "/api/invoices", owner.Token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inv dto.InvoiceResponse
	decode(t, resp, &inv)
	assert.Equal(t, "FA-2025-00001", inv.Number)
	assert.True(t, decimal.RequireFromString("11.9").Equal(inv.StampDutyAmount), "timbre %s", inv.StampDutyAmount)
	assert.True(t, decimal.RequireFromString("1201.9").Equal(inv.TotalTTC), "TTC %s", inv.TotalTTC)

	resp = call(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/pay", owner.Token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "un borrador no se cobra")
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/issue", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/declarations/g50?year=2025&month=3&previous_year_ibs=1000", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var g50 dto.G50Response
	decode(t, resp, &g50)
	assert.True(t, decimal.NewFromInt(190).Equal(g50.G50.CollectedTVA))
	assert.True(t, decimal.NewFromInt(300).Equal(g50.G50.IBSInstallment))
	assert.True(t, decimal.RequireFromString("501.9").Equal(g50.G50.TotalPayable), "total %s", g50.G50.TotalPayable)

	first := call(t, app, http.MethodGet, "/api/declarations/g50/export?year=2025&month=3", owner.Token, nil)
	second := call(t, app, http.MethodGet, "/api/declarations/g50/export?year=2025&month=3", owner.Token, nil)
	require.Equal(t, http.StatusOK, first.StatusCode)
	fp := first.Header.Get(apphttp.HeaderFingerprint)
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, second.Header.Get(apphttp.HeaderFingerprint))
	xml, _ := io.ReadAll(first.Body)
	assert.Contains(t, string(xml), `<Declaration`)
	first.Body.Close()
	second.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/declarations/g12?year=2025", owner.Token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/declarations/g50?year=2025&month=13", owner.Token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRoles_VendeurSinAccesoADeclaraciones(t *testing.T) {
	app, _ := newAPI(t)
	owner := onboard(t, app, sarl())

	resp := call(t, app, http.MethodPost, "/api/auth/register", owner.Token, dto.RegisterRequest{
		Email: "vente@atlas.dz", Password: "motdepasse2", Role: entity.RoleSales,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "vente@atlas.dz", Password: "motdepasse2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)

	resp = call(t, app, http.MethodGet, "/api/declarations/g50?year=2025&month=3", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/users", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []dto.UserResponse
	decode(t, resp, &users)
	assert.Len(t, users, 2)

	resp = call(t, app, http.MethodGet, "/api/users", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/register", login.Token, dto.RegisterRequest{
		Email: "otro@atlas.dz", Password: "motdepasse3",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo un admin da de alta usuarios")
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "vente@atlas.dz", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestModuloDesactivado_Retorna403(t *testing.T) {
	app, st := newAPI(t)
	owner := onboard(t, app, sarl())
	st.Modules().Deactivate(owner.Business.ID, entity.ModuleDashboard)

	resp := call(t, app, http.MethodGet, "/api/dashboard/summary", owner.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "MODULE_DISABLED")

	resp = call(t, app, http.MethodGet, "/api/business/modules", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mods []dto.ModuleResponse
	decode(t, resp, &mods)
	assert.Len(t, mods, len(usecase.DefaultModules))
}

func TestIFU_G12bis(t *testing.T) {
	app, _ := newAPI(t)
	owner := onboard(t, app, dto.CreateBusinessRequest{
		Name: "Atelier Benali", LegalType: "personne_physique", FiscalRegime: "forfaitaire",
		ActivityKind: "services", OwnerEmail: "benali@atelier.dz", OwnerPassword: "motdepasse1",
	})
	assert.Equal(t, tax.RegimeIFU, owner.Business.Regime)

	resp := call(t, app, http.MethodGet, "/api/declarations/g50?year=2025&month=3", owner.Token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/declarations/g12bis?year=2025&g12_paid=abc", owner.Token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/declarations/g12bis/export?year=2025&g12_paid=0", owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderFingerprint))
	resp.Body.Close()
}
