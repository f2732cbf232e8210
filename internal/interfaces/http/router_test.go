package http_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	"github.com/jhoicas/Metalica-api/internal/application/auth"
	"github.com/jhoicas/Metalica-api/internal/application/dto"
	"github.com/jhoicas/Metalica-api/internal/application/ledger"
	"github.com/jhoicas/Metalica-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Metalica-api/internal/interfaces/http"
)

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T, role string) *apiClient {
	t.Helper()
	svc := ledger.NewService(ledger.NewEngine(), nil, pdf.NewMarotoStatementGenerator(language.Spanish), "Metalica", zerolog.Nop())
	hash, err := bcrypt.GenerateFromPassword([]byte("clave"), bcrypt.MinCost)
	require.NoError(t, err)
	uc := auth.NewAuthUseCase(
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		auth.Credentials{Username: testUsername, PasswordHash: string(hash), Role: role},
	)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Service: svc, AuthUC: uc, JWTSecret: testJWTSecret})

	c := &apiClient{t: t, app: app}
	resp := c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: testUsername, Password: "clave"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	c.decode(resp, &login)
	c.token = login.Token
	return c
}

func (c *apiClient) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	return resp
}

func (c *apiClient) decode(resp *http.Response, out any) {
	c.t.Helper()
	defer resp.Body.Close()
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
}

func (c *apiClient) errorCode(resp *http.Response) string {
	c.t.Helper()
	var e dto.ErrorResponse
	c.decode(resp, &e)
	return e.Code
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAPI_CopperFlow(t *testing.T) {
	c := newAPI(t, apphttp.RoleAdmin)

	resp := c.do(http.MethodPost, "/api/metals", map[string]any{
		"name": "copper", "default_buy_price": "5", "default_sale_price": "8",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodPost, "/api/purchases", map[string]any{"metal": "copper", "quantity": 100, "party": "Ahmed"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodPost, "/api/sales", map[string]any{
		"metal": "copper", "quantity": "40", "party": "Omar", "payment_mode": "credit", "amount_paid": "100",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale dto.RecordResponse
	c.decode(resp, &sale)
	require.NotNil(t, sale.Transaction)
	assert.True(t, sale.Transaction.Profit.Equal(dec("120")))
	assert.True(t, sale.Transaction.Outstanding.Equal(dec("220")))
	assert.True(t, sale.Balance.Equal(dec("220")))
	require.NotNil(t, sale.MarginPct)

	resp = c.do(http.MethodPost, "/api/payments", map[string]any{"transaction_id": sale.Transaction.ID, "amount": "20"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var pay dto.RecordResponse
	c.decode(resp, &pay)
	assert.True(t, pay.Balance.Equal(dec("200")))

	resp = c.do(http.MethodGet, "/api/parties/Omar/statement", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st dto.StatementResponse
	c.decode(resp, &st)
	assert.Equal(t, "Omar", st.Party)
	assert.True(t, st.Balance.Equal(dec("200")))
	require.Len(t, st.Lines, 2)
	assert.Equal(t, ledger.EntryKindPayment, st.Lines[1].Kind)

	resp = c.do(http.MethodGet, "/api/inventory/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sum dto.InventorySummaryResponse
	c.decode(resp, &sum)
	require.Len(t, sum.Metals, 1)
	assert.True(t, sum.Metals[0].OnHand.Equal(dec("60")))
	assert.True(t, sum.TotalRealizedProfit.Equal(dec("120")))

	resp = c.do(http.MethodGet, "/api/metals/copper/lots", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lots []dto.LotResponse
	c.decode(resp, &lots)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].Remaining.Equal(dec("60")))
}

func TestAPI_ErrorMapping(t *testing.T) {
	c := newAPI(t, apphttp.RoleAdmin)
	resp := c.do(http.MethodPost, "/api/metals", map[string]any{"name": "copper"})
	resp.Body.Close()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"stock insuficiente", http.MethodPost, "/api/sales", map[string]any{"metal": "copper", "quantity": 1, "unit_price": 8, "party": "Omar"}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"metal desconocido", http.MethodPost, "/api/purchases", map[string]any{"metal": "zinc", "quantity": 1, "unit_cost": 1, "party": "A"}, http.StatusNotFound, "NOT_FOUND"},
		{"cantidad inválida", http.MethodPost, "/api/purchases", map[string]any{"metal": "copper", "quantity": 0, "unit_cost": 1, "party": "A"}, http.StatusBadRequest, "VALIDATION"},
		{"modo de pago", http.MethodPost, "/api/purchases", map[string]any{"metal": "copper", "quantity": 1, "party": "A", "payment_mode": "barter"}, http.StatusBadRequest, "VALIDATION"},
		{"falta party", http.MethodPost, "/api/sales", map[string]any{"metal": "copper", "quantity": 1}, http.StatusBadRequest, "VALIDATION"},
		{"pago sin destino", http.MethodPost, "/api/payments", map[string]any{"amount": 1}, http.StatusBadRequest, "VALIDATION"},
		{"metal duplicado", http.MethodPost, "/api/metals", map[string]any{"name": "copper"}, http.StatusConflict, "DUPLICATE"},
		{"transacción desconocida", http.MethodGet, "/api/transactions/nope", nil, http.StatusNotFound, "NOT_FOUND"},
		{"cliente desconocido", http.MethodGet, "/api/parties/nadie/statement", nil, http.StatusNotFound, "NOT_FOUND"},
		{"sin respaldo en memoria", http.MethodPost, "/api/admin/backup", nil, http.StatusConflict, "CONFLICT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, c.errorCode(resp))
		})
	}
}

func TestAPI_InvalidBody(t *testing.T) {
	c := newAPI(t, apphttp.RoleAdmin)
	req := httptest.NewRequest(http.MethodPost, "/api/metals", bytes.NewBufferString("{no json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", c.errorCode(resp))
}

func TestAPI_LoginInvalido(t *testing.T) {
	c := newAPI(t, apphttp.RoleAdmin)
	c.token = ""
	resp := c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: testUsername, Password: "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodGet, "/api/metals", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ConsultaSoloLectura(t *testing.T) {
	c := newAPI(t, apphttp.RoleConsulta)

	resp := c.do(http.MethodGet, "/api/metals", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodPost, "/api/metals", map[string]any{"name": "copper"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ReverseAndParties(t *testing.T) {
	c := newAPI(t, apphttp.RoleOperador)
	for _, body := range []map[string]any{
		{"name": "نحاس", "default_buy_price": "5", "default_sale_price": "8"},
	} {
		resp := c.do(http.MethodPost, "/api/metals", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	resp := c.do(http.MethodPost, "/api/purchases", map[string]any{"metal": "نحاس", "quantity": "10", "party": "Ahmed", "payment_mode": "credit"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var purchase dto.RecordResponse
	c.decode(resp, &purchase)
	assert.True(t, purchase.Balance.Equal(dec("-50")))

	resp = c.do(http.MethodPost, "/api/transactions/"+purchase.Transaction.ID+"/reverse", dto.ReversalRequest{Note: "error de captura"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rev dto.RecordResponse
	c.decode(resp, &rev)
	assert.True(t, rev.Balance.IsZero())

	resp = c.do(http.MethodPost, "/api/transactions/"+purchase.Transaction.ID+"/reverse", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_REVERSED", c.errorCode(resp))

	resp = c.do(http.MethodGet, "/api/metals/"+url.PathEscape("نحاس"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var metal dto.MetalResponse
	c.decode(resp, &metal)
	assert.True(t, metal.OnHand.IsZero())

	resp = c.do(http.MethodPost, "/api/parties", dto.CreatePartyRequest{Name: "Nuevo Cliente"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodGet, "/api/parties", nil)
	var parties []dto.PartyResponse
	c.decode(resp, &parties)
	assert.Len(t, parties, 2)

	resp = c.do(http.MethodGet, "/api/transactions?kind=reversal", nil)
	var txs []dto.TransactionResponse
	c.decode(resp, &txs)
	require.Len(t, txs, 1)
	assert.Equal(t, purchase.Transaction.ID, txs[0].ReversesID)

	// operador no puede pedir respaldos
	resp = c.do(http.MethodPost, "/api/admin/backup", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ExpensesAndExports(t *testing.T) {
	c := newAPI(t, apphttp.RoleAdmin)
	resp := c.do(http.MethodPost, "/api/metals", map[string]any{"name": "copper", "default_buy_price": "5", "default_sale_price": "8"})
	resp.Body.Close()
	resp = c.do(http.MethodPost, "/api/purchases", map[string]any{"metal": "copper", "quantity": 100, "party": "Ahmed"})
	resp.Body.Close()

	resp = c.do(http.MethodPost, "/api/expenses", dto.CreateExpenseRequest{Name: "transporte", Amount: dec("12.5")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var x dto.ExpenseResponse
	c.decode(resp, &x)

	resp = c.do(http.MethodGet, "/api/exports/transactions.csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "transacciones_")
	records, err := csv.NewReader(resp.Body).ReadAll()
	resp.Body.Close()
	require.NoError(t, err)
	assert.Len(t, records, 2)

	resp = c.do(http.MethodGet, "/api/exports/metals/copper/lots.csv", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodGet, "/api/exports/ledger.xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "PK", string(raw[:2]))

	resp = c.do(http.MethodGet, "/api/parties/Ahmed/statement.pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "%PDF", string(raw[:4]))

	resp = c.do(http.MethodDelete, "/api/expenses/"+x.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	resp = c.do(http.MethodDelete, "/api/expenses/"+x.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodDelete, "/api/metals/copper", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_Pagination(t *testing.T) {
	c := newAPI(t, apphttp.RoleOperador)
	resp := c.do(http.MethodPost, "/api/metals", map[string]any{"name": "copper", "default_buy_price": "5", "default_sale_price": "8"})
	resp.Body.Close()
	resp = c.do(http.MethodPost, "/api/purchases", map[string]any{"metal": "copper", "quantity": 100, "party": "Ahmed"})
	resp.Body.Close()
	for i := 0; i < 3; i++ {
		resp = c.do(http.MethodPost, "/api/sales", map[string]any{
			"metal": "copper", "quantity": "10", "party": "Omar", "payment_mode": "credit", "amount_paid": "0",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp = c.do(http.MethodGet, "/api/transactions?limit=2&offset=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "4", resp.Header.Get("X-Total-Count"))
	var txs []dto.TransactionResponse
	c.decode(resp, &txs)
	require.Len(t, txs, 2)
	assert.Equal(t, "sale", txs[0].Kind)

	resp = c.do(http.MethodGet, "/api/transactions?offset=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c.decode(resp, &txs)
	assert.Empty(t, txs)

	resp = c.do(http.MethodGet, "/api/parties/Omar/statement?limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st dto.StatementResponse
	c.decode(resp, &st)
	require.Len(t, st.Lines, 1)
	assert.True(t, st.Lines[0].Balance.Equal(dec("80")))
	assert.True(t, st.Balance.Equal(dec("240")), "el saldo no depende de la página")
	assert.Equal(t, dto.PageResponse{Limit: 1, Offset: 0, Total: 3}, st.Page)

	resp = c.do(http.MethodGet, "/api/transactions?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", c.errorCode(resp))

	resp = c.do(http.MethodGet, "/api/parties/Omar/statement?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUERY", c.errorCode(resp))
}

func TestAPI_DeleteParty(t *testing.T) {
	c := newAPI(t, apphttp.RoleAdmin)
	resp := c.do(http.MethodPost, "/api/parties", dto.CreatePartyRequest{Name: "Nuevo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = c.do(http.MethodPost, "/api/metals", map[string]any{"name": "copper", "default_buy_price": "5", "default_sale_price": "8"})
	resp.Body.Close()
	resp = c.do(http.MethodPost, "/api/purchases", map[string]any{"metal": "copper", "quantity": 10, "party": "Ahmed"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodDelete, "/api/parties/Ahmed", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", c.errorCode(resp))

	resp = c.do(http.MethodDelete, "/api/parties/"+url.PathEscape("Nuevo"), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodDelete, "/api/parties/Nuevo", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	op := newAPI(t, apphttp.RoleOperador)
	resp = op.do(http.MethodDelete, "/api/parties/Ahmed", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
