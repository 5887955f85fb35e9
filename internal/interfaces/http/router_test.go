package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchrafRT/sales-crm/internal/application/auth"
	"github.com/AchrafRT/sales-crm/internal/application/dto"
	"github.com/AchrafRT/sales-crm/internal/application/engine"
	"github.com/AchrafRT/sales-crm/internal/application/queue"
	"github.com/AchrafRT/sales-crm/internal/domain/command"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/filestore"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/lock"
	"github.com/AchrafRT/sales-crm/internal/infrastructure/pdf"
	apphttp "github.com/AchrafRT/sales-crm/internal/interfaces/http"
	"github.com/AchrafRT/sales-crm/pkg/logger"
	pkgjwt "github.com/AchrafRT/sales-crm/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	t     *testing.T
	app   *fiber.App
	dir   string
	queue *queue.Queue
}

// newTestAPI pila completa sobre un directorio temporal: admin U0001 y employee U0002.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	dir := t.TempDir()
	store, err := filestore.New(dir)
	require.NoError(t, err)
	eng := engine.NewDispatcher(store, lock.NewLocal(), pdf.New(dir), engine.WithPasswordCost(bcrypt.MinCost))
	_, err = eng.Seed(context.Background(), engine.DefaultSeedUsers())
	require.NoError(t, err)
	q, err := queue.New(dir, eng)
	require.NoError(t, err)
	reader := engine.NewReader(store, logger.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(reader, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		Queue:     q,
		Directory: reader,
		Revenue:   reader,
		JWTSecret: testJWTSecret,
	})
	return &testAPI{t: t, app: app, dir: dir, queue: q}
}

func (a *testAPI) token(userID, role string) string {
	tok, err := pkgjwt.Generate(testJWTSecret, userID, role, testIssuer, testExpMin)
	require.NoError(a.t, err)
	return "Bearer " + tok
}

func (a *testAPI) do(req *http.Request) (int, []byte) {
	a.t.Helper()
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, body
}

func (a *testAPI) post(path, auth string, body any) (int, []byte) {
	a.t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(a.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return a.do(req)
}

func (a *testAPI) command(auth string, cmd command.Command) (int, dto.CommandResponse) {
	a.t.Helper()
	env, err := command.NewEnvelope("", "", cmd)
	require.NoError(a.t, err)
	status, body := a.post("/api/commands", auth, dto.CommandRequest{Cmd: env.Cmd, Payload: env.Payload})
	var out dto.CommandResponse
	if status == http.StatusOK || status == http.StatusUnprocessableEntity {
		require.NoError(a.t, json.Unmarshal(body, &out), string(body))
	}
	return status, out
}

func (a *testAPI) leads() map[string]entity.Lead {
	out := map[string]entity.Lead{}
	raw, err := os.ReadFile(filepath.Join(a.dir, "leads.json"))
	if err == nil {
		require.NoError(a.t, json.Unmarshal(raw, &out))
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.post("/api/auth/login", "", dto.LoginRequest{Username: "Admin", Password: "admin"})
	require.Equal(t, http.StatusOK, status, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "U0001", out.User.ID)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	status, body = api.do(req)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"username":"admin"`)

	status, _ = api.post("/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.post("/api/auth/login", "", dto.LoginRequest{Username: "admin"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	status, body := api.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Comandos
// ──────────────────────────────────────────────────────────────────────────────

func TestCommands_SinToken(t *testing.T) {
	api := newTestAPI(t)
	status, _ := api.post("/api/commands", "", dto.CommandRequest{Cmd: "create_lead"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCommands_AdminCreaLead(t *testing.T) {
	api := newTestAPI(t)
	status, out := api.command(api.token("U0001", "admin"), command.CreateLead{BusinessName: "Bar Bleu"})

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, out.OK)
	assert.Equal(t, "L0001", out.Message)

	pending, err := api.queue.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending, "el archivo se procesa y archiva en la misma petición")
}

func TestCommands_EmpleadoCreaLeadAsignadoASiMismo(t *testing.T) {
	api := newTestAPI(t)
	status, out := api.command(api.token("U0002", "employee"),
		command.CreateLead{BusinessName: "Café Lune", AssignedTo: "U0001"})

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "U0002", api.leads()[out.Message].AssignedTo)
}

func TestCommands_EmpleadoNoPuedeComandoAdmin(t *testing.T) {
	api := newTestAPI(t)
	status, _ := api.command(api.token("U0002", "employee"), command.DeleteLeads{LeadIDs: []string{"L0001"}})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCommands_EmpleadoSoloEditaSusLeads(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token("U0001", "admin")
	employee := api.token("U0002", "employee")

	_, own := api.command(employee, command.CreateLead{BusinessName: "Propio"})
	_, other := api.command(admin, command.CreateLead{BusinessName: "Ajeno"})

	status, _ := api.command(employee, command.UpdateLeadFields{
		LeadID: other.Message, Fields: command.LeadFields{Notes: ptr("x")},
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, out := api.command(employee, command.UpdateLeadFields{
		LeadID: own.Message, Fields: command.LeadFields{Notes: ptr("x")},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, out.OK)
}

func TestCommands_RechazoDeNegocio(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token("U0001", "admin")
	_, lead := api.command(admin, command.CreateLead{BusinessName: "Bar Bleu"})

	status, out := api.command(admin, command.CreateOrder{
		LeadID: lead.Message, PeachCases: command.NumberOf(10), CherryCases: command.NumberOf(25),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, out.OK)
	assert.Equal(t, "min 25 cases per flavor", out.Message)
}

func TestCommands_RecursoInexistente(t *testing.T) {
	api := newTestAPI(t)
	status, body := api.post("/api/commands", api.token("U0001", "admin"), dto.CommandRequest{
		Cmd: "mark_order_paid", Payload: []byte(`{"order_id":"O0404"}`),
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, string(body), apphttp.MsgNoPermission)
}

func TestCommands_Desconocido(t *testing.T) {
	api := newTestAPI(t)
	status, body := api.post("/api/commands", api.token("U0002", "employee"), dto.CommandRequest{Cmd: "fly_to_moon"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "unknown cmd")
}

func TestCommands_PayloadInvalido(t *testing.T) {
	api := newTestAPI(t)
	status, body := api.post("/api/commands", api.token("U0001", "admin"), map[string]any{
		"cmd": "delete_leads", "payload": map[string]any{"lead_ids": "L0001"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "bad payload")
}

func TestCommands_UsuarioDeshabilitado(t *testing.T) {
	api := newTestAPI(t)
	status, _ := api.command(api.token("U0001", "admin"), command.DisableUser{UserID: "U0002"})
	require.Equal(t, http.StatusOK, status)

	status, _ = api.command(api.token("U0002", "employee"), command.CreateLead{BusinessName: "x"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCommands_RepartoSoloMarcaEntregas(t *testing.T) {
	api := newTestAPI(t)
	_, out := api.command(api.token("U0001", "admin"), command.CreateEmployee{
		Username: "luc", Password: "pw", Role: entity.RoleDelivery,
	})
	require.True(t, out.OK, out.Message)
	driver := api.token("U0003", "delivery")

	status, _ := api.command(driver, command.CreateLead{BusinessName: "x"})
	assert.Equal(t, http.StatusForbidden, status)

	admin := api.token("U0001", "admin")
	_, lead := api.command(admin, command.CreateLead{BusinessName: "Bar Bleu"})
	_, order := api.command(admin, command.CreateOrder{
		LeadID: lead.Message, PeachCases: command.NumberOf(25), CherryCases: command.NumberOf(25),
	})

	status, _ = api.command(driver, command.MarkDelivered{OrderID: order.Message})
	assert.Equal(t, http.StatusForbidden, status, "borrador no visible para reparto")

	api.command(admin, command.MarkOrderPaid{OrderID: order.Message})
	_, sched := api.command(admin, command.ScheduleDelivery{OrderID: order.Message, Date: "2026-10-20", Time: "09:30"})
	require.True(t, sched.OK, sched.Message)

	status, res := api.command(driver, command.MarkDelivered{OrderID: order.Message})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "delivered", res.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación y reportes
// ──────────────────────────────────────────────────────────────────────────────

func multipartFile(t *testing.T, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = io.Copy(fw, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestImportLeads(t *testing.T) {
	api := newTestAPI(t)
	body, ctype := multipartFile(t, "leads.csv", "Business Name,Phone\nBar Bleu,555\nCafé Lune,556\n,\n")

	req := httptest.NewRequest(http.MethodPost, "/api/leads/import", body)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Authorization", api.token("U0001", "admin"))
	status, raw := api.do(req)
	require.Equal(t, http.StatusOK, status, string(raw))

	var out dto.ImportResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 2, out.Rows)
	require.Len(t, out.Batches, 1)
	assert.True(t, out.Batches[0].OK)
	assert.Len(t, api.leads(), 2)
}

func TestImportLeads_SoloAdmin(t *testing.T) {
	api := newTestAPI(t)
	body, ctype := multipartFile(t, "leads.csv", "name\nx\n")
	req := httptest.NewRequest(http.MethodPost, "/api/leads/import", body)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Authorization", api.token("U0002", "employee"))
	status, _ := api.do(req)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestImportLeads_TipoNoSoportado(t *testing.T) {
	api := newTestAPI(t)
	body, ctype := multipartFile(t, "leads.txt", "name\nx\n")
	req := httptest.NewRequest(http.MethodPost, "/api/leads/import", body)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Authorization", api.token("U0001", "admin"))
	status, raw := api.do(req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "unsupported file type")
}

func TestArchiveLeads(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token("U0001", "admin")
	_, a := api.command(admin, command.CreateLead{BusinessName: "A"})
	_, b := api.command(admin, command.CreateLead{BusinessName: "B"})

	status, raw := api.post("/api/leads/archive", admin, dto.ArchiveLeadsRequest{
		LeadIDs: []string{a.Message, b.Message, "L0404"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true,"message":"archived 2"}`, string(raw))
	assert.Equal(t, entity.LeadStatusArchived, api.leads()[a.Message].Status)

	status, _ = api.post("/api/leads/archive", api.token("U0002", "employee"), dto.ArchiveLeadsRequest{})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRevenue(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token("U0001", "admin")

	_, lead := api.command(admin, command.CreateLead{BusinessName: "Bar Bleu"})
	_, order := api.command(admin, command.CreateOrder{
		LeadID: lead.Message, PeachCases: command.NumberOf(25), CherryCases: command.NumberOf(25),
	})
	_, paid := api.command(admin, command.MarkOrderPaid{OrderID: order.Message})
	require.True(t, paid.OK, paid.Message)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/revenue?status=paid", nil)
	req.Header.Set("Authorization", admin)
	status, raw := api.do(req)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"paid","total":"3435.45"}`, string(raw))
}

func TestCalendar_SoloEventosVisibles(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token("U0001", "admin")
	employee := api.token("U0002", "employee")

	for _, c := range []struct {
		auth string
		cmd  command.CreateEvent
	}{
		{admin, command.CreateEvent{Title: "Reunión interna", Date: "2026-10-20", Time: "09:00"}},
		{admin, command.CreateEvent{Title: "Ruta", Date: "2026-10-21", Time: "10:00", AssignTo: "U0002"}},
		{employee, command.CreateEvent{Title: "Visita", Date: "2026-10-19", Time: "11:00"}},
	} {
		status, out := api.command(c.auth, c.cmd)
		require.Equal(t, http.StatusOK, status, out.Message)
	}

	titles := func(auth string) []string {
		req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
		req.Header.Set("Authorization", auth)
		status, raw := api.do(req)
		require.Equal(t, http.StatusOK, status)
		var body dto.CalendarResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		var out []string
		for _, ev := range body.Events {
			out = append(out, ev.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Visita", "Reunión interna", "Ruta"}, titles(admin))
	assert.Equal(t, []string{"Visita", "Ruta"}, titles(employee))
}

func ptr[T any](v T) *T { return &v }
