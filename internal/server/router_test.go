package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mon-auxiliaire/internal/auth"
	"mon-auxiliaire/internal/config"
	"mon-auxiliaire/internal/database"
	"mon-auxiliaire/internal/handlers"
	"mon-auxiliaire/internal/models"
	"mon-auxiliaire/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	store  store.Store
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.FromEnv(func(string) string { return "" })
	require.NoError(t, err)

	st := store.NewMemoryWithClock(func() time.Time { return fixedNow })
	require.NoError(t, database.SeedAdmin(context.Background(), st, "admin", "admin123", zap.NewNop()))

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := handlers.New(st, auth.NewService(st, tokens), zap.NewNop(), handlers.WithClock(func() time.Time { return fixedNow }))

	api := &testAPI{t: t, router: NewRouter(cfg, h, tokens, zap.NewNop()), store: st}
	api.token = api.login("admin", "admin123")
	return api
}

func (a *testAPI) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	return a.request(method, path, body, a.token)
}

func (a *testAPI) login(username, password string) string {
	w := a.request(http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	decode(a.t, w, &out)
	return out.Token
}

// create poste body et renvoie l'objet créé sous forme de map.
func (a *testAPI) create(path string, body any) map[string]any {
	a.t.Helper()
	w := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out map[string]any
	decode(a.t, w, &out)
	return out
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func mustUser(t *testing.T, a *testAPI) models.User {
	t.Helper()
	u, err := a.store.UserByUsername(context.Background(), "admin")
	require.NoError(t, err)
	return u
}

func idOf(m map[string]any) int {
	return int(m["id"].(float64))
}

func (a *testAPI) site(tarif string) int {
	body := map[string]any{"nomSite": "Entrepôt Central", "ville": "Paris", "adresse": "12 rue de la Logistique"}
	if tarif != "" {
		body["tarifHoraire"] = tarif
	}
	return idOf(a.create("/api/sites", body))
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w := api.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.request(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.request(http.MethodPost, "/api/auth/login", map[string]string{"username": "ADMIN", "password": "admin123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	var out struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}
	decode(t, w, &out)
	assert.Equal(t, "admin", out.User["username"])
	assert.NotEmpty(t, out.Token)

	w = api.request(http.MethodGet, "/api/auth/profile", nil, out.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthGate(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.request(http.MethodGet, "/api/sites", nil, "").Code)
	assert.Equal(t, http.StatusForbidden, api.request(http.MethodGet, "/api/sites", nil, "invalid.token.here").Code)

	foreign, err := auth.NewTokenIssuer("other-secret", time.Hour).Issue(mustUser(t, api))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, api.request(http.MethodGet, "/api/sites", nil, foreign).Code)

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sites", nil).Code)
}

func TestRegisterAndRoles(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(http.MethodPost, "/api/auth/register", map[string]string{"username": "lu", "password": "123"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"username", "password"}, fieldsOf(t, w))

	w = api.request(http.MethodPost, "/api/auth/register", map[string]string{"username": "lucie", "password": "secret1", "role": "lecteur"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "secret1")

	w = api.request(http.MethodPost, "/api/auth/register", map[string]string{"username": "Lucie", "password": "secret2"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.request(http.MethodPost, "/api/auth/register", map[string]string{"username": "pirate", "password": "secret1", "role": "admin"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	lecteur := api.login("lucie", "secret1")
	assert.Equal(t, http.StatusForbidden, api.request(http.MethodGet, "/api/audit", nil, lecteur).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/audit", nil).Code)
}

func TestUpdateProfile(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPatch, "/api/auth/profile", map[string]string{"newPassword": "nouveau123", "currentPassword": "faux"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPatch, "/api/auth/profile", map[string]string{
		"email": "admin@example.fr", "newPassword": "nouveau123", "currentPassword": "admin123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "admin@example.fr")

	api.login("admin", "nouveau123")
}

func TestSiteCRUD(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/sites", map[string]any{"ville": "Paris"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	created := api.create("/api/sites", map[string]any{
		"nomSite": "Plateforme Sud", "ville": "Lyon", "adresse": "8 avenue des Transports",
		"tarifHoraire": 42, "notes": "<b>Quai 3</b>",
	})
	id := idOf(created)
	assert.Equal(t, true, created["actif"])
	assert.Equal(t, "42", created["tarifHoraire"])
	assert.Equal(t, "Quai 3", created["notes"])

	w = api.do(http.MethodPut, fmt.Sprintf("/api/sites/%d", id), map[string]any{"ville": "Villeurbanne"})
	require.Equal(t, http.StatusOK, w.Code)
	var site map[string]any
	decode(t, w, &site)
	assert.Equal(t, "Villeurbanne", site["ville"])
	assert.Equal(t, "Plateforme Sud", site["nomSite"])

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPut, "/api/sites/999", map[string]any{"ville": "X"}).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/sites/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/sites", map[string]any{
		"nomSite": "X", "ville": "Y", "adresse": "Z", "tarifHoraire": "-5",
	}).Code)

	w = api.do(http.MethodGet, "/api/sites?actif=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, fmt.Sprintf("/api/sites/%d", id), nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, fmt.Sprintf("/api/sites/%d", id), nil).Code)
}

func TestPrestationEstimateOnCreate(t *testing.T) {
	api := newTestAPI(t)
	siteID := api.site("45")

	p := api.create("/api/prestations", map[string]any{
		"siteId": siteID, "datePrestation": "2026-10-19",
		"heureDebut": "08:00", "heureFin": "12:00", "nbManutentionnaires": 4,
	})
	assert.Equal(t, "720", p["montantPrevu"])
	assert.Equal(t, "planifie", p["statutPrestation"])
	assert.Equal(t, "en_attente", p["statutPaiement"])

	// un montant fourni n'est pas écrasé
	p = api.create("/api/prestations", map[string]any{
		"siteId": siteID, "datePrestation": "2026-10-19",
		"heureDebut": "08:00", "heureFin": "12:00", "nbManutentionnaires": 4, "montantPrevu": "650.50",
	})
	assert.Equal(t, "650.5", p["montantPrevu"])

	// durée négative: pas d'estimation
	p = api.create("/api/prestations", map[string]any{
		"siteId": siteID, "datePrestation": "2026-10-19",
		"heureDebut": "12:00", "heureFin": "08:00", "nbManutentionnaires": 4,
	})
	assert.Nil(t, p["montantPrevu"])

	w := api.do(http.MethodGet, fmt.Sprintf("/api/prestations/estimate?siteId=%d&heureDebut=08:00&heureFin=12:00&nbManutentionnaires=4", siteID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"montantEstime":"720"}`, w.Body.String())

	w = api.do(http.MethodGet, fmt.Sprintf("/api/prestations/estimate?siteId=%d&heureDebut=12:00&heureFin=08:00&nbManutentionnaires=4", siteID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrestationValidation(t *testing.T) {
	api := newTestAPI(t)
	siteID := api.site("")

	cases := map[string]map[string]any{
		"unknown site":    {"siteId": 999, "datePrestation": "2026-10-19", "nbManutentionnaires": 2},
		"bad date":        {"siteId": siteID, "datePrestation": "19/10/2026", "nbManutentionnaires": 2},
		"no headcount":    {"siteId": siteID, "datePrestation": "2026-10-19"},
		"bad time":        {"siteId": siteID, "datePrestation": "2026-10-19", "nbManutentionnaires": 2, "heureDebut": "8h"},
		"bad status":      {"siteId": siteID, "datePrestation": "2026-10-19", "nbManutentionnaires": 2, "statutPrestation": "fini"},
		"negative trucks": {"siteId": siteID, "datePrestation": "2026-10-19", "nbManutentionnaires": 2, "nbCamions": -1},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/prestations", body).Code)
		})
	}
}

func TestPrestationPatchSyncsStatus(t *testing.T) {
	api := newTestAPI(t)
	siteID := api.site("")
	p := api.create("/api/prestations", map[string]any{"siteId": siteID, "datePrestation": "2026-10-19", "nbManutentionnaires": 2, "notes": "RAS"})
	path := fmt.Sprintf("/api/prestations/%d", idOf(p))

	w := api.do(http.MethodPatch, path, map[string]any{"statutPaiement": "paye"})
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	decode(t, w, &got)
	assert.Equal(t, "termine", got["statutPrestation"])
	assert.Equal(t, "paye", got["statutPaiement"])
	assert.Equal(t, "RAS", got["notes"])

	w = api.do(http.MethodPut, path, map[string]any{"statutPrestation": "annule"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &got)
	assert.Equal(t, "annule", got["statutPrestation"])
	assert.Equal(t, "annule", got["statutPaiement"])

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPatch, "/api/prestations/999", map[string]any{"notes": "x"}).Code)
}

func TestPaiementScenario(t *testing.T) {
	api := newTestAPI(t)
	siteID := api.site("45")
	p := api.create("/api/prestations", map[string]any{"siteId": siteID, "datePrestation": "2026-10-19", "nbManutentionnaires": 2})
	prestationPath := fmt.Sprintf("/api/prestations/%d", idOf(p))

	f := api.create("/api/factures", map[string]any{"prestationId": idOf(p), "montantHt": "600", "tva": "120"})
	assert.Equal(t, "F-2026-001", f["numeroFacture"])
	assert.Equal(t, "720", f["montantTtc"])
	assert.Equal(t, "brouillon", f["statut"])
	assert.Equal(t, "2026-10-19", f["dateEmission"])
	paiementPath := fmt.Sprintf("/api/factures/%d/paiement", idOf(f))

	// une seule facture par prestation
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/factures", map[string]any{"prestationId": idOf(p), "montantHt": "1", "tva": "0"}).Code)

	w := api.do(http.MethodPut, paiementPath, map[string]any{"statut": "envoyee"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var facture map[string]any
	decode(t, w, &facture)
	assert.Equal(t, "envoyee", facture["statut"])
	assert.Equal(t, "2026-11-18", facture["dateEcheance"])

	var prestation map[string]any
	decode(t, api.do(http.MethodGet, prestationPath, nil), &prestation)
	assert.Equal(t, "en_cours", prestation["statutPrestation"])
	assert.Equal(t, "en_attente", prestation["statutPaiement"])

	w = api.do(http.MethodPut, paiementPath, map[string]any{"statut": "payee"})
	require.Equal(t, http.StatusOK, w.Code)

	decode(t, api.do(http.MethodGet, prestationPath, nil), &prestation)
	assert.Equal(t, "termine", prestation["statutPrestation"])
	assert.Equal(t, "paye", prestation["statutPaiement"])

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, paiementPath, map[string]any{}).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, paiementPath, map[string]any{"statut": "perdue"}).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPut, "/api/factures/999/paiement", map[string]any{"statut": "payee"}).Code)

	// prestation liée supprimée du magasin: 404
	_, err := api.store.Prestations().Delete(context.Background(), uint(idOf(p)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPut, paiementPath, map[string]any{"statut": "en_retard"}).Code)

	// la facture n'a pas bougé
	decode(t, api.do(http.MethodGet, fmt.Sprintf("/api/factures/%d", idOf(f)), nil), &facture)
	assert.Equal(t, "payee", facture["statut"])
}

func TestFactureUpdateAndPDF(t *testing.T) {
	api := newTestAPI(t)
	siteID := api.site("45")
	p := api.create("/api/prestations", map[string]any{"siteId": siteID, "datePrestation": "2026-10-19", "nbManutentionnaires": 2})
	f := api.create("/api/factures", map[string]any{"prestationId": idOf(p), "numeroFacture": "F-2026-010", "montantHt": 1000, "tva": 200})
	path := fmt.Sprintf("/api/factures/%d", idOf(f))

	w := api.do(http.MethodPut, path, map[string]any{"montantHt": "1500"})
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	decode(t, w, &got)
	assert.Equal(t, "1700", got["montantTtc"])

	w = api.do(http.MethodPut, path, map[string]any{"statut": "payee"})
	require.Equal(t, http.StatusOK, w.Code)
	var prestation map[string]any
	decode(t, api.do(http.MethodGet, fmt.Sprintf("/api/prestations/%d", idOf(p)), nil), &prestation)
	assert.Equal(t, "paye", prestation["statutPaiement"])

	w = api.do(http.MethodGet, path+"/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "facture-F-2026-010.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	var list []map[string]any
	decode(t, api.do(http.MethodGet, "/api/factures?statut=payee", nil), &list)
	assert.Len(t, list, 1)
	decode(t, api.do(http.MethodGet, "/api/factures?statut=brouillon", nil), &list)
	assert.Empty(t, list)
}

func TestPDFFilenameIsQuoted(t *testing.T) {
	api := newTestAPI(t)
	p := api.create("/api/prestations", map[string]any{"siteId": api.site("45"), "datePrestation": "2026-10-19", "nbManutentionnaires": 2})
	f := api.create("/api/factures", map[string]any{"prestationId": idOf(p), "numeroFacture": `F 2026 "A"; x=1`, "montantHt": 100, "tva": 20})

	w := api.do(http.MethodGet, fmt.Sprintf("/api/factures/%d/pdf", idOf(f)), nil)
	require.Equal(t, http.StatusOK, w.Code)

	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, `facture-F 2026 "A"; x=1.pdf`, params["filename"])
	assert.NotContains(t, params, "x")
}

func fieldsOf(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var body struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	decode(t, w, &body)
	fields := []string{}
	for _, e := range body.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestBlankFieldsAreRejected(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/sites", map[string]any{"nomSite": "   ", "ville": "  ", "adresse": " "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"nomSite", "ville", "adresse"}, fieldsOf(t, w))

	site := api.create("/api/sites", map[string]any{"nomSite": "  Plateforme Sud ", "ville": " Lyon", "adresse": "8 avenue des Transports  "})
	assert.Equal(t, "Plateforme Sud", site["nomSite"])
	assert.Equal(t, "Lyon", site["ville"])

	w = api.do(http.MethodPut, fmt.Sprintf("/api/sites/%d", idOf(site)), map[string]any{"nomSite": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"nomSite"}, fieldsOf(t, w))

	w = api.do(http.MethodPost, "/api/employes", map[string]any{"nom": " ", "prenom": "Pierre"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"nom"}, fieldsOf(t, w))

	w = api.request(http.MethodPost, "/api/auth/register", map[string]string{"username": "  ab  ", "password": "secret1"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"username"}, fieldsOf(t, w))

	w = api.request(http.MethodPost, "/api/auth/register", map[string]string{"username": "camille", "password": "       "}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"password"}, fieldsOf(t, w))

	w = api.request(http.MethodPost, "/api/auth/register", map[string]string{"username": "  camille ", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"username":"camille"`)

	p := api.create("/api/prestations", map[string]any{"siteId": idOf(site), "datePrestation": "2026-10-19", "nbManutentionnaires": 1})
	f := api.create("/api/factures", map[string]any{"prestationId": idOf(p), "numeroFacture": "  ", "montantHt": "100", "tva": "20"})
	assert.Equal(t, "F-2026-001", f["numeroFacture"])

	w = api.do(http.MethodPut, fmt.Sprintf("/api/factures/%d", idOf(f)), map[string]any{"numeroFacture": "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"numeroFacture"}, fieldsOf(t, w))
}

func TestDeleteRules(t *testing.T) {
	api := newTestAPI(t)
	siteID := api.site("")
	p := api.create("/api/prestations", map[string]any{"siteId": siteID, "datePrestation": "2026-10-19", "nbManutentionnaires": 2})
	e := api.create("/api/employes", map[string]any{"nom": "Martin", "prenom": "Pierre"})
	a := api.create(fmt.Sprintf("/api/prestations/%d/affectations", idOf(p)), map[string]any{"employeId": idOf(e)})
	assert.Equal(t, true, a["present"])

	// double affectation refusée
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, fmt.Sprintf("/api/prestations/%d/affectations", idOf(p)), map[string]any{"employeId": idOf(e)}).Code)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, fmt.Sprintf("/api/sites/%d", siteID), nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, fmt.Sprintf("/api/employes/%d", idOf(e)), nil).Code)

	var planning []map[string]any
	decode(t, api.do(http.MethodGet, fmt.Sprintf("/api/employes/%d/planning", idOf(e)), nil), &planning)
	require.Len(t, planning, 1)
	assert.Equal(t, "Entrepôt Central", planning[0]["siteNom"])

	// sans facture, la prestation part avec ses affectations
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, fmt.Sprintf("/api/prestations/%d", idOf(p)), nil).Code)
	left, err := api.store.AffectationsByEmploye(context.Background(), uint(idOf(e)))
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, fmt.Sprintf("/api/employes/%d", idOf(e)), nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, fmt.Sprintf("/api/sites/%d", siteID), nil).Code)

	p2 := api.create("/api/prestations", map[string]any{"siteId": api.site(""), "datePrestation": "2026-10-20", "nbManutentionnaires": 1})
	api.create("/api/factures", map[string]any{"prestationId": idOf(p2), "montantHt": "100", "tva": "20"})
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, fmt.Sprintf("/api/prestations/%d", idOf(p2)), nil).Code)
}

func TestVehicules(t *testing.T) {
	api := newTestAPI(t)

	v := api.create("/api/vehicules", map[string]any{"immatriculation": "ab-123-cd", "typeVehicule": "Camion 20m³"})
	assert.Equal(t, "AB-123-CD", v["immatriculation"])
	assert.Equal(t, "disponible", v["statut"])

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/vehicules", map[string]any{"immatriculation": "AB-123-CD"}).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, fmt.Sprintf("/api/vehicules/%d", idOf(v)), map[string]any{"statut": "volé"}).Code)

	w := api.do(http.MethodPut, fmt.Sprintf("/api/vehicules/%d", idOf(v)), map[string]any{"statut": "maintenance", "immatriculation": "AB-123-CD"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var alerts []map[string]any
	decode(t, api.do(http.MethodGet, "/api/dashboard/alerts", nil), &alerts)
	require.NotEmpty(t, alerts)
	assert.Equal(t, "warning", alerts[0]["type"])
}

func TestDashboardAndCalendar(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, database.SeedDemo(context.Background(), api.store, fixedNow, zap.NewNop()))

	var kpis map[string]any
	decode(t, api.do(http.MethodGet, "/api/dashboard/kpis", nil), &kpis)
	assert.Equal(t, float64(2), kpis["prestationsMensuel"])
	assert.Equal(t, float64(100), kpis["tauxPaiement"])
	assert.Equal(t, float64(3), kpis["nouveauxClients"])
	assert.Equal(t, "0", kpis["caMensuel"])

	var planning []map[string]any
	decode(t, api.do(http.MethodGet, "/api/dashboard/planning-jour", nil), &planning)
	require.Len(t, planning, 2)
	assert.Equal(t, "08:00", planning[0]["heure"])
	assert.Equal(t, "Paris • 4 manutentionnaires • 1 camion", planning[0]["description"])

	var charts map[string]any
	decode(t, api.do(http.MethodGet, "/api/dashboard/charts", nil), &charts)
	assert.Contains(t, charts, "caEvolution")

	var events []map[string]any
	decode(t, api.do(http.MethodGet, "/api/prestations/calendar", nil), &events)
	require.Len(t, events, 2)
	assert.Equal(t, "#3b82f6", events[0]["backgroundColor"])
	assert.Equal(t, "2026-10-19T08:00:00", events[0]["start"])

	decode(t, api.do(http.MethodGet, "/api/prestations/calendar?siteId=1", nil), &events)
	assert.Len(t, events, 1)
}

func TestExport(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, database.SeedDemo(context.Background(), api.store, fixedNow, zap.NewNop()))

	w := api.do(http.MethodGet, "/api/reports/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "export-2026-10-19.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Prestations")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestAuditLog(t *testing.T) {
	api := newTestAPI(t)
	api.site("")
	api.create("/api/employes", map[string]any{"nom": "Petit", "prenom": "Sophie"})

	var logs []map[string]any
	decode(t, api.do(http.MethodGet, "/api/audit", nil), &logs)
	require.Len(t, logs, 2)
	assert.Equal(t, "employe", logs[0]["entity"])
	assert.Equal(t, "site", logs[1]["entity"])
}
