//go:build integration

package router_test

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v
//
// Covered flows:
//   - login → alta de trámite → autorización → impresión del Formato 027
//   - tope de dos dotaciones contra la base real
//   - bitácora asíncrona: el worker persiste lo que el dispatcher encola

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mbcx07/SISTRA/internal/config"
	"github.com/mbcx07/SISTRA/internal/infra"
	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/rbac"
	"github.com/mbcx07/SISTRA/internal/repository"
	"github.com/mbcx07/SISTRA/internal/router"
	"github.com/mbcx07/SISTRA/internal/worker"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// memAlmacen keeps uploads in memory so the e2e suite does not need MinIO.
type memAlmacen struct{ objetos map[string][]byte }

func (m *memAlmacen) Upload(_ context.Context, folio, nombre string, data []byte) (string, error) {
	if m.objetos == nil {
		m.objetos = make(map[string][]byte)
	}
	key := folio + "/" + nombre
	m.objetos[key] = data
	return key, nil
}

func (m *memAlmacen) PresignedURL(_ context.Context, objeto string) (string, error) {
	return "mem://" + objeto, nil
}

func (m *memAlmacen) Remove(_ context.Context, objeto string) error {
	delete(m.objetos, objeto)
	return nil
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	tokens map[rbac.Role]string
	engine *gin.Engine
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("sistra_test"),
		postgres.WithUsername("sistra"),
		postgres.WithPassword("sistra"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, pgC)

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, rdC)

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		OOAD:               "JALISCO",
		Domain:             "e2e.test",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Worker asíncrono de bitácora, igual que en producción.
	workerCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)
	bitacoraRepo := repository.NewBitacoraRepository(db)
	worker.StartWorkerPool(workerCtx, rdb, map[string]worker.Handler{
		worker.QueueBitacora: worker.NewBitacoraWorker(bitacoraRepo, rdb),
	}, cfg.WorkerPoolSize)

	// Una cuenta por rol.
	usuarioRepo := repository.NewUsuarioRepository(db)
	cuentas := map[rbac.Role]string{
		rbac.AdminSistema:         "ADMIN01",
		rbac.CapturistaUnidad:     "CAPT01",
		rbac.AutorizadorJSDPDSPNC: "AUTO01",
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("ClaveE2E#2026"), bcrypt.MinCost)
	require.NoError(t, err)
	for rol, matricula := range cuentas {
		require.NoError(t, usuarioRepo.Create(ctx, &model.Usuario{
			ID:           uuid.New(),
			Matricula:    matricula,
			Nombre:       "Cuenta " + matricula,
			PasswordHash: string(hash),
			Role:         rol,
			Unidad:       "UMF-23",
			OOAD:         "JALISCO",
			Activo:       true,
		}))
	}

	r := router.New(cfg, db, rdb, &memAlmacen{})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	tokens := make(map[rbac.Role]string, len(cuentas))
	for rol, matricula := range cuentas {
		resp := do(t, srv, "POST", "/v1/auth/login",
			jsonBody(t, map[string]string{"matricula": matricula, "password": "ClaveE2E#2026"}), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			AccessToken string `json:"access_token"`
		}
		decodeJSON(t, resp, &body)
		require.NotEmpty(t, body.AccessToken)
		tokens[rol] = body.AccessToken
	}

	return &testEnv{server: srv, tokens: tokens, engine: r, db: db}
}

func solicitudBody(nss string) map[string]any {
	return map[string]any{
		"beneficiario": map[string]any{
			"tipo":             "TRABAJADOR",
			"nombre":           "Pedro",
			"apellido_paterno": "Sánchez",
			"nss_trabajador":   nss,
		},
		"receta": map[string]any{
			"folio_receta_imss": "R-2026-0042",
			"descripcion_lente": "Monofocal CR-39 antirreflejante",
		},
		"contrato_colectivo": "CCT-2025",
		"lugar_solicitud":    "GUADALAJARA",
		"importe_solicitado": "1800.00",
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_AltaAutorizacionImpresion(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Alta por el capturista
	resp := do(t, env.server, "POST", "/v1/tramites",
		jsonBody(t, solicitudBody("12345678901")), env.tokens[rbac.CapturistaUnidad])
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var creado struct {
		ID      string `json:"id"`
		Folio   string `json:"folio"`
		Estatus string `json:"estatus"`
	}
	decodeJSON(t, resp, &creado)
	assert.Equal(t, "EN_REVISION_DOCUMENTAL", creado.Estatus)
	assert.Contains(t, creado.Folio, "JALISCO-UMF-23-")

	// 2. Imprimir antes de autorizar: rebota
	resp = do(t, env.server, "POST", fmt.Sprintf("/v1/tramites/%s/impresiones", creado.ID),
		jsonBody(t, map[string]any{"tipo_documento": "formato_027"}), env.tokens[rbac.CapturistaUnidad])
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// 3. Autorización
	resp = do(t, env.server, "PUT", "/v1/tramites/"+creado.ID,
		jsonBody(t, map[string]any{
			"estatus": map[string]any{"estatus": "AUTORIZADO", "importe_autorizado": "1500.00"},
		}), env.tokens[rbac.AutorizadorJSDPDSPNC])
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var autorizado struct {
		Estatus           string `json:"estatus"`
		FirmaAutorizacion string `json:"firma_autorizacion"`
	}
	decodeJSON(t, resp, &autorizado)
	assert.Equal(t, "AUTORIZADO", autorizado.Estatus)
	assert.Contains(t, autorizado.FirmaAutorizacion, "AUTORIZADO ELECTRÓNICAMENTE POR")

	// 4. Formato 027 original en PDF
	resp = do(t, env.server, "POST", fmt.Sprintf("/v1/tramites/%s/impresiones", creado.ID),
		jsonBody(t, map[string]any{"tipo_documento": "formato_027"}), env.tokens[rbac.CapturistaUnidad])
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "ORIGINAL", resp.Header.Get("X-Emision"))
	resp.Body.Close()

	// 5. Reimpresión sin motivo: rebota; con motivo: pasa
	resp = do(t, env.server, "POST", fmt.Sprintf("/v1/tramites/%s/impresiones", creado.ID),
		jsonBody(t, map[string]any{"tipo_documento": "formato_027"}), env.tokens[rbac.CapturistaUnidad])
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "POST", fmt.Sprintf("/v1/tramites/%s/impresiones", creado.ID),
		jsonBody(t, map[string]any{"tipo_documento": "formato_027", "motivo": "Extravío del original"}),
		env.tokens[rbac.CapturistaUnidad])
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "REIMPRESION", resp.Header.Get("X-Emision"))
	resp.Body.Close()

	// 6. La bitácora asíncrona alcanzó la base
	require.Eventually(t, func() bool {
		entradas, err := repository.NewBitacoraRepository(env.db).
			ListByTramite(context.Background(), uuid.MustParse(creado.ID), 100)
		return err == nil && len(entradas) >= 3
	}, 10*time.Second, 200*time.Millisecond, "la bitácora nunca llegó")
}

func TestE2E_TopeDosDotaciones(t *testing.T) {
	env := setupTestEnv(t)
	token := env.tokens[rbac.CapturistaUnidad]

	for i := 0; i < 2; i++ {
		resp := do(t, env.server, "POST", "/v1/tramites",
			jsonBody(t, solicitudBody("98765432109")), token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := do(t, env.server, "POST", "/v1/tramites",
		jsonBody(t, solicitudBody("98765432109")), token)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var cuerpo struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	}
	decodeJSON(t, resp, &cuerpo)
	assert.Equal(t, "CAP_EXCEEDED", cuerpo.Code)
	assert.Contains(t, cuerpo.Detail, "IMPROCEDENTE")
}

func TestE2E_EliminarSoloAdmin(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/tramites",
		jsonBody(t, solicitudBody("11111111111")), env.tokens[rbac.CapturistaUnidad])
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var creado struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &creado)

	resp = do(t, env.server, "DELETE", "/v1/tramites/"+creado.ID, nil, env.tokens[rbac.CapturistaUnidad])
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "DELETE", "/v1/tramites/"+creado.ID, nil, env.tokens[rbac.AdminSistema])
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}
