package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supersaha/server/internal/auth"
	httphandler "github.com/supersaha/server/internal/http"
	"github.com/supersaha/server/internal/http/handlers"
	"github.com/supersaha/server/internal/repo"
	"github.com/supersaha/server/internal/verify"
)

func TestMain(m *testing.M) {
	// Set env if unset. Do NOT set DATABASE_URL; DB-backed tests skip if missing.
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "test-jwt-secret-at-least-32-characters-long")
	}
	if os.Getenv("PROVIDER_API_KEY") == "" {
		os.Setenv("PROVIDER_API_KEY", "test-key")
	}
	if os.Getenv("PROVIDER_API_SECRET") == "" {
		os.Setenv("PROVIDER_API_SECRET", "test-secret")
	}

	code := m.Run()
	os.Exit(code)
}

// newGateway builds a provider client pointed at the stub.
func newGateway(stub *providerStub) *verify.Client {
	return verify.NewClient(verify.Config{
		APIKey:        "test-key",
		APISecret:     "test-secret",
		Brand:         "SuperSaha",
		Workflow:      "6",
		VerifyBaseURL: stub.Server.URL,
		SMSBaseURL:    stub.Server.URL,
	})
}

// newFrontDoorServer wires the full router around the stubbed provider. The
// verification front door holds no state, so no database is needed; the
// protected routes are simply never exercised here.
func newFrontDoorServer(t *testing.T, stub *providerStub) *httptest.Server {
	t.Helper()

	gateway := newGateway(stub)
	jwtService := auth.NewJWTService("test-jwt-secret-at-least-32-characters-long")
	playerRepo := repo.NewPlayerRepo(nil)
	authService := auth.NewAuthService(gateway, jwtService, playerRepo, repo.NewRefreshRepo(nil))

	router := httphandler.NewRouter(
		handlers.NewVerifyHandler(gateway),
		handlers.NewAuthHandler(authService, gateway),
		handlers.NewPlayerHandler(playerRepo),
		handlers.NewDeviceHandler(repo.NewDeviceRepo(nil)),
		jwtService,
		playerRepo,
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, client *http.Client, url string, payload any) (*http.Response, string) {
	t.Helper()
	bodyBytes, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(bodyBytes))
	require.NoError(t, err)
	respBody := readBody(resp)
	resp.Body.Close()
	return resp, respBody
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func TestVerifyFrontDoor(t *testing.T) {
	stub := newProviderStub()
	defer stub.Close()

	server := newFrontDoorServer(t, stub)
	baseURL := server.URL
	client := server.Client()

	t.Run("A_Status", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/status")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "online", body["status"])
	})

	t.Run("B_StartAndCheck", func(t *testing.T) {
		resp, body := postJSON(t, client, baseURL+"/verify/start", map[string]string{"phone": "05551234567"})
		assert.Equal(t, http.StatusOK, resp.StatusCode, "start must return 200; body: %s", body)

		var startRes struct {
			Success   bool   `json:"success"`
			RequestID string `json:"request_id"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &startRes))
		assert.True(t, startRes.Success)
		assert.Equal(t, "RQ-TEST", startRes.RequestID)

		// The upstream call carried the bare-digit number and the fixed
		// SMS-only workflow selector.
		q := stub.LastStartQuery()
		assert.Equal(t, "905551234567", q.Get("number"))
		assert.Equal(t, "6", q.Get("workflow_id"))
		assert.Equal(t, "SuperSaha", q.Get("brand"))

		resp, body = postJSON(t, client, baseURL+"/verify/check", map[string]string{"request_id": startRes.RequestID, "code": "123456"})
		assert.Equal(t, http.StatusOK, resp.StatusCode, "check must return 200; body: %s", body)
		var checkRes struct {
			Success bool `json:"success"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &checkRes))
		assert.True(t, checkRes.Success)
	})

	t.Run("C_CheckMissingCode", func(t *testing.T) {
		before := stub.CheckCalls()
		resp, body := postJSON(t, client, baseURL+"/verify/check", map[string]string{"request_id": "abc"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)
		assert.Equal(t, before, stub.CheckCalls(), "upstream must not be called when code is missing")
	})

	t.Run("D_CheckWrongCode", func(t *testing.T) {
		resp, body := postJSON(t, client, baseURL+"/verify/check", map[string]string{"request_id": "RQ-TEST", "code": "0000"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &res))
		assert.False(t, res.Success)
		assert.Equal(t, "The code provided does not match the expected value", res.Error)
	})

	t.Run("E_Cancel", func(t *testing.T) {
		resp, body := postJSON(t, client, baseURL+"/verify/cancel", map[string]string{"request_id": "RQ-TEST"})
		assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
	})

	t.Run("F_SendSMS", func(t *testing.T) {
		resp, body := postJSON(t, client, baseURL+"/sms/send", map[string]string{"to": "0555 123 45 67", "text": "hi"})
		assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
		var res struct {
			Success   bool   `json:"success"`
			MessageID string `json:"message_id"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &res))
		assert.True(t, res.Success)
		assert.Equal(t, "MSG-TEST", res.MessageID)
		assert.Equal(t, "905551234567", stub.LastSMSForm().Get("to"))
	})

	t.Run("G_SendSMSFailure", func(t *testing.T) {
		stub.smsBody = `{"messages":[{"status":"1","error_text":"Insufficient balance"}]}`
		defer func() { stub.smsBody = `{"messages":[{"status":"0","message_id":"MSG-TEST"}]}` }()

		resp, body := postJSON(t, client, baseURL+"/sms/send", map[string]string{"to": "05551234567", "text": "hi"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &res))
		assert.False(t, res.Success)
		assert.Equal(t, "Insufficient balance", res.Error)
	})

	t.Run("H_MalformedBody", func(t *testing.T) {
		resp, err := client.Post(baseURL+"/verify/start", "application/json", bytes.NewReader([]byte(`{not json`)))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
