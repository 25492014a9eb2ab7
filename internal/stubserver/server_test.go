package stubserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hiredesk-session/internal/authclient"
	"github.com/spec-kit/hiredesk-session/internal/config"
	"github.com/spec-kit/hiredesk-session/internal/domain"
	"github.com/spec-kit/hiredesk-session/internal/observability"
	"github.com/spec-kit/hiredesk-session/internal/token"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.StubConfig{
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 10,
		BcryptCost:      bcrypt.MinCost,
	}
	return NewApp(cfg, NewMemoryRegistry(), zap.NewNop(), observability.NewMetrics())
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) authclient.Envelope {
	t.Helper()

	defer resp.Body.Close()
	var env authclient.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func annSignUp() authclient.SignUpRequest {
	return authclient.SignUpRequest{
		FullName:    "Ann Petrova",
		Username:    "ann",
		Email:       "ann@example.com",
		Password:    "secret1",
		CompanyName: "Acme",
		Role:        domain.RoleHR,
	}
}

func TestSignUpThenSignIn(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/auth/signup", annSignUp())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status = %d", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if !env.Success {
		t.Fatalf("signup refused: %s", env.Description)
	}
	if env.Token != "" {
		t.Error("signup must not hand out a token")
	}

	resp = postJSON(t, app, "/api/auth/signin", authclient.Credentials{Username: "ann", Password: "secret1"})
	env = decodeEnvelope(t, resp)
	if !env.Success || env.Token == "" {
		t.Fatalf("signin envelope = %+v", env)
	}

	claims, err := token.Decode(env.Token)
	if err != nil {
		t.Fatalf("issued token does not decode: %v", err)
	}
	if claims.Username != "ann" || claims.Role != domain.RoleHR || claims.CompanyName != "Acme" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.SubjectID == "" {
		t.Error("issued token missing subject id")
	}
}

func TestSignUpDuplicateRefused(t *testing.T) {
	app := newTestApp(t)

	if env := decodeEnvelope(t, postJSON(t, app, "/api/auth/signup", annSignUp())); !env.Success {
		t.Fatalf("first signup refused: %s", env.Description)
	}

	env := decodeEnvelope(t, postJSON(t, app, "/api/auth/signup", annSignUp()))
	if env.Success {
		t.Error("duplicate signup must be refused")
	}
	if env.Description == "" {
		t.Error("refusal must carry a description")
	}
}

func TestSignUpValidation(t *testing.T) {
	app := newTestApp(t)

	missing := annSignUp()
	missing.Password = ""
	if env := decodeEnvelope(t, postJSON(t, app, "/api/auth/signup", missing)); env.Success {
		t.Error("signup without password must be refused")
	}

	badRole := annSignUp()
	badRole.Role = "SUPERUSER"
	if env := decodeEnvelope(t, postJSON(t, app, "/api/auth/signup", badRole)); env.Success {
		t.Error("signup with unknown role must be refused")
	}
}

func TestSignInWrongPassword(t *testing.T) {
	app := newTestApp(t)
	postJSON(t, app, "/api/auth/signup", annSignUp())

	env := decodeEnvelope(t, postJSON(t, app, "/api/auth/signin", authclient.Credentials{Username: "ann", Password: "wrong"}))
	if env.Success {
		t.Error("signin with wrong password must be refused")
	}

	env = decodeEnvelope(t, postJSON(t, app, "/api/auth/signin", authclient.Credentials{Username: "nobody", Password: "x"}))
	if env.Success {
		t.Error("signin for unknown account must be refused")
	}
}

func TestLogoutAcknowledges(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/auth/logout", map[string]string{"token": "a.b.c"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}
	ack, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read ack: %v", err)
	}
	if string(ack) != "logged out" {
		t.Errorf("ack = %q", ack)
	}
}
