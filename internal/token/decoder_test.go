package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/hiredesk-session/internal/domain"
)

func buildCredential(t *testing.T, payload map[string]any) string {
	t.Helper()

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	segment := base64.RawURLEncoding.EncodeToString(raw)
	return "eyJhbGciOiJIUzI1NiJ9." + segment + ".sig"
}

func validPayload(exp int64) map[string]any {
	return map[string]any{
		"sub":         "user-42",
		"fio":         "Ann Petrova",
		"username":    "ann",
		"email":       "ann@example.com",
		"companyName": "Acme",
		"role":        "HR",
		"exp":         exp,
	}
}

func TestDecodeValid(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute).Unix()
	claims, err := Decode(buildCredential(t, validPayload(exp)))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	if claims.SubjectID != "user-42" {
		t.Errorf("SubjectID = %q, want user-42", claims.SubjectID)
	}
	if claims.Role != domain.RoleHR {
		t.Errorf("Role = %q, want HR", claims.Role)
	}
	if claims.ExpiresAt.Unix() != exp {
		t.Errorf("ExpiresAt = %d, want %d", claims.ExpiresAt.Unix(), exp)
	}

	identity := claims.Identity()
	want := domain.Identity{
		SubjectID:   "user-42",
		FullName:    "Ann Petrova",
		Username:    "ann",
		Email:       "ann@example.com",
		CompanyName: "Acme",
		Role:        domain.RoleHR,
	}
	if identity != want {
		t.Errorf("Identity() = %+v, want %+v", identity, want)
	}
}

func TestDecodeOptionalFieldsDegrade(t *testing.T) {
	payload := map[string]any{
		"sub":  "user-1",
		"role": "CANDIDATE",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}

	claims, err := Decode(buildCredential(t, payload))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if claims.FullName != "" || claims.Username != "" || claims.Email != "" || claims.CompanyName != "" {
		t.Errorf("display fields should be empty, got %+v", claims)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name       string
		credential string
	}{
		{"empty", ""},
		{"single segment", "justonesegment"},
		{"payload not base64", "header.!!!not-base64!!!.sig"},
		{"payload not json", "header." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig"},
		{"exp not numeric", "header." + base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"x","role":"HR","exp":"soon"}`)) + ".sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.credential)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Decode error = %v, want *DecodeError", err)
			}
			if decodeErr.Kind != KindMalformed {
				t.Errorf("Kind = %q, want %q", decodeErr.Kind, KindMalformed)
			}
		})
	}
}

func TestDecodeMissingField(t *testing.T) {
	exp := time.Now().Add(time.Minute).Unix()
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing sub", func(p map[string]any) { delete(p, "sub") }, "sub"},
		{"missing role", func(p map[string]any) { delete(p, "role") }, "role"},
		{"unknown role", func(p map[string]any) { p["role"] = "SUPERUSER" }, "role"},
		{"missing exp", func(p map[string]any) { delete(p, "exp") }, "exp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload(exp)
			tt.mutate(payload)

			_, err := Decode(buildCredential(t, payload))
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Decode error = %v, want *DecodeError", err)
			}
			if decodeErr.Kind != KindMissingField {
				t.Errorf("Kind = %q, want %q", decodeErr.Kind, KindMissingField)
			}
			if decodeErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", decodeErr.Field, tt.field)
			}
		})
	}
}

func TestIsExpiredBoundary(t *testing.T) {
	exp := time.Unix(1_900_000_000, 0)
	claims, err := Decode(buildCredential(t, validPayload(exp.Unix())))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	if IsExpired(claims, exp.Add(-time.Second)) {
		t.Error("claims expired one second before exp")
	}
	if !IsExpired(claims, exp) {
		t.Error("claims not expired at exp")
	}
	if !IsExpired(claims, exp.Add(time.Second)) {
		t.Error("claims not expired after exp")
	}
}
