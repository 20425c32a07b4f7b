package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
)

func TestDecodeCreate(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantField    string
		wantExpected string
		wantActual   string
	}{
		{"full example", `{"telegramId":123456789,"username":"test_username","fullName":"Test Full Name"}`, "", "", ""},
		{"id only", `{"telegramId":1}`, "", "", ""},
		{"negative id", `{"telegramId":-1001234567890}`, "", "", ""},
		{"overrides", `{"telegramId":2,"balance":50,"isManager":true,"isAdmin":true}`, "", "", ""},
		{"null optional strings", `{"telegramId":3,"username":null,"fullName":null}`, "", "", ""},
		{"ignores read-only and unknown", `{"telegramId":4,"created":"2020-01-01","foo":1}`, "", "", ""},
		{"string id", `{"telegramId":"invalid"}`, "telegramId", "int", "string"},
		{"float id", `{"telegramId":1.5}`, "telegramId", "int", "float"},
		{"bool id", `{"telegramId":true}`, "telegramId", "int", "bool"},
		{"missing id", `{"username":"x"}`, "telegramId", "int", "null"},
		{"null id", `{"telegramId":null}`, "telegramId", "int", "null"},
		{"overflow id", `{"telegramId":99999999999999999999}`, "telegramId", "int", "int"},
		{"numeric username", `{"telegramId":5,"username":42}`, "username", "string", "int"},
		{"array full name", `{"telegramId":5,"fullName":["a"]}`, "fullName", "string", "array"},
		{"string balance", `{"telegramId":5,"balance":"10"}`, "balance", "int", "string"},
		{"null flag", `{"telegramId":5,"isAdmin":null}`, "isAdmin", "bool", "null"},
		{"int flag", `{"telegramId":5,"isManager":1}`, "isManager", "bool", "int"},
		{"long username", `{"telegramId":5,"username":"` + strings.Repeat("u", 41) + `"}`, "username", "string(max=40)", "string"},
		{"long full name", `{"telegramId":5,"fullName":"` + strings.Repeat("f", 201) + `"}`, "fullName", "string(max=200)", "string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := DecodeCreate([]byte(tt.body))
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("DecodeCreate() unexpected error: %v", err)
				}
				if user == nil {
					t.Fatal("DecodeCreate() returned nil user")
				}
				return
			}
			var verr *entity.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("DecodeCreate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField || verr.Expected != tt.wantExpected || verr.Actual != tt.wantActual {
				t.Errorf("violation = %+v, want field=%s expected=%s actual=%s", verr, tt.wantField, tt.wantExpected, tt.wantActual)
			}
		})
	}
}

func TestDecodeCreate_Defaults(t *testing.T) {
	user, err := DecodeCreate([]byte(`{"telegramId":123456789,"username":"test_username","fullName":"Test Full Name"}`))
	if err != nil {
		t.Fatalf("DecodeCreate() error: %v", err)
	}
	if user.TelegramID != 123456789 || *user.Username != "test_username" || *user.FullName != "Test Full Name" {
		t.Errorf("decoded %+v", user)
	}
	if user.Balance != 0 || user.IsManager || user.IsAdmin {
		t.Errorf("defaults not applied: %+v", user)
	}
}

func TestDecodeCreate_TypeMismatchMessage(t *testing.T) {
	_, err := DecodeCreate([]byte(`{"telegramId":"invalid"}`))
	var verr *entity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v", err)
	}
	want := `The type of the "telegramId" attribute must be "int", "string" given.`
	if verr.Message != want {
		t.Errorf("Message = %q, want %q", verr.Message, want)
	}
}

func TestDecodeCreate_MalformedBody(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"x"`, `{"telegramId":`, `42`} {
		if _, err := DecodeCreate([]byte(body)); !errors.Is(err, ErrMalformedBody) {
			t.Errorf("DecodeCreate(%s) error = %v, want ErrMalformedBody", body, err)
		}
	}
}

func TestDecodePatch(t *testing.T) {
	p, err := DecodePatch([]byte(`{"username":"updated username"}`), 111222333)
	if err != nil {
		t.Fatalf("DecodePatch() error: %v", err)
	}
	if !p.Username.Set || *p.Username.Value != "updated username" {
		t.Errorf("Username = %+v", p.Username)
	}
	if p.FullName.Set || p.Balance.Set || p.IsManager.Set || p.IsAdmin.Set {
		t.Errorf("unsupplied fields marked set: %+v", p)
	}

	p, err = DecodePatch([]byte(`{"fullName":null,"telegramId":111222333}`), 111222333)
	if err != nil {
		t.Fatalf("DecodePatch() with same id error: %v", err)
	}
	if !p.FullName.Set || p.FullName.Value != nil {
		t.Errorf("FullName = %+v, want explicit null", p.FullName)
	}

	p, err = DecodePatch([]byte(``), 1)
	if err != nil || !p.Empty() {
		t.Errorf("empty body = %+v, %v", p, err)
	}

	var verr *entity.ValidationError
	if _, err := DecodePatch([]byte(`{"telegramId":1}`), 2); !errors.As(err, &verr) || verr.Field != "telegramId" {
		t.Errorf("changing telegramId error = %v", err)
	}
	if _, err := DecodePatch([]byte(`{"balance":1.25}`), 2); !errors.As(err, &verr) || verr.Field != "balance" {
		t.Errorf("float balance error = %v", err)
	}
}
