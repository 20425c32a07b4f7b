package entity

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestTelegramUser_Validate(t *testing.T) {
	tests := []struct {
		name      string
		user      TelegramUser
		wantField string
	}{
		{"empty optional fields", TelegramUser{TelegramID: 1}, ""},
		{"max username", TelegramUser{Username: strPtr(strings.Repeat("a", 40))}, ""},
		{"username too long", TelegramUser{Username: strPtr(strings.Repeat("a", 41))}, "username"},
		{"multibyte username within limit", TelegramUser{Username: strPtr(strings.Repeat("ж", 40))}, ""},
		{"max full name", TelegramUser{FullName: strPtr(strings.Repeat("b", 200))}, ""},
		{"full name too long", TelegramUser{FullName: strPtr(strings.Repeat("b", 201))}, "fullName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestTelegramUser_Stamps(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	u := &TelegramUser{TelegramID: 42}
	u.StampCreated(created)

	if !u.Created.Equal(created) || !u.Updated.Equal(created) {
		t.Fatalf("StampCreated: got created=%v updated=%v", u.Created, u.Updated)
	}

	later := created.Add(time.Minute)
	u.StampUpdated(later)
	if !u.Created.Equal(created) {
		t.Errorf("StampUpdated changed Created to %v", u.Created)
	}
	if !u.Updated.Equal(later) {
		t.Errorf("Updated = %v, want %v", u.Updated, later)
	}

	u.StampUpdated(created.Add(-time.Hour))
	if u.Updated.Before(u.Created) {
		t.Errorf("Updated %v moved before Created %v", u.Updated, u.Created)
	}
}

func TestTelegramUser_Apply(t *testing.T) {
	u := &TelegramUser{
		TelegramID: 111222333,
		Username:   strPtr("old"),
		FullName:   strPtr("Old Name"),
		Balance:    10,
		IsManager:  true,
	}

	u.Apply(Patch{Username: Some(strPtr("updated username"))})

	if *u.Username != "updated username" {
		t.Errorf("Username = %q", *u.Username)
	}
	if u.FullName == nil || *u.FullName != "Old Name" {
		t.Errorf("FullName changed: %v", u.FullName)
	}
	if u.Balance != 10 || !u.IsManager || u.IsAdmin {
		t.Errorf("unrelated fields changed: %+v", u)
	}

	u.Apply(Patch{FullName: Some[*string](nil), Balance: Some[int64](0), IsAdmin: Some(true)})
	if u.FullName != nil {
		t.Errorf("FullName = %v, want nil", *u.FullName)
	}
	if u.Balance != 0 || !u.IsAdmin {
		t.Errorf("Balance/IsAdmin not applied: %+v", u)
	}
	if u.TelegramID != 111222333 {
		t.Errorf("TelegramID changed to %d", u.TelegramID)
	}
}

func TestTelegramUser_CloneIsDeep(t *testing.T) {
	u := &TelegramUser{TelegramID: 1, Username: strPtr("a")}
	c := u.Clone()
	*c.Username = "b"
	if *u.Username != "a" {
		t.Errorf("Clone shares Username pointer")
	}
}

func TestPatch_Validate(t *testing.T) {
	p := Patch{FullName: Some(strPtr(strings.Repeat("x", 201)))}
	var verr *ValidationError
	if err := p.Validate(); !errors.As(err, &verr) || verr.Field != "fullName" {
		t.Fatalf("Validate() = %v, want fullName violation", err)
	}
	if err := (Patch{Username: Some[*string](nil)}).Validate(); err != nil {
		t.Fatalf("null username should be valid: %v", err)
	}
	if !(Patch{}).Empty() {
		t.Error("zero Patch should be Empty")
	}
}

func TestTypeMismatch_Message(t *testing.T) {
	err := TypeMismatch("telegramId", "int", "string")
	want := `The type of the "telegramId" attribute must be "int", "string" given.`
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
}
