package entity

import (
	"strings"
	"testing"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
)

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name     string
		username string
		wantKind apperrors.Kind
	}{
		{"ok ascii", "minsuk", ""},
		{"ok exactly 10", strings.Repeat("a", 10), ""},
		{"too long 11", strings.Repeat("a", 11), apperrors.KindInvalidUsernameLength},
		{"empty", "", apperrors.KindEmptyField},
		// Korean usernames count code points, not bytes.
		{"ok korean 9", "사용자이름테스트열", ""},
		{"too long korean 11", "사용자이름테스트열한자", apperrors.KindInvalidUsernameLength},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateUsername(c.username)
			if c.wantKind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.KindOf(err); got != c.wantKind {
				t.Errorf("kind = %q, want %q", got, c.wantKind)
			}
		})
	}
}

func TestUsernameLengthMessage(t *testing.T) {
	err := ValidateUsername("verylongusername123")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Username must be 10 characters or less" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestNewMember(t *testing.T) {
	addr := Address{Line: "123 Main St", Detail: "Apt 4", PostalCode: 12345}
	m, err := NewMember("minsuk", "minsuk@example.com", "hashed", "Minsuk", addr, RoleUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Role != RoleUser {
		t.Errorf("role = %q", m.Role)
	}
	if m.Address != addr {
		t.Errorf("address = %+v", m.Address)
	}
	if m.Blocked {
		t.Error("new member should not be blocked")
	}
}

func TestNewMemberRequiredFields(t *testing.T) {
	addr := Address{}
	if _, err := NewMember("minsuk", "", "hashed", "", addr, RoleUser); apperrors.KindOf(err) != apperrors.KindEmptyField {
		t.Errorf("missing email: kind = %q", apperrors.KindOf(err))
	}
	if _, err := NewMember("minsuk", "minsuk@example.com", "", "", addr, RoleUser); apperrors.KindOf(err) != apperrors.KindEmptyField {
		t.Errorf("missing password hash: kind = %q", apperrors.KindOf(err))
	}
	if _, err := NewMember("", "minsuk@example.com", "hashed", "", addr, RoleUser); apperrors.KindOf(err) != apperrors.KindEmptyField {
		t.Errorf("missing username: kind = %q", apperrors.KindOf(err))
	}
}

func TestMemberUpdate(t *testing.T) {
	m, err := NewMember("before", "before@example.com", "hashed", "Before", Address{}, RoleUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addr := Address{Line: "456 Oak Ave", PostalCode: 54321}
	if err := m.Update("after@example.com", "after", "After", addr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Email != "after@example.com" || m.Username != "after" || m.Name != "After" {
		t.Errorf("update not applied: %+v", m)
	}
	if m.Address != addr {
		t.Errorf("address = %+v", m.Address)
	}
}

func TestMemberUpdateRejectsLongUsername(t *testing.T) {
	m, _ := NewMember("before", "before@example.com", "hashed", "", Address{}, RoleUser)
	err := m.Update("after@example.com", "waytoolongusername", "", Address{})
	if apperrors.KindOf(err) != apperrors.KindInvalidUsernameLength {
		t.Errorf("kind = %q", apperrors.KindOf(err))
	}
	if m.Username != "before" {
		t.Errorf("failed update must not mutate: username = %q", m.Username)
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("USER"); err != nil || r != RoleUser {
		t.Errorf("ParseRole(USER) = %q, %v", r, err)
	}
	if r, err := ParseRole("ADMIN"); err != nil || r != RoleAdmin {
		t.Errorf("ParseRole(ADMIN) = %q, %v", r, err)
	}
	if _, err := ParseRole("GUEST"); apperrors.KindOf(err) != apperrors.KindInvalidArgument {
		t.Errorf("ParseRole(GUEST): kind = %q", apperrors.KindOf(err))
	}
}

func TestChangePasswordHash(t *testing.T) {
	m, _ := NewMember("minsuk", "minsuk@example.com", "oldhash", "", Address{}, RoleUser)
	if err := m.ChangePasswordHash("newhash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.PasswordHash != "newhash" {
		t.Errorf("password hash = %q", m.PasswordHash)
	}
	if err := m.ChangePasswordHash(""); apperrors.KindOf(err) != apperrors.KindEmptyField {
		t.Errorf("empty hash: kind = %q", apperrors.KindOf(err))
	}
}
