package owner

import "testing"

func TestPasswordHashAndVerify(t *testing.T) {
	salt, err := GenerateSaltHex()
	if err != nil {
		t.Fatalf("GenerateSaltHex: %v", err)
	}
	hash, err := HashPassword("p@ssw0rd", salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if !VerifyPassword("p@ssw0rd", salt, hash) {
		t.Fatalf("expected verify ok")
	}
	if VerifyPassword("wrong", salt, hash) {
		t.Fatalf("expected verify fail")
	}
}

func TestRolesRoundTrip(t *testing.T) {
	o := Owner{Roles: RolesJoin([]string{"user", " staff "})}
	got := o.RolesSlice()
	if len(got) != 2 || got[0] != "user" || got[1] != "staff" {
		t.Fatalf("roles mismatch: %#v", got)
	}
	if !o.IsStaff() {
		t.Fatalf("expected staff")
	}
	if (Owner{Roles: "user"}).IsStaff() {
		t.Fatalf("expected not staff")
	}
}
