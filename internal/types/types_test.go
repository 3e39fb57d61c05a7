// internal/types/types_test.go
package types

import "testing"

func TestPKRoundTrip(t *testing.T) {
	pk := PKFromID(42)
	if pk != "42" {
		t.Errorf("expected pk \"42\", got %q", pk)
	}
	id, ok := pk.ID()
	if !ok || id != 42 {
		t.Errorf("expected id 42, got %d (ok=%v)", id, ok)
	}
}

func TestPKInvalid(t *testing.T) {
	if _, ok := AnnotationPK("").ID(); ok {
		t.Error("empty pk should not convert")
	}
	if _, ok := AnnotationPK("auto").ID(); ok {
		t.Error("non-numeric pk should not convert")
	}
}

func TestNewLocalIDUnique(t *testing.T) {
	a, b := NewLocalID(), NewLocalID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty local ids, got %q and %q", a, b)
	}
}

func TestRoleManager(t *testing.T) {
	for _, r := range []Role{RoleOwner, RoleAdmin, RoleManager} {
		if !r.Manager() {
			t.Errorf("expected %q to be a manager role", r)
		}
	}
	for _, r := range []Role{RoleReviewer, RoleMember, ""} {
		if r.Manager() {
			t.Errorf("expected %q not to be a manager role", r)
		}
	}
}

func TestAnnotationPersisted(t *testing.T) {
	a := &Annotation{LocalID: "x"}
	if a.Persisted() {
		t.Error("annotation without pk should not be persisted")
	}
	a.PK = PKFromID(1)
	if !a.Persisted() {
		t.Error("annotation with pk should be persisted")
	}
}

func TestUserDisplayName(t *testing.T) {
	u := &User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	if u.DisplayName() != "Ada Lovelace" {
		t.Errorf("expected full name, got %q", u.DisplayName())
	}
	u = &User{Email: "ada@example.com"}
	if u.DisplayName() != "ada@example.com" {
		t.Errorf("expected email fallback, got %q", u.DisplayName())
	}
}

func TestTaskAnnotationLookup(t *testing.T) {
	task := &Task{Annotations: []*Annotation{
		{LocalID: "a", PK: PKFromID(1)},
		{LocalID: "b", PK: PKFromID(2)},
	}}
	if a := task.Annotation(PKFromID(2)); a == nil || a.LocalID != "b" {
		t.Errorf("expected annotation b, got %+v", a)
	}
	if a := task.Annotation(PKFromID(9)); a != nil {
		t.Errorf("expected nil for unknown pk, got %+v", a)
	}
}
