package retention

import (
	"errors"
	"testing"

	"kitaguard/internal/domain/lifecycle"
)

func TestPolicyDefaults(t *testing.T) {
	table := NewPolicyTable(nil)

	cases := []struct {
		kind lifecycle.Kind
		want int
	}{
		{lifecycle.KindUser, 30},
		{lifecycle.KindChild, 1095},
		{lifecycle.KindGroup, 30},
		{lifecycle.KindInstitution, 365},
		{lifecycle.KindPersonalTask, 30},
		{lifecycle.KindNote, 730},
		{lifecycle.KindNotificationLog, 365},
		{lifecycle.KindClosedDay, 365},
		{lifecycle.KindMessage, 730},
		{lifecycle.KindActivityLog, 1095},
		{lifecycle.KindFailedLogin, 365},
	}
	for _, tc := range cases {
		days, err := table.Lookup(tc.kind)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", tc.kind, err)
		}
		if days != tc.want {
			t.Errorf("Lookup(%s) = %d, want %d", tc.kind, days, tc.want)
		}
	}
}

func TestPolicyOverrides(t *testing.T) {
	// Non-positive overrides and unknown kinds are ignored.
	table := NewPolicyTable(map[lifecycle.Kind]int{
		lifecycle.KindUser:  90,
		lifecycle.KindChild: 0,
		"Bogus":             42,
	})

	if days, _ := table.Lookup(lifecycle.KindUser); days != 90 {
		t.Errorf("User override not applied, got %d", days)
	}
	if days, _ := table.Lookup(lifecycle.KindChild); days != 1095 {
		t.Errorf("zero override should keep the default, got %d", days)
	}
	if _, err := table.Lookup("Bogus"); !errors.Is(err, lifecycle.ErrUnknownKind) {
		t.Errorf("unknown kind lookup: got %v, want ErrUnknownKind", err)
	}
}

func TestPolicyKindsOrderIsStable(t *testing.T) {
	table := NewPolicyTable(nil)
	kinds := table.Kinds()
	if len(kinds) != len(defaultPolicyDays) {
		t.Fatalf("Kinds() returned %d kinds, want %d", len(kinds), len(defaultPolicyDays))
	}
	if kinds[0] != lifecycle.KindUser {
		t.Errorf("scan order should start with User, got %s", kinds[0])
	}
	for _, kind := range kinds {
		if _, err := table.Lookup(kind); err != nil {
			t.Errorf("Kinds() lists %s but Lookup fails: %v", kind, err)
		}
	}
}
