package middleware

import "testing"

func TestAdminAllowed(t *testing.T) {
	cases := []struct {
		name     string
		adminID  int64
		senderID int64
		want     bool
	}{
		{"admin matches", 42, 42, true},
		{"other user", 42, 424242, false},
		{"unset admin rejects everyone", 0, 424242, false},
		{"unset admin rejects zero sender", 0, 0, false},
	}
	for _, tc := range cases {
		if got := adminAllowed(tc.adminID, tc.senderID); got != tc.want {
			t.Errorf("%s: adminAllowed(%d, %d) = %v, want %v",
				tc.name, tc.adminID, tc.senderID, got, tc.want)
		}
	}
}
