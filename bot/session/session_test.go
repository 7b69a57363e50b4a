package session

import "testing"

func TestGetCreatesIdle(t *testing.T) {
	s := NewStore()
	st := s.Get(1)
	if st.Phase != Idle {
		t.Fatalf("new state phase = %v, want Idle", st.Phase)
	}
	if st.Pending != (Pending{}) {
		t.Fatalf("new state pending = %+v, want zero", st.Pending)
	}
}

func TestSetPendingOverwrites(t *testing.T) {
	s := NewStore()
	s.SetPending(1, Pending{FileKey: "old", Name: "a.bin"})
	if !s.SetAwaitingPassword(1) {
		t.Fatal("SetAwaitingPassword on pending flow failed")
	}

	// A new upload restarts the flow regardless of phase.
	s.SetPending(1, Pending{FileKey: "new", Name: "b.bin"})

	st := s.Get(1)
	if st.Phase != AwaitingChoice {
		t.Fatalf("phase = %v, want AwaitingChoice", st.Phase)
	}
	if st.Pending.FileKey != "new" || st.Pending.Name != "b.bin" {
		t.Fatalf("pending = %+v, want the new upload", st.Pending)
	}
}

func TestSetAwaitingPasswordRequiresPending(t *testing.T) {
	s := NewStore()
	if s.SetAwaitingPassword(1) {
		t.Fatal("SetAwaitingPassword succeeded with no pending file")
	}
	if s.Get(1).Phase != Idle {
		t.Fatal("phase changed despite missing pending file")
	}
}

func TestClearResetsToDefaults(t *testing.T) {
	s := NewStore()
	s.SetPending(1, Pending{FileKey: "k", FileID: "f", Name: "n", Size: 9})
	s.SetAwaitingPassword(1)

	s.Clear(1)

	st := s.Get(1)
	if st.Phase != Idle || st.Pending != (Pending{}) {
		t.Fatalf("state after clear = %+v, want idle zero state", st)
	}
	if s.InProgress(1) || s.AwaitsPassword(1) {
		t.Fatal("cleared user still reported as in progress")
	}
}

func TestUsersIsolated(t *testing.T) {
	s := NewStore()
	s.SetPending(1, Pending{FileKey: "k1"})
	if s.InProgress(2) {
		t.Fatal("user 2 affected by user 1 state")
	}
	if s.Count() < 1 {
		t.Fatalf("Count = %d, want >= 1", s.Count())
	}
}
