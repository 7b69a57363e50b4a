package session

import "sync"

// Phase tags the conversation state of one user.
type Phase int

const (
	// Idle means no file flow is in progress.
	Idle Phase = iota
	// AwaitingChoice means a file was relayed and the user is picking
	// whether to set a password.
	AwaitingChoice
	// AwaitingPassword means the user chose protection and the next
	// text message is taken as the password.
	AwaitingPassword
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case AwaitingChoice:
		return "awaiting_choice"
	case AwaitingPassword:
		return "awaiting_password"
	default:
		return "unknown"
	}
}

// Pending identifies the file the current flow is about.
type Pending struct {
	FileKey string
	FileID  string
	Name    string
	Size    int64
}

// State is a snapshot of one user's conversation.
// Pending is only meaningful outside Idle.
type State struct {
	Phase   Phase
	Pending Pending
}

// Store keeps per-user conversation state in process memory.
// State does not survive restarts.
type Store struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{states: make(map[int64]State)}
}

// Get returns the user's state, creating an Idle one if absent.
func (s *Store) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok {
		st = State{Phase: Idle}
		s.states[userID] = st
	}
	return st
}

// SetPending replaces the user's state with a fresh AwaitingChoice
// holding the given file. Any earlier flow is discarded.
func (s *Store) SetPending(userID int64, p Pending) {
	s.mu.Lock()
	s.states[userID] = State{Phase: AwaitingChoice, Pending: p}
	s.mu.Unlock()
}

// SetAwaitingPassword moves an AwaitingChoice flow to AwaitingPassword.
// It reports false if the user has no pending file.
func (s *Store) SetAwaitingPassword(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok || st.Phase == Idle {
		return false
	}
	st.Phase = AwaitingPassword
	s.states[userID] = st
	return true
}

// Clear resets the user to Idle with no pending file.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	s.states[userID] = State{Phase: Idle}
	s.mu.Unlock()
}

// InProgress reports whether the user has a flow past Idle.
func (s *Store) InProgress(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID].Phase != Idle
}

// AwaitsPassword reports whether the user's next text is a password.
func (s *Store) AwaitsPassword(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID].Phase == AwaitingPassword
}

// Count returns the number of tracked users (diagnostics).
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
