package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"filebot/bot/files"
	"filebot/bot/links"
	"filebot/bot/session"
	"filebot/core/logger"
	"log/slog"
)

var (
	// ErrNoPendingFile means a choice or password arrived with no flow
	// in progress (stale button, or the session was lost on restart).
	ErrNoPendingFile = errors.New("no file in progress")
	// ErrEmptyPassword rejects blank password input; the flow stays in
	// the awaiting-password phase.
	ErrEmptyPassword = errors.New("password cannot be empty")
)

// Upload carries the metadata extracted from an incoming file message.
type Upload struct {
	FileID string
	Name   string
	Size   int64
}

// Delivery is a rendered links message ready to send. The session is
// cleared via Confirm only after the send succeeded.
type Delivery struct {
	FileKey string
	Message string
}

// lockStripes bounds lock memory regardless of how many users the
// process has seen. One user always maps to the same stripe.
const lockStripes = 64

// Service drives the file registration and link issuance flow.
// Telegram handlers are thin adapters around it.
type Service struct {
	store    files.Store
	sessions *session.Store
	links    *links.Builder
	newKey   func() (string, error)

	locks [lockStripes]sync.Mutex
}

// NewService wires the stores and link builder together.
func NewService(store files.Store, sessions *session.Store, builder *links.Builder) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		links:    builder,
		newKey:   files.NewKey,
	}
}

// LockUser serializes flow events for one user; users on different
// stripes proceed concurrently. The returned func releases the lock.
func (s *Service) LockUser(userID int64) func() {
	mu := &s.locks[uint64(userID)%lockStripes]
	mu.Lock()
	return mu.Unlock
}

// Touch initializes an Idle session for the user if none exists.
func (s *Service) Touch(userID int64) {
	s.sessions.Get(userID)
}

// AwaitsPassword reports whether the user's next text is a password.
func (s *Service) AwaitsPassword(userID int64) bool {
	return s.sessions.AwaitsPassword(userID)
}

// RegisterUpload stores a new file record and restarts the user's flow
// around it. An earlier pending file is abandoned: its record stays in
// the store but the session now points at the new upload.
func (s *Service) RegisterUpload(ctx context.Context, userID int64, up Upload, archiveMsgID int) (*files.FileRecord, error) {
	key, err := s.newKey()
	if err != nil {
		return nil, err
	}

	rec := &files.FileRecord{
		Key:          key,
		FileID:       up.FileID,
		Name:         up.Name,
		Size:         up.Size,
		OwnerID:      userID,
		ArchiveMsgID: archiveMsgID,
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}

	s.sessions.SetPending(userID, session.Pending{
		FileKey: key,
		FileID:  up.FileID,
		Name:    up.Name,
		Size:    up.Size,
	})

	logger.Info(ctx, "service.flow", "upload",
		slog.String("file_key", key),
		slog.String("file_name", logger.SanitizeLimit(up.Name, 128)),
		slog.Int64("file_size", up.Size),
		slog.Int("archive_msg_id", archiveMsgID),
	)
	return rec, nil
}

// ChooseNoPassword resolves the pwd_no branch: the pending file is
// delivered unprotected.
func (s *Service) ChooseNoPassword(ctx context.Context, userID int64, botUsername string) (*Delivery, error) {
	st := s.sessions.Get(userID)
	if st.Phase == session.Idle {
		return nil, ErrNoPendingFile
	}
	return s.buildDelivery(ctx, st.Pending, botUsername)
}

// ChoosePassword resolves the pwd_yes branch: the flow moves to the
// awaiting-password phase and the next text message is the password.
func (s *Service) ChoosePassword(userID int64) error {
	if !s.sessions.SetAwaitingPassword(userID) {
		return ErrNoPendingFile
	}
	return nil
}

// SubmitPassword applies the user's password text and prepares
// delivery. Blank input returns ErrEmptyPassword and leaves the flow
// unchanged, so the user can retry.
func (s *Service) SubmitPassword(ctx context.Context, userID int64, botUsername, text string) (*Delivery, error) {
	st := s.sessions.Get(userID)
	if st.Phase != session.AwaitingPassword {
		return nil, ErrNoPendingFile
	}

	password := strings.TrimSpace(text)
	if password == "" {
		return nil, ErrEmptyPassword
	}

	if err := s.store.SetPassword(ctx, st.Pending.FileKey, password); err != nil {
		return nil, fmt.Errorf("set password for %s: %w", st.Pending.FileKey, err)
	}
	logger.Info(ctx, "service.flow", "password.set",
		slog.String("file_key", st.Pending.FileKey),
	)

	return s.buildDelivery(ctx, st.Pending, botUsername)
}

// Confirm clears the session after the delivery message was actually
// sent. A failed send keeps the session so the user can retry.
func (s *Service) Confirm(ctx context.Context, userID int64, d *Delivery) {
	s.sessions.Clear(userID)
	logger.Info(ctx, "service.flow", "delivered",
		slog.String("file_key", d.FileKey),
	)
}

// Stats reports store and session counters for diagnostics.
func (s *Service) Stats(ctx context.Context) (records int64, sessions int, err error) {
	records, err = s.store.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	return records, s.sessions.Count(), nil
}

func (s *Service) buildDelivery(ctx context.Context, p session.Pending, botUsername string) (*Delivery, error) {
	rec, err := s.store.Get(ctx, p.FileKey)
	if err != nil {
		// Session stays intact so the caller can report and retry.
		return nil, fmt.Errorf("load record %s: %w", p.FileKey, err)
	}

	set := s.links.Build(rec.Key, botUsername, rec.ArchiveMsgID)
	msg := links.DeliveryMessage(rec.Name, rec.Key, rec.HasPassword, set)
	return &Delivery{FileKey: rec.Key, Message: msg}, nil
}
