package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"filebot/bot/files"
	"filebot/bot/links"
	"filebot/bot/session"
)

func newTestService() (*Service, *files.MemoryStore, *session.Store) {
	store := files.NewMemoryStore()
	sessions := session.NewStore()
	builder := links.NewBuilder(
		"https://stream.example.com/{file_key}",
		"https://download.example.com/{file_key}",
		"https://t.me/{username}/{message_id}",
	)
	return NewService(store, sessions, builder), store, sessions
}

func TestUploadThenNoPassword(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newTestService()

	rec, err := svc.RegisterUpload(ctx, 7, Upload{FileID: "f1", Name: "movie.mkv", Size: 4096}, 42)
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	if rec.Key == "" || rec.ArchiveMsgID != 42 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	d, err := svc.ChooseNoPassword(ctx, 7, "mybot")
	if err != nil {
		t.Fatalf("ChooseNoPassword: %v", err)
	}
	if d.FileKey != rec.Key {
		t.Fatalf("delivery key = %q, want %q", d.FileKey, rec.Key)
	}
	for _, want := range []string{
		"https://stream.example.com/" + rec.Key,
		"https://download.example.com/" + rec.Key,
		"https://t.me/mybot/42",
		"*Password Protected:* No",
	} {
		if !strings.Contains(d.Message, want) {
			t.Fatalf("delivery message missing %q:\n%s", want, d.Message)
		}
	}

	// The session survives until the send is confirmed.
	if !sessions.InProgress(7) {
		t.Fatal("session cleared before delivery confirmation")
	}
	svc.Confirm(ctx, 7, d)
	if sessions.InProgress(7) {
		t.Fatal("session not cleared after confirmation")
	}
}

func TestLastUploadWins(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()

	recA, err := svc.RegisterUpload(ctx, 7, Upload{FileID: "fa", Name: "a.bin"}, 1)
	if err != nil {
		t.Fatalf("RegisterUpload A: %v", err)
	}
	recB, err := svc.RegisterUpload(ctx, 7, Upload{FileID: "fb", Name: "b.bin"}, 2)
	if err != nil {
		t.Fatalf("RegisterUpload B: %v", err)
	}

	d, err := svc.ChooseNoPassword(ctx, 7, "mybot")
	if err != nil {
		t.Fatalf("ChooseNoPassword: %v", err)
	}
	if d.FileKey != recB.Key {
		t.Fatalf("delivered key = %q, want the later upload %q", d.FileKey, recB.Key)
	}

	// The first record is orphaned, not removed.
	if _, err := store.Get(ctx, recA.Key); err != nil {
		t.Fatalf("first record gone: %v", err)
	}
}

func TestPasswordFlow(t *testing.T) {
	ctx := context.Background()
	svc, store, sessions := newTestService()

	rec, err := svc.RegisterUpload(ctx, 7, Upload{FileID: "f1", Name: "doc.pdf"}, 5)
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	if err := svc.ChoosePassword(7); err != nil {
		t.Fatalf("ChoosePassword: %v", err)
	}
	if !svc.AwaitsPassword(7) {
		t.Fatal("flow not awaiting password")
	}

	// Blank input re-prompts and leaves the phase unchanged.
	if _, err := svc.SubmitPassword(ctx, 7, "mybot", "   "); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("blank password err = %v, want ErrEmptyPassword", err)
	}
	if !svc.AwaitsPassword(7) {
		t.Fatal("blank password changed the phase")
	}

	d, err := svc.SubmitPassword(ctx, 7, "mybot", "secret")
	if err != nil {
		t.Fatalf("SubmitPassword: %v", err)
	}
	if !strings.Contains(d.Message, "*Password Protected:* Yes") {
		t.Fatalf("delivery lacks protected status:\n%s", d.Message)
	}

	got, err := store.Get(ctx, rec.Key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.HasPassword || got.Password != "secret" {
		t.Fatalf("record password not applied: %+v", got)
	}

	svc.Confirm(ctx, 7, d)
	if sessions.InProgress(7) {
		t.Fatal("session not cleared after confirmed delivery")
	}
}

func TestStaleChoice(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	if _, err := svc.ChooseNoPassword(ctx, 7, "mybot"); !errors.Is(err, ErrNoPendingFile) {
		t.Fatalf("ChooseNoPassword err = %v, want ErrNoPendingFile", err)
	}
	if err := svc.ChoosePassword(7); !errors.Is(err, ErrNoPendingFile) {
		t.Fatalf("ChoosePassword err = %v, want ErrNoPendingFile", err)
	}
	if _, err := svc.SubmitPassword(ctx, 7, "mybot", "pw"); !errors.Is(err, ErrNoPendingFile) {
		t.Fatalf("SubmitPassword err = %v, want ErrNoPendingFile", err)
	}
}

func TestDeliveryWithRemovedRecord(t *testing.T) {
	ctx := context.Background()
	svc, store, sessions := newTestService()

	rec, err := svc.RegisterUpload(ctx, 7, Upload{FileID: "f1", Name: "a.bin"}, 3)
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	if err := store.Delete(ctx, rec.Key); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.ChooseNoPassword(ctx, 7, "mybot"); !errors.Is(err, files.ErrNotFound) {
		t.Fatalf("ChooseNoPassword err = %v, want files.ErrNotFound", err)
	}
	// The session keeps the flow so the failure can be reported.
	if !sessions.InProgress(7) {
		t.Fatal("session cleared despite failed delivery")
	}
}

func TestUploadRestartsPasswordFlow(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	if _, err := svc.RegisterUpload(ctx, 7, Upload{FileID: "fa", Name: "a.bin"}, 1); err != nil {
		t.Fatalf("RegisterUpload A: %v", err)
	}
	if err := svc.ChoosePassword(7); err != nil {
		t.Fatalf("ChoosePassword: %v", err)
	}

	recB, err := svc.RegisterUpload(ctx, 7, Upload{FileID: "fb", Name: "b.bin"}, 2)
	if err != nil {
		t.Fatalf("RegisterUpload B: %v", err)
	}
	if svc.AwaitsPassword(7) {
		t.Fatal("new upload left the flow awaiting a password")
	}

	d, err := svc.ChooseNoPassword(ctx, 7, "mybot")
	if err != nil {
		t.Fatalf("ChooseNoPassword: %v", err)
	}
	if d.FileKey != recB.Key {
		t.Fatalf("delivered key = %q, want %q", d.FileKey, recB.Key)
	}
}

// Concurrent events for one user must apply in order: under LockUser a
// full upload→choice→confirm sequence never observes another
// goroutine's pending file.
func TestPerUserEventOrdering(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	const (
		userID  = int64(7)
		workers = 4
		rounds  = 50
	)

	var wg sync.WaitGroup
	errc := make(chan error, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				unlock := svc.LockUser(userID)

				rec, err := svc.RegisterUpload(ctx, userID, Upload{
					FileID: fmt.Sprintf("f-%d-%d", w, i),
					Name:   "a.bin",
				}, w*rounds+i)
				if err != nil {
					unlock()
					errc <- err
					return
				}
				d, err := svc.ChooseNoPassword(ctx, userID, "mybot")
				if err != nil {
					unlock()
					errc <- err
					return
				}
				if d.FileKey != rec.Key {
					unlock()
					errc <- fmt.Errorf("delivered %q, expected own upload %q", d.FileKey, rec.Key)
					return
				}
				svc.Confirm(ctx, userID, d)

				unlock()
			}
		}(w)
	}
	wg.Wait()
	close(errc)

	for err := range errc {
		t.Fatalf("interleaved flow: %v", err)
	}
}

// Users on different lock stripes proceed independently; a held lock
// for one user must not block another.
func TestLockUserIndependentUsers(t *testing.T) {
	svc, _, _ := newTestService()

	unlock := svc.LockUser(1)
	defer unlock()

	done := make(chan struct{})
	go func() {
		u := svc.LockUser(2)
		u()
		close(done)
	}()
	<-done
}

func TestStatsCounters(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	if _, err := svc.RegisterUpload(ctx, 1, Upload{FileID: "f1", Name: "a"}, 1); err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	if _, err := svc.RegisterUpload(ctx, 2, Upload{FileID: "f2", Name: "b"}, 2); err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}

	records, sessions, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if records != 2 {
		t.Fatalf("records = %d, want 2", records)
	}
	if sessions != 2 {
		t.Fatalf("sessions = %d, want 2", sessions)
	}
}
