package files

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := &FileRecord{
		Key:          "k1",
		FileID:       "f1",
		Name:         "report.pdf",
		Size:         1024,
		OwnerID:      7,
		ArchiveMsgID: 42,
	}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "report.pdf" || got.ArchiveMsgID != 42 || got.HasPassword {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("CreatedAt was not set")
	}

	// Returned copy must not alias the stored record.
	got.Name = "mutated"
	again, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Name != "report.pdf" {
		t.Fatalf("stored record mutated through returned copy: %q", again.Name)
	}
}

func TestMemoryStorePutNilRecord(t *testing.T) {
	s := NewMemoryStore()
	err := s.Put(context.Background(), nil)
	if err == nil {
		t.Fatal("Put(nil) succeeded")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("Put(nil) mislabeled as absent key: %v", err)
	}
}

func TestMemoryStoreGetAbsent(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get absent: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreSetPassword(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.SetPassword(ctx, "missing", "pw"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetPassword absent: err = %v, want ErrNotFound", err)
	}

	if err := s.Put(ctx, &FileRecord{Key: "k1", Name: "a.bin"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.SetPassword(ctx, "k1", "secret"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	got, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.HasPassword || got.Password != "secret" {
		t.Fatalf("password not applied: %+v", got)
	}
}

// Concurrent readers must never observe has_password without the
// password value (or the reverse).
func TestMemoryStorePasswordAtomicity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Put(ctx, &FileRecord{Key: "k1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errc := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			rec, err := s.Get(ctx, "k1")
			if err != nil {
				select {
				case errc <- err:
				default:
				}
				return
			}
			if rec.HasPassword != (rec.Password != "") {
				select {
				case errc <- errors.New("flag and password out of sync"):
				default:
				}
				return
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		if err := s.SetPassword(ctx, "k1", "pw"); err != nil {
			t.Fatalf("SetPassword: %v", err)
		}
	}
	close(stop)
	wg.Wait()

	select {
	case err := <-errc:
		t.Fatalf("reader observed inconsistency: %v", err)
	default:
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete absent: err = %v, want ErrNotFound", err)
	}

	if err := s.Put(ctx, &FileRecord{Key: "k1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete: err = %v, want ErrNotFound", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Fatalf("Count = %d, want 0", n)
	}
}
