package files

import "context"

// Store persists file records keyed by their retrieval key.
//
// Put is an upsert and must be durable before it returns. Get,
// SetPassword and Delete return ErrNotFound for absent keys.
// SetPassword updates the password and the has_password flag
// atomically with respect to concurrent Get calls.
type Store interface {
	Put(ctx context.Context, rec *FileRecord) error
	Get(ctx context.Context, key string) (*FileRecord, error)
	SetPassword(ctx context.Context, key, password string) error
	Delete(ctx context.Context, key string) error
	// Count reports the number of stored records (diagnostics).
	Count(ctx context.Context) (int64, error)
}
