package files

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("file record not found")

// FileRecord describes one relayed file and its retrieval metadata.
type FileRecord struct {
	// Key is the unique URL-safe retrieval key.
	Key string `db:"file_key"`
	// FileID is the Telegram file identifier of the upload.
	FileID string `db:"file_id"`
	Name   string `db:"file_name"`
	// Size is the declared file size in bytes.
	Size    int64 `db:"file_size"`
	OwnerID int64 `db:"owner_id"`
	// ArchiveMsgID is the message ID inside the archive channel.
	ArchiveMsgID int       `db:"archive_msg_id"`
	HasPassword  bool      `db:"has_password"`
	Password     string    `db:"password"`
	CreatedAt    time.Time `db:"created_at"`
}
