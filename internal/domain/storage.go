package domain

import "context"

// FileSlot names an attachment position on a profile.
type FileSlot string

const (
	SlotAvatar FileSlot = "avatar"
	SlotResume FileSlot = "resume"
)

// Upload is a received file before it is stored.
type Upload struct {
	Filename string
	Data     []byte
}

// FileStorage stores profile attachments and hands back a public locator.
type FileStorage interface {
	Store(ctx context.Context, slot FileSlot, upload *Upload) (string, error)
	// Delete is idempotent: a missing object is not an error.
	Delete(ctx context.Context, locator string) error
	// Manages reports whether locator points into this storage.
	Manages(locator string) bool
}
