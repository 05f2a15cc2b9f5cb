// AngelaMos | 2026
// storage.go

package media

import (
	"context"
	"io"
	"regexp"

	"github.com/google/uuid"
)

// Storage persists an uploaded video file and returns the URL it is served
// from.
type Storage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ObjectName builds a collision-free name for an upload, keeping only the
// safe characters of the client's file name.
func ObjectName(original string) string {
	cleaned := unsafeNameChars.ReplaceAllString(original, "")
	if cleaned == "" {
		cleaned = "upload"
	}
	return uuid.New().String() + "-" + cleaned
}
