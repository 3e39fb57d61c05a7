// internal/types/ids.go
package types

import (
	"strconv"

	"github.com/google/uuid"
)

type ProjectID int64
type TaskID int64
type DraftID int64
type CommentID int64
type UserID int64

// AnnotationPK is the string form of a persisted annotation's backend id.
// An annotation that has never been submitted has an empty PK and is
// addressed by its LocalID instead.
type AnnotationPK string

// NewLocalID returns an editor-local identifier for annotations, predictions
// and results that have not been persisted yet.
func NewLocalID() string {
	return uuid.New().String()
}

// PKFromID converts a backend numeric id into an AnnotationPK.
func PKFromID(id int64) AnnotationPK {
	return AnnotationPK(strconv.FormatInt(id, 10))
}

// ID converts the PK back to the backend numeric id. Returns 0 and false for
// an empty or non-numeric PK.
func (pk AnnotationPK) ID() (int64, bool) {
	if pk == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(string(pk), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
