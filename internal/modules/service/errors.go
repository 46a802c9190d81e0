package service

import (
	"errors"
	"fmt"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrImageNotFound      = errors.New("image not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UploadError reports a blob upload that failed before anything reached the
// database. The store is unchanged when it is returned.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("image upload failed: %v", e.Err)
	}
	return fmt.Sprintf("image upload failed for %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// CompensatedError reports a persistence failure whose already-uploaded blobs
// were removed again. Cause is the original database error; Removed lists the
// object keys the compensation deleted.
type CompensatedError struct {
	Cause   error
	Removed []string
}

func (e *CompensatedError) Error() string {
	return fmt.Sprintf("persistence failed, removed %d uploaded object(s): %v", len(e.Removed), e.Cause)
}

func (e *CompensatedError) Unwrap() error { return e.Cause }
