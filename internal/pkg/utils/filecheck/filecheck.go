// Package filecheck screens uploaded form files before they reach blob
// storage: size cap, extension allowlist and a content sniff, so a renamed
// executable does not pass as a photo.
package filecheck

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/archfolio/archfolio/internal/config"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrTooLarge = errors.New("file exceeds size limit")
	ErrBadType  = errors.New("file type not allowed")
)

type Validator struct {
	maxSize int64
	allowed map[string]struct{}
}

func New(cfg *config.Config) *Validator {
	allowed := make(map[string]struct{}, len(cfg.Upload.AllowedTypes))
	for _, ext := range cfg.Upload.AllowedTypes {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &Validator{maxSize: cfg.Upload.MaxSize, allowed: allowed}
}

// Check validates a single form file. The reader is fully closed again; the
// caller can still open the header afterwards.
func (v *Validator) Check(fh *multipart.FileHeader) error {
	if fh == nil {
		return fmt.Errorf("%w: missing file", ErrBadType)
	}
	if fh.Size > v.maxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, fh.Filename, fh.Size, v.maxSize)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := v.allowed[ext]; !ok {
		return fmt.Errorf("%w: %q", ErrBadType, ext)
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return fmt.Errorf("%w: content is %s", ErrBadType, mt.String())
	}
	return nil
}

// CheckAll validates a batch, reporting the first offender.
func (v *Validator) CheckAll(fhs []*multipart.FileHeader) error {
	for _, fh := range fhs {
		if err := v.Check(fh); err != nil {
			return err
		}
	}
	return nil
}
