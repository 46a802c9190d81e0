package filecheck

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/archfolio/archfolio/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

func makeFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func newValidator(maxSize int64) *Validator {
	cfg := &config.Config{}
	cfg.Upload.MaxSize = maxSize
	cfg.Upload.AllowedTypes = []string{".jpg", ".jpeg", ".png"}
	return New(cfg)
}

func TestCheck(t *testing.T) {
	v := newValidator(1 << 20)

	tests := []struct {
		name    string
		file    *multipart.FileHeader
		wantErr error
	}{
		{"valid png", makeFileHeader(t, "photo.png", pngMagic), nil},
		{"uppercase extension", makeFileHeader(t, "PHOTO.PNG", pngMagic), nil},
		{"extension not allowed", makeFileHeader(t, "photo.gif", pngMagic), ErrBadType},
		{"no extension", makeFileHeader(t, "photo", pngMagic), ErrBadType},
		{"renamed non-image", makeFileHeader(t, "photo.png", []byte("#!/bin/sh\nrm -rf /")), ErrBadType},
		{"nil header", nil, ErrBadType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(tt.file)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckSizeLimit(t *testing.T) {
	v := newValidator(4)
	err := v.Check(makeFileHeader(t, "photo.png", pngMagic))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestCheckAll(t *testing.T) {
	v := newValidator(1 << 20)
	good := makeFileHeader(t, "a.png", pngMagic)
	bad := makeFileHeader(t, "b.exe", pngMagic)

	assert.NoError(t, v.CheckAll([]*multipart.FileHeader{good, good}))
	assert.ErrorIs(t, v.CheckAll([]*multipart.FileHeader{good, bad}), ErrBadType)
}
