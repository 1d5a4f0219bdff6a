package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileRecord_URL(t *testing.T) {
	f := &FileRecord{Filename: "file-1710000000000-3f1c.png"}
	assert.Equal(t, "/api/upload/files/file-1710000000000-3f1c.png", f.URL())
}
