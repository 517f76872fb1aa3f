package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralAndCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 files"},
		{1, "1 file"},
		{3, "3 files"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Plural("file", tt.n))
		assert.Equal(t, "("+tt.want+")", Count(tt.n, "file"))
	}
}
