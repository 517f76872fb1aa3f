package shellquote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	assert.Equal(t, "'plain'", Quote("plain"))
	assert.Equal(t, `'it'\''s'`, Quote("it's"))
}

func TestQuoteIfNeeded(t *testing.T) {
	assert.Equal(t, "/data/a_b_c_P1_x.png", QuoteIfNeeded("/data/a_b_c_P1_x.png"))
	assert.Equal(t, "'/data/my parts/x.fbx'", QuoteIfNeeded("/data/my parts/x.fbx"))
	assert.Equal(t, "''", QuoteIfNeeded(""))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "open -R '/a b/c.png'", Join([]string{"open", "-R", "/a b/c.png"}))
}
