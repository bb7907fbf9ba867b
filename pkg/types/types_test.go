package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePosition(t *testing.T) {
	assert.Equal(t, Start, ParsePosition("start"))
	assert.Equal(t, Start, ParsePosition(" START "))
	assert.Equal(t, End, ParsePosition("end"))
	assert.Equal(t, End, ParsePosition("middle"))
	assert.Equal(t, End, ParsePosition(""))

	assert.Equal(t, "start", Start.String())
	assert.Equal(t, "end", End.String())
}

func TestBatchResult(t *testing.T) {
	var r BatchResult
	assert.False(t, r.Failed())

	r.Failures = append(r.Failures, ImageFailure{Path: "a.png", Err: errors.New("denied")})
	assert.True(t, r.Failed())
}

func TestImageInfo(t *testing.T) {
	info := ImageInfo{Path: "/photos/cat.png", Format: "png", Width: 640, Height: 480, Size: 12000}
	assert.Equal(t, "cat.png", info.Name())
	assert.Equal(t, "cat.png 640x480 png 12 kB", info.String())
	assert.Equal(t, "640x480 png 12 kB", info.Summary())
	assert.Contains(t, info.ToJSON(), `"width":640`)
}
