package tagger

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"tagdesk/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const labelsCSV = `tag_id,name,category,count
9999999,general,9,100
9999998,explicit,9,100
1,1girl,0,500
2,solo,0,400
3,hatsune_miku,4,300
4,outdoors,0,200
`

func TestParseLabels(t *testing.T) {
	labels, err := parseLabels(strings.NewReader(labelsCSV))
	require.NoError(t, err)
	require.Len(t, labels, 6)
	assert.Equal(t, wdLabel{"general", categoryRating}, labels[0])
	assert.Equal(t, wdLabel{"hatsune_miku", categoryCharacter}, labels[4])
	assert.Equal(t, wdLabel{"outdoors", categoryGeneral}, labels[5])
}

func TestSelectLabels(t *testing.T) {
	labels, err := parseLabels(strings.NewReader(labelsCSV))
	require.NoError(t, err)
	probs := []float32{0.2, 0.7, 0.5, 0.9, 0.86, 0.34}

	opts := WDOptions{GeneralThreshold: 0.35, CharacterThreshold: 0.85}
	assert.Equal(t, []string{"hatsune_miku", "solo", "1girl"}, selectLabels(labels, probs, opts))

	opts.IncludeRating = true
	assert.Equal(t, []string{"explicit", "hatsune_miku", "solo", "1girl"}, selectLabels(labels, probs, opts))

	opts.CharacterThreshold = 0.9
	assert.Equal(t, []string{"explicit", "solo", "1girl"}, selectLabels(labels, probs, opts))

	assert.Empty(t, selectLabels(labels, probs[:2], WDOptions{GeneralThreshold: 0.35, CharacterThreshold: 0.85}))
}

func TestFillBGR(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}

	dst := make([]float32, 2*2*3)
	fillBGR(dst, img, 2)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 30, dst[i*3+0], 1, "blue first")
		assert.InDelta(t, 20, dst[i*3+1], 1)
		assert.InDelta(t, 10, dst[i*3+2], 1)
	}
}

func TestNewWDMissingFiles(t *testing.T) {
	_, err := NewWD(WDOptions{ModelDir: t.TempDir()})
	require.Error(t, err)
	assert.Equal(t, errors.ModelUnavailable, errors.KindOf(err))
	assert.Contains(t, err.Error(), WDModelFile)
}
