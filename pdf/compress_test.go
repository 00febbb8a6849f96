package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf_tools/pdf/pdftest"
)

func TestProfileForLevel(t *testing.T) {
	tests := []struct {
		level    int
		expected Profile
	}{
		{1, Profile{Level: 1, StreamEncoding: true, StructureCleanup: false, UnusedObjects: RemoveNone}},
		{2, Profile{Level: 2, StreamEncoding: true, StructureCleanup: true, UnusedObjects: RemoveShallow}},
		{3, Profile{Level: 3, StreamEncoding: true, StructureCleanup: true, UnusedObjects: RemoveModerate}},
		{4, Profile{Level: 4, StreamEncoding: true, StructureCleanup: true, UnusedObjects: RemoveAggressive}},
		{0, Profile{Level: 1, StreamEncoding: true, StructureCleanup: false, UnusedObjects: RemoveNone}},
		{-7, Profile{Level: 1, StreamEncoding: true, StructureCleanup: false, UnusedObjects: RemoveNone}},
		{9, Profile{Level: 4, StreamEncoding: true, StructureCleanup: true, UnusedObjects: RemoveAggressive}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ProfileForLevel(tt.level), "level %d", tt.level)
	}
}

func TestProfilesAreMonotonic(t *testing.T) {
	for level := MinCompressionLevel + 1; level <= MaxCompressionLevel; level++ {
		prev, cur := ProfileForLevel(level-1), ProfileForLevel(level)
		assert.Greater(t, cur.UnusedObjects, prev.UnusedObjects)
		assert.True(t, cur.StructureCleanup || !prev.StructureCleanup)
	}
}

func TestProfile_Configuration(t *testing.T) {
	light := ProfileForLevel(1).Configuration()
	assert.True(t, light.WriteObjectStream)
	assert.False(t, light.OptimizeResourceDicts)
	assert.False(t, light.OptimizeDuplicateContentStreams)

	aggressive := ProfileForLevel(4).Configuration()
	assert.True(t, aggressive.WriteObjectStream)
	assert.True(t, aggressive.OptimizeResourceDicts)
	assert.True(t, aggressive.OptimizeDuplicateContentStreams)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]int{
		"":    1,
		"abc": 1,
		"1":   1,
		"3":   3,
		" 2 ": 2,
		"0":   1,
		"12":  4,
		"-1":  1,
	}
	for in, expected := range tests {
		assert.Equal(t, expected, ParseLevel(in), "input %q", in)
	}
}

func TestCompress_PreservesPages(t *testing.T) {
	for _, level := range []int{1, 2, 3, 4} {
		doc := decodeFixture(t, 5)

		var out bytes.Buffer
		profile, err := Compress(&out, doc, level)
		require.NoError(t, err, "level %d", level)
		assert.Equal(t, level, profile.Level)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, pageOrder(t, out.Bytes()), "level %d", level)
	}
}

func TestCompress_ClampsLevel(t *testing.T) {
	doc := decodeFixture(t, 1)

	var out bytes.Buffer
	profile, err := Compress(&out, doc, 99)
	require.NoError(t, err)
	assert.Equal(t, RemoveAggressive, profile.UnusedObjects)
}

func TestCompress_AggressiveDropsDuplicateContent(t *testing.T) {
	sizes := map[int]int{}
	for _, level := range []int{3, 4} {
		doc, err := Decode(pdftest.SharedContent(6))
		require.NoError(t, err)

		var out bytes.Buffer
		_, err = Compress(&out, doc, level)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, pageOrder(t, out.Bytes()), "level %d", level)
		sizes[level] = out.Len()
	}

	assert.Less(t, sizes[4], sizes[3])
}
