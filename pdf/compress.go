package pdf

import (
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Removal is how hard unused and duplicate objects are pruned on save.
type Removal int

const (
	RemoveNone Removal = iota
	RemoveShallow
	RemoveModerate
	RemoveAggressive
)

func (r Removal) String() string {
	switch r {
	case RemoveShallow:
		return "shallow"
	case RemoveModerate:
		return "moderate"
	case RemoveAggressive:
		return "aggressive"
	default:
		return "none"
	}
}

// Profile is the set of save-time settings selected by a compression level.
type Profile struct {
	Level            int
	StreamEncoding   bool
	StructureCleanup bool
	UnusedObjects    Removal
}

var profiles = [MaxCompressionLevel + 1]Profile{
	1: {Level: 1, StreamEncoding: true, StructureCleanup: false, UnusedObjects: RemoveNone},
	2: {Level: 2, StreamEncoding: true, StructureCleanup: true, UnusedObjects: RemoveShallow},
	3: {Level: 3, StreamEncoding: true, StructureCleanup: true, UnusedObjects: RemoveModerate},
	4: {Level: 4, StreamEncoding: true, StructureCleanup: true, UnusedObjects: RemoveAggressive},
}

// ClampLevel forces level into [MinCompressionLevel, MaxCompressionLevel].
func ClampLevel(level int) int {
	return max(MinCompressionLevel, min(MaxCompressionLevel, level))
}

// ProfileForLevel returns the profile for level after clamping it.
func ProfileForLevel(level int) Profile {
	return profiles[ClampLevel(level)]
}

// ParseLevel reads a form value. Missing or non-numeric values give the
// default level; numbers outside the supported range are clamped.
func ParseLevel(s string) int {
	level, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultCompressionLevel
	}
	return ClampLevel(level)
}

// apply copies the profile onto a pdfcpu configuration.
func (p Profile) apply(conf *model.Configuration) {
	conf.WriteObjectStream = p.StreamEncoding
	conf.WriteXRefStream = p.StreamEncoding
	conf.OptimizeResourceDicts = p.UnusedObjects >= RemoveModerate
	conf.OptimizeDuplicateContentStreams = p.UnusedObjects >= RemoveAggressive
}

// Configuration returns the pdfcpu configuration for the profile.
func (p Profile) Configuration() *model.Configuration {
	conf := newConfiguration()
	p.apply(conf)
	return conf
}

// Compress re-serializes doc with the profile for level and writes it to w.
// Page content and order are untouched; the profile is applied in one final save.
func Compress(w io.Writer, doc *Document, level int) (Profile, error) {
	profile := ProfileForLevel(level)
	if err := doc.RequirePages(); err != nil {
		return profile, err
	}

	profile.apply(doc.ctx.Configuration)
	if profile.StructureCleanup {
		doc.ctx.Cmd = model.OPTIMIZE
		if err := api.OptimizeContext(doc.ctx); err != nil {
			return profile, &TransformError{Op: "compress", Err: err}
		}
	}

	if err := doc.Encode(w); err != nil {
		return profile, &TransformError{Op: "compress", Err: err}
	}
	return profile, nil
}
