package audio

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/ZephyrCodesStuff/slavart/internal/model"
)

// ErrNotFLAC is returned by Tag when the data does not start with the
// FLAC stream marker.
var ErrNotFLAC = errors.New("not a FLAC stream")

const (
	flacMarker = "fLaC"
	vendor     = "slavart"
)

// TagEditAction defines how to handle individual Vorbis comments.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty removes every comment of the field.
	TagEmpty TagEditAction = iota

	// TagModify replaces the field with the value from the track cache.
	TagModify

	// TagDoNotModify leaves existing comments of the field unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each Vorbis comment field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Artist:      TagModify,      // ARTIST from the cache
//	    Album:       TagModify,      // ALBUM from the cache
//	    TrackTitle:  TagModify,      // TITLE from the cache
//	    TrackNumber: TagDoNotModify, // keep what the server wrote
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no comments are modified.
	ModifyTags bool

	// Artist controls the ARTIST comment.
	Artist TagEditAction

	// Album controls the ALBUM comment.
	Album TagEditAction

	// TrackTitle controls the TITLE comment.
	TrackTitle TagEditAction

	// TrackNumber controls the TRACKNUMBER comment.
	TrackNumber TagEditAction
}

// DefaultTagConfig returns the default tag configuration: every field is
// set to TagModify.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Artist:      TagModify,
		Album:       TagModify,
		TrackTitle:  TagModify,
		TrackNumber: TagModify,
	}
}

// Tagger writes Vorbis comments and cover pictures into FLAC data.
//
// Tagger works on the downloaded bytes before they reach the disk, so a
// track is written exactly once. Audio frames are carried over untouched.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	tagged, err := tagger.Tag(flacBytes, record, jpegCover)
//	if errors.Is(err, ErrNotFLAC) {
//	    tagged = flacBytes // write as is
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// Tag returns data with comments from rec and cover embedded.
//
// A nil rec leaves the comments alone. A nil cover leaves pictures alone;
// otherwise existing front covers are replaced. Returns ErrNotFLAC when
// data is not FLAC.
func (t *Tagger) Tag(data []byte, rec *model.CacheRecord, cover []byte) ([]byte, error) {
	if !IsFLAC(data) {
		return nil, ErrNotFLAC
	}

	file, err := flac.ParseBytes(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse flac: %w", err)
	}

	if t.config.ModifyTags && rec != nil {
		if err := t.updateComments(file, rec); err != nil {
			return nil, err
		}
	}

	if len(cover) > 0 {
		if err := updatePicture(file, cover); err != nil {
			return nil, err
		}
	}

	return file.Marshal(), nil
}

// IsFLAC reports whether data starts with the FLAC stream marker.
func IsFLAC(data []byte) bool {
	return bytes.HasPrefix(data, []byte(flacMarker))
}

// updateComments rewrites the VORBIS_COMMENT block based on configuration.
func (t *Tagger) updateComments(file *flac.File, rec *model.CacheRecord) error {
	fields := []struct {
		key    string
		action TagEditAction
		value  string
	}{
		{"ARTIST", t.config.Artist, rec.Artist},
		{"ALBUM", t.config.Album, rec.AlbumTitle()},
		{"TITLE", t.config.TrackTitle, rec.Title},
		{"TRACKNUMBER", t.config.TrackNumber, trackNumber(rec.TrackNumber)},
	}

	idx := -1
	cmts := flacvorbis.New()
	cmts.Vendor = vendor
	for i, meta := range file.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		existing, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return fmt.Errorf("parse vorbis comments: %w", err)
		}
		idx = i
		cmts = existing
		break
	}

	replaced := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.action != TagDoNotModify {
			replaced[f.key] = true
		}
	}

	kept := cmts.Comments[:0:0]
	for _, c := range cmts.Comments {
		key, _, _ := strings.Cut(c, "=")
		if !replaced[strings.ToUpper(key)] {
			kept = append(kept, c)
		}
	}
	cmts.Comments = kept

	for _, f := range fields {
		if f.action != TagModify || f.value == "" {
			continue
		}
		if err := cmts.Add(f.key, f.value); err != nil {
			return fmt.Errorf("add %s: %w", strings.ToLower(f.key), err)
		}
	}

	block := cmts.Marshal()
	if idx >= 0 {
		file.Meta[idx] = &block
	} else {
		file.Meta = append(file.Meta, &block)
	}
	return nil
}

// updatePicture embeds cover as the front cover picture block.
func updatePicture(file *flac.File, cover []byte) error {
	pic, err := flacpicture.NewFromImageData(
		flacpicture.PictureTypeFrontCover,
		"Front Cover",
		cover,
		http.DetectContentType(cover),
	)
	if err != nil {
		return fmt.Errorf("create picture: %w", err)
	}

	// Remove any existing front covers
	meta := make([]*flac.MetaDataBlock, 0, len(file.Meta)+1)
	for _, block := range file.Meta {
		if block.Type == flac.Picture {
			existing, err := flacpicture.ParseFromMetaDataBlock(*block)
			if err == nil && existing.PictureType == flacpicture.PictureTypeFrontCover {
				continue
			}
		}
		meta = append(meta, block)
	}

	picBlock := pic.Marshal()
	file.Meta = append(meta, &picBlock)
	return nil
}

// trackNumber drops the zero padding of a cached track number.
func trackNumber(s string) string {
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n)
	}
	return s
}
