package audio

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// ErrNotMP3 is returned when a file is not an MP3 and cannot carry ID3 tags.
var ErrNotMP3 = errors.New("not an mp3 file")

// TagConfig controls which frames the Tagger writes.
//
// The external tools already embed title, artist and artwork. The Tagger
// only adds what they cannot know: where the request came from.
//
// Example:
//
//	cfg := &TagConfig{
//	    SourceURL: true, // WOAS frame and a "Source" comment
//	    FillTitle: true, // TIT2 from the request when the tool left it empty
//	}
type TagConfig struct {
	// SourceURL writes the original URL or query into WOAS and COMM frames.
	SourceURL bool

	// FillTitle sets TIT2 from the item when the file has no title.
	FillTitle bool
}

// DefaultTagConfig returns a configuration with every option enabled.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		SourceURL: true,
		FillTitle: true,
	}
}

// Tagger writes ID3 tags to finished MP3 downloads.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	if err := tagger.SaveTags(item); err != nil && !errors.Is(err, ErrNotMP3) {
//	    log.Printf("Failed to tag %s: %v", item.OutputPath, err)
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

// SaveTags updates the ID3 tag of item.OutputPath.
//
// Files other than .mp3 are left alone and ErrNotMP3 is returned.
func (t *Tagger) SaveTags(item model.Item) error {
	if !strings.EqualFold(filepath.Ext(item.OutputPath), ".mp3") {
		return ErrNotMP3
	}

	tag, err := id3v2.Open(item.OutputPath, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if t.config.SourceURL {
		t.updateSource(tag, item)
	}

	if t.config.FillTitle && tag.Title() == "" {
		tag.SetTitle(fallbackTitle(item))
	}

	return tag.Save()
}

// updateSource replaces any previous source frames.
func (t *Tagger) updateSource(tag *id3v2.Tag, item model.Item) {
	if item.Operation == model.OperationDownload {
		// WOAS (Official audio source webpage) holds a bare ISO-8859-1 URL
		tag.DeleteFrames("WOAS")
		tag.AddFrame("WOAS", id3v2.UnknownFrame{Body: []byte(item.Target)})
	}

	tag.DeleteFrames(tag.CommonID("Comments"))
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "eng",
		Description: "Source",
		Text:        sourceComment(item),
	})
}

func sourceComment(item model.Item) string {
	if item.Operation == model.OperationSearch {
		return string(item.Source) + " search: " + item.Input
	}
	return item.Target
}

func fallbackTitle(item model.Item) string {
	base := filepath.Base(item.OutputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
