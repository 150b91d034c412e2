package download

import (
	"errors"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"

	"github.com/royal-15/SpotiPlay-Desktop/internal/audio"
	"github.com/royal-15/SpotiPlay-Desktop/internal/config"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
)

// postProcess is the work done on a finished file before the completion is
// reported. It runs on the item's worker goroutine.
type postProcess struct {
	tagger    *audio.Tagger // nil disables tagging
	saveCover bool
	coverSize int
}

func newPostProcess(s *config.Settings) postProcess {
	p := postProcess{
		saveCover: s.SaveCoverArt,
		coverSize: s.CoverArtMaxSize,
	}
	if s.TagSourceURL {
		p.tagger = audio.NewTagger(audio.DefaultTagConfig())
	}
	return p
}

// run tags the file and reads back what the tools embedded. Every failure
// is logged and otherwise ignored.
func (p postProcess) run(item model.Item, log *logrus.Entry) (title, artist string) {
	if item.OutputPath == "" {
		return "", ""
	}
	log = log.WithField("path", item.OutputPath)

	if p.tagger != nil {
		if err := p.tagger.SaveTags(item); err != nil && !errors.Is(err, audio.ErrNotMP3) {
			log.WithError(err).Warn("Failed to write source tags")
		}
	}

	md, err := audio.ReadMetadata(item.OutputPath)
	if err != nil {
		if !errors.Is(err, tag.ErrNoTagsFound) {
			log.WithError(err).Warn("Failed to read tags")
		}
		return "", ""
	}

	if p.saveCover {
		if path, err := audio.ExportCover(item.OutputPath, p.coverSize); err != nil {
			if !errors.Is(err, audio.ErrNoPicture) {
				log.WithError(err).Warn("Failed to export cover art")
			}
		} else {
			log.WithField("cover", path).Debug("Cover art saved")
		}
	}

	return md.Title, md.Artist
}
