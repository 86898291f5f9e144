package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"mediamaestro/internal/shared"
)

// ReadTags attempts tag extraction appropriate to the file's format. It is
// the default TagExtractor. Formats without a tag reader (wav, m4a, aac,
// video) return an error so the caller degrades to the fallback record.
func ReadTags(path string, kind shared.FormatKind) (shared.TagRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return readMP3Tags(path)
	case ".flac":
		return readFLACTags(path)
	default:
		return shared.TagRecord{}, fmt.Errorf("no tag reader for %s", filepath.Ext(path))
	}
}

// ExtractTags runs the extractor and degrades to the filename-derived
// fallback on any failure. The pipeline is total: every file yields a usable
// record even with zero metadata.
func (m *Manager) ExtractTags(path string, kind shared.FormatKind) shared.TagRecord {
	record, err := m.extract(path, kind)
	if err != nil {
		return FallbackRecord(path)
	}
	return record
}

// FallbackRecord builds the degraded metadata record for a file whose tags
// could not be read.
func FallbackRecord(path string) shared.TagRecord {
	ext := filepath.Ext(path)
	return shared.TagRecord{
		Title:  shared.Stem(path),
		Artist: "Unknown",
		Album:  "Unknown",
		Format: strings.ToUpper(strings.TrimPrefix(ext, ".")),
	}
}

func readMP3Tags(path string) (shared.TagRecord, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return shared.TagRecord{}, fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer tag.Close()

	// A file with no ID3 frames carries no usable metadata; treat it like an
	// unreadable tag so the filename fallback applies.
	if tag.Count() == 0 {
		return shared.TagRecord{}, fmt.Errorf("no ID3 frames in %s", filepath.Base(path))
	}

	record := shared.TagRecord{
		Title:  tag.Title(),
		Artist: tag.Artist(),
		Album:  tag.Album(),
		Format: "MP3",
	}
	if record.Title == "" {
		record.Title = "Unknown"
	}
	if record.Artist == "" {
		record.Artist = "Unknown"
	}
	if record.Album == "" {
		record.Album = "Unknown"
	}
	// ID3 frames carry no duration or bitrate; both stay 0.
	return record, nil
}

func readFLACTags(path string) (shared.TagRecord, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return shared.TagRecord{}, fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	record := shared.TagRecord{
		Title:  "Unknown",
		Artist: "Unknown",
		Album:  "Unknown",
		Format: "FLAC",
	}

	for _, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			continue
		}
		if title := firstField(cmts, flacvorbis.FIELD_TITLE); title != "" {
			record.Title = title
		}
		if artist := firstField(cmts, flacvorbis.FIELD_ARTIST); artist != "" {
			record.Artist = artist
		}
		if album := firstField(cmts, flacvorbis.FIELD_ALBUM); album != "" {
			record.Album = album
		}
		break
	}

	if info, err := f.GetStreamInfo(); err == nil && info.SampleRate > 0 {
		record.Duration = float64(info.SampleCount) / float64(info.SampleRate)
		if record.Duration > 0 {
			if stat, err := os.Stat(path); err == nil {
				record.Bitrate = int(float64(stat.Size()) * 8 / record.Duration)
			}
		}
	}

	return record, nil
}

func firstField(cmts *flacvorbis.MetaDataBlockVorbisComment, field string) string {
	values, err := cmts.Get(field)
	if err != nil || len(values) == 0 {
		return ""
	}
	return values[0]
}
