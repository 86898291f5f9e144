package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/rs/zerolog/log"

	"mediamaestro/internal/shared"
)

// TagFLACFile writes vorbis comments to a freshly downloaded FLAC file and
// embeds the video thumbnail as front cover art. Thumbnail fetch failures are
// logged, not fatal; the tags still get written.
func TagFLACFile(ctx context.Context, filePath, title, artist, thumbnailURL string) error {
	f, err := flac.ParseFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	// Drop existing VORBIS_COMMENT and PICTURE blocks for clean metadata.
	var kept []*flac.MetaDataBlock
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment && block.Type != flac.Picture {
			kept = append(kept, block)
		}
	}
	f.Meta = kept

	comment := flacvorbis.New()
	addField(comment, flacvorbis.FIELD_TITLE, title)
	addField(comment, flacvorbis.FIELD_ARTIST, artist)
	addField(comment, "ENCODER", "MediaMaestro/1.0")
	addField(comment, "SOURCE", "YouTube")

	vorbisCommentBlock := comment.Marshal()
	f.Meta = append(f.Meta, &vorbisCommentBlock)

	if thumbnailURL != "" {
		if coverData, err := fetchThumbnail(ctx, thumbnailURL); err != nil {
			log.Warn().Err(err).Str("url", thumbnailURL).Msg("failed to fetch thumbnail")
		} else if err := addCoverArt(f, coverData); err != nil {
			log.Warn().Err(err).Str("file", filePath).Msg("failed to embed cover art")
		}
	}

	if err := f.Save(filePath); err != nil {
		return fmt.Errorf("failed to save FLAC file with metadata: %w", err)
	}
	return nil
}

// addField adds a field to vorbis comment only if value is not empty
func addField(comment *flacvorbis.MetaDataBlockVorbisComment, field, value string) {
	if value != "" {
		comment.Add(field, value)
	}
}

// addCoverArt embeds the image as a FLAC picture block.
func addCoverArt(f *flac.File, coverData []byte) error {
	if len(coverData) == 0 {
		return nil
	}

	imageFormat := detectImageFormat(coverData)

	picture, err := flacpicture.NewFromImageData(
		flacpicture.PictureTypeFrontCover,
		"Front Cover",
		coverData,
		imageFormat,
	)
	if err != nil {
		picture, err = flacpicture.NewFromImageData(
			flacpicture.PictureTypeOther,
			"Cover Art",
			coverData,
			imageFormat,
		)
		if err != nil {
			return fmt.Errorf("failed to create picture metadata: %w", err)
		}
	}

	pictureBlock := picture.Marshal()
	f.Meta = append(f.Meta, &pictureBlock)
	return nil
}

// detectImageFormat detects the image format from the data
func detectImageFormat(data []byte) string {
	if len(data) < 4 {
		return "image/jpeg" // Default fallback
	}

	// PNG signature (89 50 4E 47)
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}

	// JPEG signature (FF D8)
	if data[0] == 0xFF && data[1] == 0xD8 {
		return "image/jpeg"
	}

	// WebP signature (RIFF...WEBP)
	if len(data) >= 12 && data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 &&
		data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50 {
		return "image/webp"
	}

	// GIF signature (GIF8)
	if data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x38 {
		return "image/gif"
	}

	return "image/jpeg"
}

// fetchThumbnail downloads the thumbnail image, retrying transient HTTP
// failures.
func fetchThumbnail(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var data []byte
	err := shared.RetryWithBackoff(3, time.Second, 10*time.Second, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to build thumbnail request: %w", err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch thumbnail: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &shared.HTTPError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Message:    "thumbnail fetch failed",
			}
		}

		data, err = io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
