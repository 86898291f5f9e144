package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"

	"mediamaestro/internal/shared"
)

// CopiedFile reports one successfully imported file.
type CopiedFile struct {
	File     string           `json:"file"`
	Target   string           `json:"target"`
	Metadata shared.TagRecord `json:"metadata"`
}

// CopyFailure reports one file that could not be imported.
type CopyFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// DuplicateFile reports a file whose destination already existed. The
// destination is left untouched.
type DuplicateFile struct {
	File   string `json:"file"`
	Target string `json:"target"`
}

// CopyReport is the structured partial result of a copy batch. One bad file
// never aborts the rest.
type CopyReport struct {
	Success        []CopiedFile    `json:"success"`
	Failed         []CopyFailure   `json:"failed"`
	Duplicates     []DuplicateFile `json:"duplicates"`
	TotalProcessed int             `json:"total_processed"`
}

// CopyIntoLibrary copies external files into the category's format
// directories. Audio lands in the mp3 slot unless it is a .flac, video in the
// video slot; anything outside both allow-lists is reported as failed.
// A pre-existing destination file is reported as a duplicate, never
// overwritten. bar may be nil.
func (m *Manager) CopyIntoLibrary(sources []string, category string, bar *pb.ProgressBar) *CopyReport {
	report := &CopyReport{
		Success:    []CopiedFile{},
		Failed:     []CopyFailure{},
		Duplicates: []DuplicateFile{},
	}

	categoryDir := filepath.Join(m.opts.MediaDir, category)

	for _, source := range sources {
		report.TotalProcessed++
		if bar != nil {
			bar.Increment()
		}

		if !shared.FileExists(source) {
			report.Failed = append(report.Failed, CopyFailure{
				File:  source,
				Error: "File does not exist",
			})
			continue
		}

		ext := filepath.Ext(source)
		var kind shared.FormatKind
		switch {
		case extensionAllowed(ext, m.opts.AudioExtensions):
			kind = shared.FormatMP3
			if extensionAllowed(ext, []string{".flac"}) {
				kind = shared.FormatFLAC
			}
		case extensionAllowed(ext, m.opts.VideoExtensions):
			kind = shared.FormatVideo
		default:
			report.Failed = append(report.Failed, CopyFailure{
				File:  source,
				Error: "Unsupported file format",
			})
			continue
		}

		targetDir := filepath.Join(categoryDir, string(kind))
		if err := os.MkdirAll(targetDir, 0755); err != nil {
			report.Failed = append(report.Failed, CopyFailure{
				File:  source,
				Error: err.Error(),
			})
			continue
		}

		target := filepath.Join(targetDir, filepath.Base(source))
		if shared.FileExists(target) {
			report.Duplicates = append(report.Duplicates, DuplicateFile{
				File:   source,
				Target: target,
			})
			continue
		}

		if err := copyFile(source, target); err != nil {
			report.Failed = append(report.Failed, CopyFailure{
				File:  source,
				Error: err.Error(),
			})
			continue
		}

		report.Success = append(report.Success, CopiedFile{
			File:     source,
			Target:   target,
			Metadata: m.ExtractTags(target, kind),
		})
	}

	return report
}

// copyFile copies source to target, preserving the source's modification
// time.
func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create target: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(target)
		return fmt.Errorf("failed to copy: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("failed to close target: %w", err)
	}

	if info, err := os.Stat(source); err == nil {
		_ = os.Chtimes(target, info.ModTime(), info.ModTime())
	}

	return nil
}
