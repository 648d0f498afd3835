package transcript

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scribe/internal/services"
)

// EmitOptions controls which artifacts Emit writes.
type EmitOptions struct {
	WriteText bool
}

// DefaultEmitOptions writes both the SRT and the plain-text transcript.
func DefaultEmitOptions() EmitOptions {
	return EmitOptions{WriteText: true}
}

// Emit writes the timeline's segments to subtitlePath as SRT and, when
// opts.WriteText is set, to textPath as plain text. Existing files are
// replaced. Both artifacts are staged next to their targets and renamed into
// place only after every write succeeded. Parent directories must exist.
func Emit(timeline *Timeline, subtitlePath, textPath string, opts EmitOptions) error {
	var segments []Stamp
	if timeline != nil {
		segments = timeline.Segments
	}

	var srt bytes.Buffer
	if err := WriteSRT(&srt, segments); err != nil {
		return services.Wrap(services.ErrIO, "emit", "render subtitle", subtitlePath, err)
	}
	artifacts := []artifact{{path: subtitlePath, data: srt.Bytes()}}

	if opts.WriteText {
		if strings.TrimSpace(textPath) == "" {
			return services.Wrap(services.ErrConfiguration, "emit", "text path", "text output requested without a path", nil)
		}
		var text bytes.Buffer
		if err := WriteText(&text, segments); err != nil {
			return services.Wrap(services.ErrIO, "emit", "render text", textPath, err)
		}
		artifacts = append(artifacts, artifact{path: textPath, data: text.Bytes()})
	}
	return commitArtifacts(artifacts)
}

type artifact struct {
	path   string
	data   []byte
	temp   string
	backup string
}

// commitArtifacts stages every artifact, then renames them into place. An
// existing regular file at a target is moved aside first. If any rename
// fails, targets committed in this call are removed and the files moved
// aside are put back, so the previous outputs survive.
func commitArtifacts(artifacts []artifact) error {
	cleanupTemps := func() {
		for _, a := range artifacts {
			if a.temp != "" {
				_ = os.Remove(a.temp)
			}
		}
	}

	for i := range artifacts {
		temp, err := stageFile(artifacts[i].path, artifacts[i].data)
		if err != nil {
			cleanupTemps()
			return services.Wrap(services.ErrIO, "emit", "write", artifacts[i].path, err)
		}
		artifacts[i].temp = temp
	}

	rollback := func(committed int) {
		cleanupTemps()
		for i := range artifacts {
			a := artifacts[i]
			if i < committed {
				_ = os.Remove(a.path)
			}
			if a.backup != "" {
				_ = os.Rename(a.backup, a.path)
			}
		}
	}

	for i := range artifacts {
		backup, err := setAside(artifacts[i].path)
		if err != nil {
			rollback(i)
			return services.Wrap(services.ErrIO, "emit", "preserve previous", artifacts[i].path, err)
		}
		artifacts[i].backup = backup
		if err := os.Rename(artifacts[i].temp, artifacts[i].path); err != nil {
			rollback(i)
			return services.Wrap(services.ErrIO, "emit", "rename", artifacts[i].path, err)
		}
		artifacts[i].temp = ""
	}

	for _, a := range artifacts {
		if a.backup != "" {
			_ = os.Remove(a.backup)
		}
	}
	return nil
}

// setAside renames an existing regular file at path to a hidden sibling and
// returns the new name. Missing paths and non-regular files are left alone.
func setAside(path string) (string, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}
	backup := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".prev")
	if err := os.Rename(path, backup); err != nil {
		return "", err
	}
	return backup, nil
}

func stageFile(path string, data []byte) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("empty output path")
	}
	dir := filepath.Dir(path)
	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	temp := file.Name()
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(temp)
		return "", err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(temp)
		return "", err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(temp)
		return "", err
	}
	if err := os.Chmod(temp, 0o644); err != nil {
		_ = os.Remove(temp)
		return "", fmt.Errorf("chmod: %w", err)
	}
	return temp, nil
}
