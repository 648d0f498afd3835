package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Input is one recording queued for transcription.
type Input struct {
	Path string
	// Name is the artifact base name: the file name up to its first dot.
	Name string
}

// Title returns a display form of the recording name.
func (in Input) Title() string {
	return DisplayTitle(in.Name)
}

// OutputName returns the file name of path up to its first '.', so
// "lecture.part1.mp3" becomes "lecture". Dot files keep their full name.
func OutputName(path string) string {
	base := filepath.Base(path)
	if name, _, _ := strings.Cut(base, "."); name != "" {
		return name
	}
	return base
}

// DisplayTitle turns an output name into a title-cased label for reports.
func DisplayTitle(name string) string {
	var cleaned strings.Builder
	prevSpace := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case !prevSpace:
			cleaned.WriteRune(' ')
			prevSpace = true
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return name
	}
	return cases.Title(language.Und, cases.NoLower).String(title)
}

// DiscoverInputs lists the files in dir whose extension is in extensions,
// sorted by file name. Subdirectories are not searched.
func DiscoverInputs(dir string, extensions []string) ([]Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}

	var inputs []Input
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))
		if _, ok := allowed[ext]; !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		inputs = append(inputs, Input{Path: path, Name: OutputName(path)})
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Path < inputs[j].Path })
	return inputs, nil
}

// InputsFromPaths builds inputs for explicitly named files.
func InputsFromPaths(paths []string) ([]Input, error) {
	inputs := make([]Input, 0, len(paths))
	for _, raw := range paths {
		path, err := filepath.Abs(raw)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", raw, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", raw, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("input %s is a directory", raw)
		}
		inputs = append(inputs, Input{Path: path, Name: OutputName(path)})
	}
	return inputs, nil
}
