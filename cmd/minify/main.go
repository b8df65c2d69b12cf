package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"vocabquiz/internal/logging"
)

// mediaTypes maps the -type flag and file extensions to minifier media types.
var mediaTypes = map[string]string{
	"css":  "text/css",
	"html": "text/html",
	"js":   "application/javascript",
}

// asset directories copied into dist/ by -all
var assetDirs = []string{"templates", "static"}

// result describes one minified file.
type result struct {
	Src, Dst      string
	Before, After int
}

// Reduction is the percentage of bytes saved.
func (r result) Reduction() float64 {
	if r.Before == 0 {
		return 0
	}
	return float64(r.Before-r.After) / float64(r.Before) * 100
}

func main() {
	var (
		inputFile  = flag.String("input", "", "Input file path")
		outputFile = flag.String("output", "", "Output file path")
		fileType   = flag.String("type", "", "File type (css, js or html)")
		all        = flag.Bool("all", false, "Minify templates/ and static/ into -dist")
		distDir    = flag.String("dist", "dist", "Output directory for -all")
	)
	flag.Parse()

	log := logging.New("minify", "development", "info")
	m := newMinifier()

	if *all {
		results, err := minifyTree(m, assetDirs, *distDir)
		if err != nil {
			log.Fatal().Err(err).Msg("minification failed")
		}
		for _, r := range results {
			report(log, r)
		}
		log.Info().Int("files", len(results)).Str("dist", *distDir).Msg("minification complete")
		return
	}

	if *inputFile == "" || *outputFile == "" || *fileType == "" {
		log.Fatal().Msg("usage: go run ./cmd/minify -input=<file> -output=<file> -type=<css|js|html> | -all")
	}
	mediaType, ok := mediaTypes[strings.ToLower(*fileType)]
	if !ok {
		log.Fatal().Str("type", *fileType).Msg("unsupported file type (supported: css, js, html)")
	}
	r, err := minifyFile(m, *inputFile, *outputFile, mediaType)
	if err != nil {
		log.Fatal().Err(err).Str("input", *inputFile).Msg("minification failed")
	}
	report(log, r)
}

func report(log zerolog.Logger, r result) {
	log.Info().
		Str("src", r.Src).
		Str("dst", r.Dst).
		Int("before", r.Before).
		Int("after", r.After).
		Str("reduction", fmt.Sprintf("%.1f%%", r.Reduction())).
		Msg("minified")
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("application/javascript", js.Minify)
	return m
}

// minifyFile minifies srcPath into dstPath, creating parent directories.
func minifyFile(m *minify.M, srcPath, dstPath, mediaType string) (result, error) {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return result{}, err
	}
	minified, err := m.Bytes(mediaType, src)
	if err != nil {
		return result{}, fmt.Errorf("minify %s: %w", srcPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return result{}, err
	}
	if err := os.WriteFile(dstPath, minified, 0644); err != nil {
		return result{}, err
	}
	return result{Src: srcPath, Dst: dstPath, Before: len(src), After: len(minified)}, nil
}

// minifyTree walks each directory in dirs and writes the minified copy of
// every .html, .css and .js file under distDir, keeping relative paths.
// Other files are skipped.
func minifyTree(m *minify.M, dirs []string, distDir string) ([]result, error) {
	var results []result
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			mediaType, ok := mediaTypes[strings.TrimPrefix(filepath.Ext(path), ".")]
			if !ok {
				return nil
			}
			r, err := minifyFile(m, path, filepath.Join(distDir, path), mediaType)
			if err != nil {
				return err
			}
			results = append(results, r)
			return nil
		})
		if err != nil {
			return results, fmt.Errorf("minify %s: %w", dir, err)
		}
	}
	return results, nil
}
