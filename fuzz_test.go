package webpcheck

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/deepteams/webpcheck/internal/webptest"
)

// addSeedCorpus adds all testdata/*.webp files to the fuzz corpus.
func addSeedCorpus(f *testing.F) {
	f.Helper()
	entries, err := os.ReadDir("testdata")
	if err != nil {
		return // no testdata dir, skip
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext != ".webp" {
			continue
		}
		data, err := os.ReadFile(filepath.Join("testdata", e.Name()))
		if err != nil {
			continue
		}
		f.Add(data)
	}
}

// addMinimalSeeds adds hand-built containers of every layout to the corpus.
func addMinimalSeeds(f *testing.F) {
	f.Helper()
	f.Add(webptest.StaticLossy(1, 1))
	f.Add(webptest.StaticLossless(1, 1, true))
	f.Add(webptest.ExtendedStill(4, 4, true))
	f.Add(webptest.Animated(4, 4, 2, true))
	f.Add(webptest.JPEG())
	f.Add(webptest.PNG())
}

// FuzzValidate ensures that no input can cause a panic and that every
// rejection is classified.
func FuzzValidate(f *testing.F) {
	addSeedCorpus(f)
	addMinimalSeeds(f)

	f.Fuzz(func(t *testing.T, data []byte) {
		res := Validate(data, nil)
		if res.IsValid {
			if res.ErrorKind != "" || res.ErrorMessage != "" {
				t.Fatalf("valid result with error: %+v", res)
			}
			return
		}
		if res.ErrorKind == "" {
			t.Fatalf("invalid result without kind: %+v", res)
		}
		if res.Width != 0 || res.Height != 0 || res.NumFrames != 0 {
			t.Fatalf("invalid result carries metadata: %+v", res)
		}
	})
}

// FuzzValidateReader checks that reading through a reader gives the same
// verdict as validating the bytes directly.
func FuzzValidateReader(f *testing.F) {
	addSeedCorpus(f)
	addMinimalSeeds(f)

	f.Fuzz(func(t *testing.T, data []byte) {
		a := Validate(data, nil)
		b := ValidateReader(bytes.NewReader(data), nil)
		if a.IsValid != b.IsValid || a.ErrorKind != b.ErrorKind {
			t.Fatalf("Validate %+v, ValidateReader %+v", a, b)
		}
	})
}

// FuzzInspect ensures feature extraction never panics on arbitrary input.
func FuzzInspect(f *testing.F) {
	addSeedCorpus(f)
	addMinimalSeeds(f)

	f.Fuzz(func(t *testing.T, data []byte) {
		Inspect(data, nil) //nolint:errcheck
	})
}
