package webpcheck

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/deepteams/webpcheck/internal/webptest"
)

func BenchmarkValidate_Lossy(b *testing.B) {
	data := webptest.StaticLossy(640, 480)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := Validate(data, nil); !res.IsValid {
			b.Fatal(res.ErrorMessage)
		}
	}
}

func BenchmarkValidate_Extended(b *testing.B) {
	data := webptest.ExtendedStill(640, 480, true)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := Validate(data, nil); !res.IsValid {
			b.Fatal(res.ErrorMessage)
		}
	}
}

func BenchmarkValidate_Animated100(b *testing.B) {
	data := webptest.Animated(320, 240, 100, true)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := Validate(data, nil); res.NumFrames != 100 {
			b.Fatalf("frames = %d", res.NumFrames)
		}
	}
}

func BenchmarkValidate_Fake(b *testing.B) {
	data := webptest.JPEG()
	for i := 0; i < b.N; i++ {
		Validate(data, nil)
	}
}

func BenchmarkValidateReader(b *testing.B) {
	data := webptest.Animated(320, 240, 20, false)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ValidateReader(bytes.NewReader(data), nil)
	}
}

func BenchmarkValidateFile(b *testing.B) {
	path := filepath.Join(b.TempDir(), "bench.webp")
	if err := os.WriteFile(path, webptest.StaticLossless(512, 512, true), 0o644); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ValidateFile(path, nil)
	}
}
