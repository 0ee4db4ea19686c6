package webpcheck_test

import (
	"fmt"

	"github.com/deepteams/webpcheck"
	"github.com/deepteams/webpcheck/internal/webptest"
)

func ExampleValidate() {
	res := webpcheck.Validate(webptest.StaticLossless(100, 50, true), nil)
	fmt.Printf("valid: %v\n", res.IsValid)
	fmt.Printf("size: %dx%d\n", res.Width, res.Height)
	fmt.Printf("alpha: %v\n", res.HasAlpha)
	fmt.Printf("frames: %d\n", res.NumFrames)
	// Output:
	// valid: true
	// size: 100x50
	// alpha: true
	// frames: 0
}

func ExampleValidate_animated() {
	res := webpcheck.Validate(webptest.Animated(64, 64, 20, false), nil)
	fmt.Printf("animated: %v, frames: %d\n", res.IsAnimated, res.NumFrames)
	// Output:
	// animated: true, frames: 20
}

func ExampleValidate_renamedJPEG() {
	res := webpcheck.Validate(webptest.JPEG(), nil)
	fmt.Println(res.IsValid, res.ErrorKind)
	// Output:
	// false signature_mismatch
}

func ExampleInspect() {
	feat, err := webpcheck.Inspect(webptest.ExtendedStill(32, 16, true), nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("size: %dx%d\n", feat.Width, feat.Height)
	fmt.Printf("format: %s\n", feat.Format)
	fmt.Printf("alpha: %v\n", feat.HasAlpha)
	// Output:
	// size: 32x16
	// format: extended
	// alpha: true
}
