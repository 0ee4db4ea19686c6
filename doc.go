// Package webpcheck validates WebP image containers without decoding pixel
// data.
//
// It walks the RIFF chunk structure of a file, checks the feature chunks
// that describe the image (VP8, VP8L, VP8X, ALPH, ANIM, ANMF) for internal
// consistency, and reports the image's dimensions, alpha presence and, for
// animations, the frame count. Files that only carry a .webp name but hold
// another format, such as a renamed JPEG or PNG, are rejected with
// KindSignature so they can be told apart from damaged WebP files.
//
// Basic usage:
//
//	res := webpcheck.ValidateFile("photo.webp", nil)
//	if !res.IsValid {
//		log.Printf("%s: %s", res.ErrorKind, res.ErrorMessage)
//	}
//
// The batch package validates many files concurrently, and the server
// package exposes validation over HTTP.
package webpcheck
