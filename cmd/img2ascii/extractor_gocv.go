//go:build gocv

package main

import "github.com/wbrown/img2ascii/video"

func init() {
	extractors["gocv"] = func(*config) video.Extractor { return video.OpenCV{} }
}
