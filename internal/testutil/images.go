// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// PNG returns an encoded w×h PNG filled with a solid color.
func PNG(w, h int) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, solid(w, h))
	return buf.Bytes()
}

// JPEG returns an encoded w×h JPEG filled with a solid color.
func JPEG(w, h int) []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, solid(w, h), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

// PNGClaiming returns a tiny PNG whose header declares w×h pixels. The header
// is well formed; the pixel data does not match it.
func PNGClaiming(w, h int) []byte {
	data := PNG(1, 1)
	// IHDR: 8-byte signature, 4-byte length, "IHDR", 13 data bytes, CRC.
	binary.BigEndian.PutUint32(data[16:20], uint32(w))
	binary.BigEndian.PutUint32(data[20:24], uint32(h))
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

// ImageSize decodes data and returns its dimensions.
func ImageSize(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := color.RGBA{R: 200, G: 80, B: 40, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}
