package render

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"math"
	"os"

	"zheatmap/internal"
	"zheatmap/internal/errors"
)

// ihdrEnd is the offset just past the PNG signature and the IHDR chunk
const ihdrEnd = 8 + 4 + 4 + 13 + 4

// PNGWriter saves images as PNG files carrying their resolution
type PNGWriter struct {
	logger *internal.Logger
}

// NewPNGWriter creates a writer that logs saved paths through logger
func NewPNGWriter(logger *internal.Logger) *PNGWriter {
	return &PNGWriter{logger: logger}
}

// WriteImage encodes img and replaces path with it. The file appears only
// once it is complete.
func (w *PNGWriter) WriteImage(path string, img image.Image, dpi int) error {
	data, err := encodePNG(img, dpi)
	if err != nil {
		return errors.IOError(path, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		os.Remove(tmpPath)
		return errors.IOError(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.IOError(path, err)
	}

	b := img.Bounds()
	w.logger.Debug("wrote %s (%dx%d px, %d bytes)", path, b.Dx(), b.Dy(), len(data))
	return nil
}

// encodePNG encodes img and inserts a pHYs chunk recording dpi
func encodePNG(img image.Image, dpi int) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	if dpi <= 0 {
		return buf.Bytes(), nil
	}

	raw := buf.Bytes()
	out := make([]byte, 0, len(raw)+21)
	out = append(out, raw[:ihdrEnd]...)
	out = append(out, physChunk(dpi)...)
	out = append(out, raw[ihdrEnd:]...)
	return out, nil
}

// physChunk builds a pHYs chunk giving the pixel density in pixels per metre
func physChunk(dpi int) []byte {
	ppm := uint32(math.Round(float64(dpi) / 0.0254))

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // unit: metre
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))
	return chunk
}
