// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// # Supported Formats
//
//   - signed PCM at 8, 16, 24 and 32 bits
//   - any channel count
//   - any sample rate
//
// AIFF-C compressed variants are not supported.
//
// # Decoding AIFF Files
//
// The returned audio.Source streams from the go-audio decoder and yields
// interleaved float32 in [-1, 1]:
//
//	f, _ := os.Open("strings.aif")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//		...
//	}
//	defer src.Close()
//
//	buf := make([]float32, src.BufSize())
//	for {
//		n, err := src.ReadSamples(buf)
//		// use buf[:n]
//		if err == io.EOF {
//			break
//		}
//	}
//
// Inputs that cannot seek are read into memory first.
//
// # Error Handling
//
// The package defines:
//   - ErrNotAiffFile: the input is not an AIFF file
//   - ErrUnsupportedBitDepth: a sample size other than 8, 16, 24 or 32 bits
//   - ErrUnsupportedAiffLayout: no usable COMM chunk
package aiff
