// Package qr renders textual artifacts (addresses, redemption scripts,
// signed transactions) as QR code image files for physical transport out
// of the air-gapped environment, and verifies every file it writes by
// decoding it back through an external reader. The read-after-write
// verification is the only defense against output corruption or malicious
// artifact substitution and must never be skipped.
package qr

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// maxLenAlnum is the per-artifact capacity when the data is
	// restricted to upper case, letting the encoder use its dense
	// alphanumeric mode. The theoretical alphanumeric limit is 4296
	// characters; staying under it leaves margin.
	maxLenAlnum = 4200

	// maxLenBinary is the per-artifact capacity for mixed-case data,
	// which forces the less dense byte mode.
	maxLenBinary = 2800

	// imageSize is the edge length in pixels of the written images.
	imageSize = 1024
)

// ErrVerifyMismatch is returned when the decoded artifacts do not
// reproduce the original data byte for byte. The artifacts were still
// written, but their integrity is suspect; callers must surface this to
// the operator loudly, not as a log line.
var ErrVerifyMismatch = errors.New("QR code could not be verified: " +
	"decoded data does not match, this could be a sign of a security " +
	"breach")

// Decoder reads the textual payload back out of a previously written
// artifact file. The production implementation shells out to an external
// reader so the verification path shares no code with the writer.
type Decoder interface {
	Decode(filename string) (string, error)
}

// ZbarDecoder decodes QR images with the zbarimg command line tool.
type ZbarDecoder struct{}

// Decode runs zbarimg on the given file and returns the decoded payload.
func (ZbarDecoder) Decode(filename string) (string, error) {
	out, err := exec.Command(
		"zbarimg", "--set", "*.enable=0", "--set", "qr.enable=1",
		"--quiet", "--raw", filename,
	).Output()
	if err != nil {
		return "", fmt.Errorf("zbarimg failed on %s: %w", filename,
			err)
	}

	return strings.TrimSpace(string(out)), nil
}

// Codec writes verified QR artifacts. The encode function is pluggable
// for tests; production codecs write real QR images.
type Codec struct {
	dec    Decoder
	encode func(filename, data string) error
}

// NewCodec returns a Codec writing QR images and verifying them through
// dec.
func NewCodec(dec Decoder) *Codec {
	return &Codec{dec: dec, encode: writeImage}
}

// writeImage renders a single QR code image file.
func writeImage(filename, data string) error {
	return qrcode.WriteFile(data, qrcode.Low, imageSize, filename)
}

// chunkLimit returns the per-artifact capacity for the given data. Upper
// case data fits the encoder's densest mode and gets the larger limit.
func chunkLimit(data string) int {
	if strings.ToUpper(data) == data {
		return maxLenAlnum
	}

	return maxLenBinary
}

// EmitVerified writes data as one or more QR artifact files and verifies
// them by round-trip decode. Data within the capacity limit is written to
// filename directly; larger data is split into successive chunks named
// with a zero-padded sequence suffix, e.g. transaction-01.png,
// transaction-02.png. Stale files matching the target's naming pattern
// are removed first so a later reader cannot pick up leftover chunks from
// a previous, differently sized artifact set.
//
// The written filenames are always returned. A verification mismatch is
// reported as ErrVerifyMismatch alongside them: the artifacts exist but
// must be treated as suspect.
func (c *Codec) EmitVerified(filename, data string) ([]string, error) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	stale, err := filepath.Glob(base + "*" + ext)
	if err != nil {
		return nil, fmt.Errorf("bad artifact pattern: %w", err)
	}
	for _, victim := range stale {
		log.Debugf("removing stale artifact %s", victim)
		if err := os.Remove(victim); err != nil {
			return nil, fmt.Errorf("unable to remove stale "+
				"artifact: %w", err)
		}
	}

	limit := chunkLimit(data)

	var filenames []string
	if len(data) <= limit {
		if err := c.encode(filename, data); err != nil {
			return nil, fmt.Errorf("unable to write artifact: %w",
				err)
		}
		filenames = []string{filename}
	} else {
		for idx, rest := 1, data; len(rest) > 0; idx++ {
			chunk := rest
			if len(chunk) > limit {
				chunk = rest[:limit]
			}
			rest = rest[len(chunk):]

			chunkFile := fmt.Sprintf("%s-%02d%s", base, idx, ext)
			if err := c.encode(chunkFile, chunk); err != nil {
				return nil, fmt.Errorf("unable to write "+
					"artifact: %w", err)
			}
			filenames = append(filenames, chunkFile)
		}
	}

	decoded, err := c.decodeAll(filenames)
	if err != nil {
		return filenames, err
	}
	if decoded != data {
		return filenames, ErrVerifyMismatch
	}

	return filenames, nil
}

// decodeAll decodes every artifact and concatenates the payloads in chunk
// order.
func (c *Codec) decodeAll(filenames []string) (string, error) {
	var builder strings.Builder
	for _, filename := range filenames {
		payload, err := c.dec.Decode(filename)
		if err != nil {
			return "", fmt.Errorf("unable to decode artifact %s: "+
				"%w", filename, err)
		}
		builder.WriteString(payload)
	}

	return builder.String(), nil
}
