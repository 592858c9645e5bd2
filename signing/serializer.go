package signing

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// compressedFlag marks a compressed payload. It is prepended before signing,
// so the flag itself is tamper-protected — an attacker cannot turn
// compression on to feed the decompressor a crafted body.
const compressedFlag = "."

// Dumps serializes obj to compact JSON, optionally compresses it, frames it
// in URL-safe base64, and signs the result with a [TimestampSigner] under
// key and salt. The output is safe for cookies and URLs.
//
// With compress true, zlib compression is applied per call only when it
// strictly shortens the payload; the decision is recorded by a leading "."
// so [Loads] never has to guess.
func Dumps(obj any, key, salt string, compress bool) (string, error) {
	return DumpsSigner(NewTimestampSigner(key), obj, salt, compress)
}

// DumpsSigner is [Dumps] with a caller-supplied signer, for callers that
// reuse one signer across calls or need a pinned clock.
func DumpsSigner(signer *TimestampSigner, obj any, salt string, compress bool) (string, error) {
	payload, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("signing: serialize: %w", err)
	}

	isCompressed := false
	if compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(payload); err != nil {
			return "", fmt.Errorf("signing: compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return "", fmt.Errorf("signing: compress: %w", err)
		}
		if buf.Len() < len(payload)-1 {
			payload = buf.Bytes()
			isCompressed = true
		}
	}

	base64d := b64Encode(payload)
	if isCompressed {
		base64d = compressedFlag + base64d
	}
	return signer.Sign(base64d, salt), nil
}

// Loads verifies the signature on s (enforcing maxAge when non-zero),
// reverses the base64/compression framing, and unmarshals the JSON payload
// into dst. Verification failures surface as [ErrBadSignature] or
// [ErrSignatureExpired], exactly as from [TimestampSigner.Unsign].
func Loads(s, key, salt string, maxAge time.Duration, dst any) error {
	return LoadsSigner(NewTimestampSigner(key), s, salt, maxAge, dst)
}

// LoadsSigner is [Loads] with a caller-supplied signer.
func LoadsSigner(signer *TimestampSigner, s, salt string, maxAge time.Duration, dst any) error {
	base64d, err := signer.Unsign(s, salt, maxAge)
	if err != nil {
		return err
	}

	decompress := strings.HasPrefix(base64d, compressedFlag)
	if decompress {
		base64d = base64d[len(compressedFlag):]
	}
	payload, err := b64Decode(base64d)
	if err != nil {
		return fmt.Errorf("signing: decode payload: %w", err)
	}
	if decompress {
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("signing: decompress: %w", err)
		}
		payload, err = io.ReadAll(zr)
		if err != nil {
			return fmt.Errorf("signing: decompress: %w", err)
		}
		if err := zr.Close(); err != nil {
			return fmt.Errorf("signing: decompress: %w", err)
		}
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("signing: deserialize: %w", err)
	}
	return nil
}
