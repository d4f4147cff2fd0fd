// Package digest implements the file-change fingerprint: the MD5
// hex digest of the raw, pre-decode source bytes, used by internal/index to
// decide whether a file needs re-analysis.
package digest

import (
	"crypto/md5"
	"encoding/hex"
)

// Hex returns the 32-character lowercase hex MD5 digest of raw.
func Hex(raw []byte) string {
	sum := md5.Sum(raw)
	return hex.EncodeToString(sum[:])
}
