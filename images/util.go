package images

import (
	"crypto/md5"
	"fmt"
)

// ComputeChecksum generates a deterministic checksum for a pixel buffer to
// verify that repeated runs produce identical output.
//
// Arguments:
// - pix: The interleaved RGBA bytes.
//
// Returns:
// - A hex-encoded MD5 checksum string, or "empty" for no pixels.
//
// Example:
//
// ```go
//
//	checksum := ComputeChecksum(p.Pix())
//	fmt.Printf("Frame checksum: %s\n", checksum)
//
// ```
func ComputeChecksum(pix []byte) string {
	if len(pix) == 0 {
		return "empty"
	}

	hash := md5.New()
	hash.Write(pix)
	return fmt.Sprintf("%x", hash.Sum(nil))
}
