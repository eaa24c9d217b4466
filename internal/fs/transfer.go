package fs

import (
	"fmt"
	"io"
)

const transferBufSize = 32 * 1024 // 32 KiB copy buffer

// Transfer copies exactly length bytes starting at offset in src into dst.
// Memory use is one transfer buffer regardless of length. A source shorter
// than offset+length yields io.ErrUnexpectedEOF.
func Transfer(src io.ReaderAt, offset, length int64, dst io.Writer) (int64, error) {
	if offset < 0 || length < 0 {
		return 0, fmt.Errorf("transfer: invalid range offset=%d length=%d", offset, length)
	}
	section := io.NewSectionReader(src, offset, length)
	buf := make([]byte, transferBufSize)

	var written int64
	for written < length {
		n, rerr := section.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, werr
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return written, rerr
		}
	}
	if written < length {
		return written, io.ErrUnexpectedEOF
	}
	return written, nil
}
