package uploaderimpl

import (
	"io"

	"github.com/craftfolio/story-engine/internal/uploader"
)

// progressReader wraps the request body and reports integer percentages as
// the transport consumes it. Percentages never decrease and 100 is emitted
// exactly once, when the final byte has been read.
type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	lastPct  int
	callback uploader.ProgressFunc
}

func newProgressReader(r io.Reader, total int64, cb uploader.ProgressFunc) *progressReader {
	cb(0)
	return &progressReader{reader: r, total: total, lastPct: 0, callback: cb}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)
		pct := int(pr.read * 100 / pr.total)
		if pct > 100 {
			pct = 100
		}
		if pct > pr.lastPct {
			pr.lastPct = pct
			pr.callback(pct)
		}
	}
	return n, err
}
