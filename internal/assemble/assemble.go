// Package assemble lays captured frames onto numbered PDF pages and
// serializes the final document using pdfcpu.
package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrEmptyDocument is returned when serializing a document with no pages.
var ErrEmptyDocument = errors.New("document has no pages")

// Options configures page layout for every appended frame.
type Options struct {
	// PageFormat is a paper size name understood by pdfcpu, e.g. "A4".
	PageFormat string
	// Position anchors the frame on the page ("c", "tl", "tc", ...).
	Position string
	// ScaleFactor scales the frame relative to the page box while
	// preserving aspect ratio; 1.0 fills the addressable width for
	// frames wider than tall relative to the page.
	ScaleFactor float64
}

// Document accumulates one page per appended frame. It is not safe for
// concurrent use; pages arrive strictly in order.
type Document struct {
	buf   []byte
	pages int
	imp   *pdfcpu.Import
	conf  *model.Configuration
}

// New creates an empty document with the given layout options.
func New(opts Options) (*Document, error) {
	desc := fmt.Sprintf("form:%s, pos:%s, scale:%.2f rel", opts.PageFormat, opts.Position, opts.ScaleFactor)
	imp, err := api.Import(desc, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("parsing import description %q: %w", desc, err)
	}
	return &Document{imp: imp, conf: model.NewDefaultConfiguration()}, nil
}

// AppendPage places one encoded image on a fresh page. The first call
// creates the document; every later call appends a new page, which is the
// page break between consecutive pages.
func (d *Document) AppendPage(img []byte) error {
	var rs io.ReadSeeker
	if d.pages > 0 {
		rs = bytes.NewReader(d.buf)
	}

	var out bytes.Buffer
	if err := api.ImportImages(rs, &out, []io.Reader{bytes.NewReader(img)}, d.imp, d.conf); err != nil {
		return fmt.Errorf("importing page %d: %w", d.pages+1, err)
	}

	d.buf = out.Bytes()
	d.pages++
	return nil
}

// PageCount reports how many pages have been appended.
func (d *Document) PageCount() int {
	return d.pages
}

// Bytes returns the serialized PDF. The document must contain at least one
// page; an empty output file is never produced.
func (d *Document) Bytes() ([]byte, error) {
	if d.pages == 0 {
		return nil, ErrEmptyDocument
	}
	return d.buf, nil
}
