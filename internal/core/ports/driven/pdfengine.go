package driven

// PDFEngine performs structural PDF operations. Implementations never
// re-encode embedded images.
type PDFEngine interface {
	// Merge concatenates the pages of every input, in order.
	Merge(inputs [][]byte) ([]byte, error)

	// Optimize re-serialises a PDF using object and cross-reference streams
	// and drops redundant objects.
	Optimize(pdf []byte) ([]byte, error)

	// ImagesToPDF places each JPEG on its own A4 portrait page, scaled to fill it.
	ImagesToPDF(jpegs [][]byte) ([]byte, error)

	// PageCount returns the number of pages, validating the document on the way.
	PageCount(pdf []byte) (int, error)
}
