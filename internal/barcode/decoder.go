// Package barcode wraps the gozxing decoder. The pixel-level decoding
// algorithm is fully delegated to the library; this package only adapts
// images in and results out.
package barcode

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/dkwarude-cell/foodscan/internal/product"
)

// Result is one decoded barcode.
type Result struct {
	Data       string `json:"data"`
	Format     string `json:"format"`
	ChecksumOK bool   `json:"checksum_ok"`
}

// ErrNoBarcode means no reader found a barcode in the image.
var ErrNoBarcode = errors.New("barcode: no barcode detected")

// Decoder decodes product barcodes from still images. EAN/UPC families are
// tried first, then QR as a fallback.
type Decoder struct {
	upcean gozxing.Reader
	qr     gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}
}

func NewDecoder() *Decoder {
	return &Decoder{
		upcean: oned.NewMultiFormatUPCEANReader(nil),
		qr:     qrcode.NewQRCodeReader(),
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Decode returns the barcodes found in img, possibly empty on ErrNoBarcode.
func (d *Decoder) Decode(img image.Image) ([]Result, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("barcode: bitmap: %w", err)
	}
	for _, reader := range []gozxing.Reader{d.upcean, d.qr} {
		res, err := reader.Decode(bmp, d.hints)
		if err != nil {
			continue
		}
		return []Result{toResult(res)}, nil
	}
	return nil, ErrNoBarcode
}

// DecodeFile decodes the first barcode found in an image file.
func (d *Decoder) DecodeFile(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("barcode: open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("barcode: decode image: %w", err)
	}
	return d.Decode(img)
}

func toResult(res *gozxing.Result) Result {
	data := res.GetText()
	format := res.GetBarcodeFormat().String()
	checksumOK := true
	if strings.HasPrefix(format, "EAN") || strings.HasPrefix(format, "UPC") {
		checksumOK = product.ValidateEANChecksum(data)
	}
	return Result{Data: data, Format: format, ChecksumOK: checksumOK}
}
