package camera

import (
	"image"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// decoder tries the retail 1-D formats first, then Code 128 and QR.
type decoder struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

func newDecoder() *decoder {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &decoder{
		readers: []gozxing.Reader{
			oned.NewMultiFormatUPCEANReader(hints),
			oned.NewCode128Reader(),
			qrcode.NewQRCodeReader(),
		},
		hints: hints,
	}
}

func (d *decoder) decode(img image.Image) (string, bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false
	}

	for _, reader := range d.readers {
		result, err := reader.Decode(bmp, d.hints)
		if err != nil {
			reader.Reset()
			continue
		}
		if text := strings.TrimSpace(result.GetText()); text != "" {
			return text, true
		}
	}
	return "", false
}

// Decode returns the first barcode found in img.
func Decode(img image.Image) (string, bool) {
	return newDecoder().decode(img)
}
