package providers

const TesseractName = "tesseract"

// TesseractConfig configures the local Tesseract OCR engine.
type TesseractConfig struct {
	// Languages are Tesseract language codes, default eng+hin.
	Languages []string
}

func (c TesseractConfig) languages() []string {
	if len(c.Languages) == 0 {
		return []string{"eng", "hin"}
	}
	return c.Languages
}
