package util

import (
	"path/filepath"
	"strings"

	"github.com/SeakMengs/AutoQR/internal/constant"
)

func HasPdfExtension(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".pdf")
}

// DefaultOutputPath derives "<name>_con_qr.pdf" next to the input file.
func DefaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	return strings.TrimSuffix(inPath, ext) + constant.OUTPUT_FILE_SUFFIX
}
