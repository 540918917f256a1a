package util

import "github.com/SeakMengs/AutoQR/internal/constant"

func GetAppName() string {
	return "AutoQR"
}

// OutputFileName is the download name of the stamped document of a session.
func OutputFileName(token string) string {
	return token + constant.OUTPUT_FILE_SUFFIX
}
