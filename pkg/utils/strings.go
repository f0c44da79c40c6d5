package utils

import "regexp"

func RemoveEmptyStrings(slice []string) []string {
	var result []string

	for _, s := range slice {
		if s != "" {
			result = append(result, s)
		}
	}

	return result
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// SanitizeFilename replaces every run of characters outside [a-zA-Z0-9_.-] with "_".
func SanitizeFilename(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}
