package templates

import "strings"

// WelcomeData builds the data map carried by a welcome EmailJob.
func WelcomeData(appName, name, username, collegeName, loginURL, supportURL string) map[string]any {
	return map[string]any{
		"AppName":     appName,
		"Name":        name,
		"Username":    username,
		"CollegeName": collegeName,
		"LoginURL":    loginURL,
		"SupportURL":  supportURL,
	}
}

// JoinURL appends path to base with exactly one slash between them.
func JoinURL(base, path string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
