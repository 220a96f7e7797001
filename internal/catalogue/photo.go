package catalogue

import "regexp"

// driveShareLink matches Google Drive "share view" links such as
// https://drive.google.com/file/d/<ID>/view?usp=sharing.
var driveShareLink = regexp.MustCompile(`^https?://drive\.google\.com/file/d/([A-Za-z0-9_-]+)(?:[/?#]|$)`)

const driveDirectURL = "https://drive.google.com/uc?export=view&id="

// DirectPhotoURL rewrites a Drive share link into the direct-content URL an
// image tag can load. Any other URL is returned unchanged.
func DirectPhotoURL(url string) string {
	m := driveShareLink.FindStringSubmatch(url)
	if m == nil {
		return url
	}
	return driveDirectURL + m[1]
}
