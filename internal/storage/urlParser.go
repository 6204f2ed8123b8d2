package storage

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var versionSegment = regexp.MustCompile(`^v\d+$`)

// objectKeyFromURL pulls the object key out of a stored file url.
// Keys follow the bucket segment, or the "upload" segment with an optional v123 version in front.
func objectKeyFromURL(fileURL, bucket string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrObjectKey, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	if bucket != "" {
		for i, p := range parts {
			if p == bucket && i+1 < len(parts) {
				return strings.Join(parts[i+1:], "/"), nil
			}
		}
	}

	for i, p := range parts {
		if p != "upload" {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 0 && versionSegment.MatchString(rest[0]) {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			break
		}
		return strings.Join(rest, "/"), nil
	}
	return "", fmt.Errorf("%w: %s", ErrObjectKey, fileURL)
}

func objectKey(folder, fileName string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return fileName
	}
	return folder + "/" + fileName
}

func publicURL(base, bucket, key string) string {
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.TrimSuffix(base, "/") + "/" + bucket + "/" + strings.Join(segs, "/")
}
