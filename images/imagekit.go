package images

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	endpointPath = "/dmnjbbzfp"
	Endpoint     = "https://ik.imagekit.io" + endpointPath
)

// DefaultWidths are the srcset breakpoints used when none are given.
var DefaultWidths = []int{320, 480, 768, 1024, 1280}

var (
	legacyHost      = regexp.MustCompile(`(?i)^https?://svelte-store\.ianbytes\.com`)
	legacyPath      = regexp.MustCompile(`(?i)^/product-images/`)
	productImagesRe = regexp.MustCompile(`(?i)^/?product-images/?`)
)

type Options struct {
	W      int
	Q      int
	DPR    float64
	Format string
}

// NormalizePath turns an image reference into a path relative to Endpoint.
// It reports false for references it does not recognize.
func NormalizePath(src string) (string, bool) {
	if src == "" {
		return "", false
	}

	var file string
	switch {
	case strings.HasPrefix(src, Endpoint):
		u, err := url.Parse(src)
		if err != nil {
			return "", false
		}
		file = strings.TrimPrefix(u.Path, endpointPath)
	case legacyHost.MatchString(src):
		u, err := url.Parse(src)
		if err != nil {
			return "", false
		}
		file = productImagesRe.ReplaceAllString(u.Path, "")
	case legacyPath.MatchString(src):
		file = productImagesRe.ReplaceAllString(src, "")
	case !strings.Contains(src, "/"):
		file = src
	default:
		return "", false
	}

	file = strings.TrimLeft(file, "/")
	return file, file != ""
}

// Transform renders the tr: parameter list.
func Transform(opts Options) string {
	format := opts.Format
	if format == "" {
		format = "auto"
	}
	quality := opts.Q
	if quality == 0 {
		quality = 75
	}
	parts := []string{"f-" + format, "q-" + strconv.Itoa(quality)}
	if opts.DPR > 0 {
		parts = append(parts, "dpr-"+strconv.FormatFloat(opts.DPR, 'f', -1, 64))
	}
	if opts.W > 0 {
		parts = append(parts, "w-"+strconv.Itoa(opts.W))
	}
	return strings.Join(parts, ",")
}

// URL builds the CDN URL for src. Unrecognized references are returned as is.
func URL(src string, opts Options) string {
	file, ok := NormalizePath(src)
	if !ok {
		return src
	}
	return fmt.Sprintf("%s/tr:%s/%s", Endpoint, Transform(opts), file)
}

// SrcSet builds a responsive srcset for src, or "" when src is unrecognized.
func SrcSet(src string, widths ...int) string {
	file, ok := NormalizePath(src)
	if !ok {
		return ""
	}
	if len(widths) == 0 {
		widths = DefaultWidths
	}
	entries := make([]string, 0, len(widths))
	for _, w := range widths {
		entries = append(entries, fmt.Sprintf("%s/tr:%s/%s %dw", Endpoint, Transform(Options{W: w}), file, w))
	}
	return strings.Join(entries, ", ")
}
