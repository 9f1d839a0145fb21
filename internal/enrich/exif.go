package enrich

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/userscan/internal/catalog"
	"github.com/nao1215/userscan/internal/model"
)

// defaultMaxImageSize limits avatar downloads to 5MB. Avatars are small;
// anything bigger is not worth the bandwidth for a metadata pass.
const defaultMaxImageSize = 5 * 1024 * 1024

// interestingTags are the EXIF tags worth surfacing: location, device
// identity, software fingerprints, and timestamps.
var interestingTags = map[string]bool{
	"GPSLatitude":        true,
	"GPSLongitude":       true,
	"GPSLatitudeRef":     true,
	"GPSLongitudeRef":    true,
	"Make":               true,
	"Model":              true,
	"SerialNumber":       true,
	"CameraSerialNumber": true,
	"BodySerialNumber":   true,
	"LensSerialNumber":   true,
	"Software":           true,
	"ProcessingSoftware": true,
	"Artist":             true,
	"Author":             true,
	"Copyright":          true,
	"XPAuthor":           true,
	"DateTimeOriginal":   true,
	"DateTimeDigitized":  true,
	"DateTime":           true,
	"HostComputer":       true,
}

// AvatarEXIF fetches profile avatars and extracts their EXIF metadata.
// It shares the scan's transport, so proxied and Tor runs never leak the
// operator's address through image fetches.
type AvatarEXIF struct {
	httpClient   *http.Client
	maxImageSize int64
	logger       *slog.Logger
}

// AvatarEXIFOption configures an AvatarEXIF pass.
type AvatarEXIFOption func(*AvatarEXIF)

// WithMaxImageSize caps avatar download size.
func WithMaxImageSize(n int64) AvatarEXIFOption {
	return func(a *AvatarEXIF) {
		if n > 0 {
			a.maxImageSize = n
		}
	}
}

// WithLogger sets the logger for per-image debug output.
func WithLogger(logger *slog.Logger) AvatarEXIFOption {
	return func(a *AvatarEXIF) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAvatarEXIF creates the enrichment pass on top of an existing HTTP
// client (the scan's proxied client, normally).
func NewAvatarEXIF(httpClient *http.Client, opts ...AvatarEXIFOption) *AvatarEXIF {
	a := &AvatarEXIF{
		httpClient:   httpClient,
		maxImageSize: defaultMaxImageSize,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enrich walks the report's Found results and attaches EXIF metadata for
// sites that declare an avatar URL. The context bounds the whole pass;
// per-image failures are logged and skipped.
func (a *AvatarEXIF) Enrich(ctx context.Context, report *model.RunReport, cat *catalog.Catalog) {
	for i := range report.Results {
		if ctx.Err() != nil {
			return
		}
		result := &report.Results[i]
		if result.Verdict.Kind != model.VerdictFound {
			continue
		}
		site := cat.ByName(result.Task.SiteName)
		if site == nil {
			continue
		}
		avatarURL := site.AvatarURL(result.Task.Username)
		if avatarURL == "" {
			continue
		}

		tags, err := a.fetchTags(ctx, avatarURL)
		if err != nil {
			a.logger.DebugContext(ctx, "avatar EXIF extraction failed",
				slog.String("site", site.Name),
				slog.String("url", avatarURL),
				slog.Any("error", err))
			continue
		}
		for tag, value := range tags {
			result.Verdict = result.Verdict.WithMetadata("exif."+tag, value)
		}
	}
}

// fetchTags downloads an image and returns its interesting EXIF tags.
func (a *AvatarEXIF) fetchTags(ctx context.Context, imageURL string) (map[string]string, error) {
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort cleanup

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	if resp.ContentLength > a.maxImageSize {
		return nil, nil
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, a.maxImageSize))
	if err != nil {
		return nil, err
	}

	return ExtractTags(imageData), nil
}

// ExtractTags parses EXIF from raw image bytes and returns the
// interesting tags. Images without EXIF yield an empty map.
func ExtractTags(imageData []byte) map[string]string {
	rawExif, err := exif.SearchAndExtractExif(imageData)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	tags := make(map[string]string)
	for _, entry := range entries {
		if interestingTags[entry.TagName] && entry.Formatted != "" {
			tags[entry.TagName] = entry.Formatted
		}
	}
	return tags
}
