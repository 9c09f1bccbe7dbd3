package download

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Dataset variants. The 5-core files only contain reviews from users and
// items with at least five reviews each, which keeps test datasets small.
const (
	VariantFiveCore = "5-core"
	VariantFull     = "full"
)

const datasetBaseURL = "http://deepyeti.ucsd.edu/jianmo/amazon"

// categoryFiles maps a category name to its remote file names under the
// 5-core and full directories.
var categoryFiles = map[string]struct{ fiveCore, full string }{
	"All_Beauty":             {"All_Beauty_5.json.gz", "All_Beauty.json.gz"},
	"Amazon_Fashion":         {"Amazon_Fashion_5.json.gz", "AMAZON_FASHION.json.gz"},
	"Appliances":             {"Appliances_5.json.gz", "Appliances.json.gz"},
	"Automotive":             {"Automotive_5.json.gz", "Automotive.json.gz"},
	"Digital_Music":          {"Digital_Music_5.json.gz", "Digital_Music.json.gz"},
	"Electronics":            {"Electronics_5.json.gz", "Electronics.json.gz"},
	"Gift_Cards":             {"Gift_Cards_5.json.gz", "Gift_Cards.json.gz"},
	"Software":               {"Software_5.json.gz", "Software.json.gz"},
	"Video_Games":            {"Video_Games_5.json.gz", "Video_Games.json.gz"},
	"Luxury_Beauty":          {"Luxury_Beauty_5.json.gz", "Luxury_Beauty.json.gz"},
	"Magazine_Subscriptions": {"Magazine_Subscriptions_5.json.gz", "Magazine_Subscriptions.json.gz"},
}

// Downloader fetches and decompresses Amazon review dataset files into a
// local data directory. Requests are paced so repeated CLI invocations stay
// polite to the dataset mirror.
type Downloader struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	dataDir string
}

// NewDownloader creates a downloader writing into dataDir.
func NewDownloader(dataDir string, logger *zap.Logger) *Downloader {
	return &Downloader{
		client:  &http.Client{Timeout: 30 * time.Minute},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		logger:  logger,
		dataDir: dataDir,
	}
}

// Categories returns the known dataset categories, sorted.
func Categories() []string {
	names := make([]string, 0, len(categoryFiles))
	for name := range categoryFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// URL returns the remote URL for a category and variant.
func URL(category, variant string) (string, error) {
	files, ok := categoryFiles[category]
	if !ok {
		return "", fmt.Errorf("unknown dataset category: %s", category)
	}

	switch variant {
	case VariantFiveCore:
		return fmt.Sprintf("%s/categoryFilesSmall/%s", datasetBaseURL, files.fiveCore), nil
	case VariantFull:
		return fmt.Sprintf("%s/categoryFiles/%s", datasetBaseURL, files.full), nil
	default:
		return "", fmt.Errorf("unknown dataset variant: %s (want %s or %s)", variant, VariantFiveCore, VariantFull)
	}
}

// Download fetches a dataset file, decompresses it and returns the path of
// the resulting .json file. If the decompressed file already exists it is
// reused without a network round trip.
func (d *Downloader) Download(ctx context.Context, category, variant string) (string, error) {
	url, err := URL(category, variant)
	if err != nil {
		return "", err
	}

	gzName := filepath.Base(url)
	jsonName := strings.TrimSuffix(gzName, ".gz")
	gzPath := filepath.Join(d.dataDir, gzName)
	jsonPath := filepath.Join(d.dataDir, jsonName)

	if _, err := os.Stat(jsonPath); err == nil {
		d.logger.Sugar().Infow("Dataset already present, skipping download", "path", jsonPath)
		return jsonPath, nil
	}

	if err := os.MkdirAll(d.dataDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create data directory")
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "download cancelled")
	}

	d.logger.Sugar().Infow("Downloading dataset", "category", category, "variant", variant, "url", url)

	if err := d.fetch(ctx, url, gzPath); err != nil {
		return "", err
	}

	if err := gunzip(gzPath, jsonPath); err != nil {
		return "", err
	}

	// The compressed copy is only an intermediate artifact.
	if err := os.Remove(gzPath); err != nil {
		d.logger.Sugar().Warnw("Failed to remove compressed file", "path", gzPath, "error", err)
	}

	d.logger.Sugar().Infow("Dataset ready", "path", jsonPath)
	return jsonPath, nil
}

func (d *Downloader) fetch(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build download request")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to download %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %s downloading %s", resp.Status, url)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return errors.Wrap(err, "failed to create download file")
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(destPath)
		return errors.Wrapf(err, "failed to write %s", destPath)
	}

	return out.Close()
}

func gunzip(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return errors.Wrap(err, "failed to open compressed file")
	}
	defer src.Close()

	gz, err := gzip.NewReader(src)
	if err != nil {
		return errors.Wrapf(err, "failed to read gzip header of %s", srcPath)
	}
	defer gz.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return errors.Wrap(err, "failed to create decompressed file")
	}

	if _, err := io.Copy(out, gz); err != nil {
		_ = out.Close()
		_ = os.Remove(destPath)
		return errors.Wrapf(err, "failed to decompress %s", srcPath)
	}

	return out.Close()
}
