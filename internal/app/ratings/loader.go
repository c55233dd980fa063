package ratings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
	"github.com/jdiamond4/CourseSearch/internal/pkg/apperrors"
	"github.com/jdiamond4/CourseSearch/internal/pkg/logger"
)

// LoadSnapshot reads a rating snapshot from path. The format follows
// the file extension: .json parses as a record array, anything else as
// CSV with a header row. A missing file is not an error; it yields an
// empty record set, which downstream turns into all-"N/A" overlays.
func LoadSnapshot(path string) ([]models.RatingRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("Ratings snapshot not found, continuing without ratings")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open ratings snapshot: %w", err)
	}
	defer file.Close()

	var records []models.RatingRecord
	if strings.EqualFold(filepath.Ext(path), ".json") {
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(&records); err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrRatingsSnapshotInvalid,
				fmt.Sprintf("invalid JSON ratings snapshot %s: %v", path, err))
		}
	} else {
		if err := gocsv.UnmarshalFile(file, &records); err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrRatingsSnapshotInvalid,
				fmt.Sprintf("invalid CSV ratings snapshot %s: %v", path, err))
		}
	}

	logger.Info().Str("path", path).Int("records", len(records)).Msg("Loaded ratings snapshot")
	return records, nil
}

// LoadIndex is the usual entry point: load a snapshot and index it in
// one step.
func LoadIndex(path string) (*Index, error) {
	records, err := LoadSnapshot(path)
	if err != nil {
		return nil, err
	}
	return BuildIndex(records), nil
}
