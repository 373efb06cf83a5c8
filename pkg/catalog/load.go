package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"

	"github.com/go-playground/validator"
)

var (
	// ErrCollectionMissing marks an absent optional collection file. Loading
	// continues with an empty collection.
	ErrCollectionMissing = errors.New("optional collection missing")
	// ErrCollectionUnreadable marks a collection file that could not be read
	// or parsed. Loading continues with an empty collection.
	ErrCollectionUnreadable = errors.New("collection unreadable")
	// ErrMalformedRecord marks a record that fails validation. The record is
	// skipped and counted, never fatal.
	ErrMalformedRecord = errors.New("malformed record")
)

var validate = validator.New()

// LoadReport summarizes a catalog load: per-collection record counts, the
// collections that were absent or unusable, and how many malformed records
// were skipped.
type LoadReport struct {
	Counts                map[string]int
	MissingCollections    []string
	UnreadableCollections []string
	Malformed             int
}

// Load reads the entity collections from entitiesDir. Collection files are
// optional: one that is missing, unreadable or unparsable is logged, reported
// and treated as empty, so a partial catalog is still built from the
// remaining types. Records failing validation are skipped and counted.
func Load(entitiesDir string) (*Catalog, *LoadReport) {
	report := &LoadReport{Counts: make(map[string]int, len(Types))}
	c := &Catalog{records: make(map[string][]Record, len(Types))}

	empty := func(collection string, cause error) {
		report.Counts[collection] = 0
		c.records[collection] = []Record{}
		if collection == "locations" {
			c.locations = []LocationRecord{}
		}
		logger.Warn("[Catalog] Collection treated as empty", "collection", collection, "error", cause)
	}

	for _, t := range Types {
		path := filepath.Join(entitiesDir, t.Collection+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				report.MissingCollections = append(report.MissingCollections, t.Collection)
				empty(t.Collection, fmt.Errorf("%s: %w", path, ErrCollectionMissing))
			} else {
				report.UnreadableCollections = append(report.UnreadableCollections, t.Collection)
				empty(t.Collection, fmt.Errorf("%s: %w: %v", path, ErrCollectionUnreadable, err))
			}
			continue
		}

		if t.Collection == "locations" {
			var locations []LocationRecord
			if err := json.Unmarshal(data, &locations); err != nil {
				report.UnreadableCollections = append(report.UnreadableCollections, t.Collection)
				empty(t.Collection, fmt.Errorf("%s: %w: %v", path, ErrCollectionUnreadable, err))
				continue
			}

			kept := make([]LocationRecord, 0, len(locations))
			records := make([]Record, 0, len(locations))
			for _, location := range locations {
				if err := validateRecord(location.Record); err != nil {
					report.Malformed++
					logger.Warn("[Catalog] Skipping record", "collection", t.Collection, "error", err)
					continue
				}
				kept = append(kept, location)
				records = append(records, location.Record)
			}
			c.locations = kept
			c.records[t.Collection] = records
		} else {
			var records []Record
			if err := json.Unmarshal(data, &records); err != nil {
				report.UnreadableCollections = append(report.UnreadableCollections, t.Collection)
				empty(t.Collection, fmt.Errorf("%s: %w: %v", path, ErrCollectionUnreadable, err))
				continue
			}

			kept := make([]Record, 0, len(records))
			for _, record := range records {
				if err := validateRecord(record); err != nil {
					report.Malformed++
					logger.Warn("[Catalog] Skipping record", "collection", t.Collection, "error", err)
					continue
				}
				kept = append(kept, record)
			}
			c.records[t.Collection] = kept
		}
		report.Counts[t.Collection] = len(c.records[t.Collection])
	}

	logger.Info("[Catalog] Collections loaded",
		"counts", report.Counts,
		"missing", len(report.MissingCollections),
		"unreadable", len(report.UnreadableCollections),
		"malformed", report.Malformed)
	return c, report
}

// Save writes every collection to entitiesDir as pretty-printed JSON. Empty
// collections are written as empty arrays so consumers always find the file.
func (c *Catalog) Save(entitiesDir string) error {
	for _, t := range Types {
		path := filepath.Join(entitiesDir, t.Collection+".json")

		var payload any
		var count int
		if t.Collection == "locations" {
			locations := c.locations
			if locations == nil {
				locations = []LocationRecord{}
			}
			payload = locations
			count = len(locations)
		} else {
			records := c.records[t.Collection]
			if records == nil {
				records = []Record{}
			}
			payload = records
			count = len(records)
		}

		if err := util.WriteJSON(path, payload); err != nil {
			return fmt.Errorf("failed to save collection %s: %w", t.Collection, err)
		}
		logger.Info("[Catalog] Saved collection", "collection", t.Collection, "records", count, "path", path)
	}
	return nil
}

func validateRecord(r Record) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return nil
}
