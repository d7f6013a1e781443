package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/sadopc/cinner/internal/timesheet"
)

// dataFile is the layout of data.json files and sync payloads.
type dataFile struct {
	Projects []timesheet.ProjectRecord `json:"projects"`
}

// ToJSON writes projects in the data.json layout. Open sessions are
// written with "end": null.
func ToJSON(projects []timesheet.ProjectRecord, path string) error {
	doc := dataFile{Projects: slices.Clone(projects)}
	if doc.Projects == nil {
		doc.Projects = []timesheet.ProjectRecord{}
	}
	for i := range doc.Projects {
		if doc.Projects[i].Sessions == nil {
			doc.Projects[i].Sessions = []timesheet.Record{}
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FromJSON reads a data.json file. A missing file is an empty data set.
func FromJSON(path string) ([]timesheet.ProjectRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []timesheet.ProjectRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}

	var doc dataFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Projects == nil {
		doc.Projects = []timesheet.ProjectRecord{}
	}
	return doc.Projects, nil
}
