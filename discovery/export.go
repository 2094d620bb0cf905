package discovery

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type exportMetadata struct {
	ExportTimestamp  string `json:"export_timestamp"`
	TotalDiscoveries int    `json:"total_discoveries"`
	NextID           int    `json:"next_id"`
}

type exportDiscovery struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Significance float64      `json:"significance"`
	Objects      []string     `json:"objects_involved"`
	Properties   []string     `json:"properties_involved"`
	Tick         int          `json:"tick"`
	Discoverer   string       `json:"discoverer_id"`
	Reproducible bool         `json:"reproducible"`
	Applications []string `json:"applications"`
	Sequence     []string `json:"interaction_sequence"`
}

type exportFile struct {
	Metadata    exportMetadata             `json:"metadata"`
	Discoveries map[string]exportDiscovery `json:"discoveries"`
}

// ExportJSON writes the full discovery record to w. A failed write leaves
// the detector untouched.
func (d *Detector) ExportJSON(w io.Writer) error {
	out := exportFile{
		Metadata: exportMetadata{
			ExportTimestamp:  time.Now().UTC().Format(time.RFC3339),
			TotalDiscoveries: len(d.ordered),
			NextID:           d.nextID,
		},
		Discoveries: make(map[string]exportDiscovery, len(d.ordered)),
	}
	for _, disc := range d.ordered {
		ed := exportDiscovery{
			ID:           disc.ID,
			Type:         disc.Type.String(),
			Name:         disc.Name,
			Description:  disc.Description,
			Significance: disc.Significance,
			Objects:      disc.Objects,
			Properties:   disc.Properties,
			Tick:         disc.Tick,
			Discoverer:   disc.Discoverer,
			Reproducible: disc.Reproducible,
			Applications: disc.Applications,
			Sequence:     disc.Sequence,
		}
		out.Discoveries[disc.ID] = ed
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("export discoveries: %w", err)
	}
	return nil
}
