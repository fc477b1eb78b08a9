package models

import "encoding/json"

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusDraft    ProjectStatus = "draft"
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

// IsValid reports whether the status is one of the known lifecycle states
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusActive, ProjectStatusArchived:
		return true
	}
	return false
}

// Project represents a complete consulting engagement: the client profile,
// the modeled data schema and the tag taxonomy for one financial institution
type Project struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Status        ProjectStatus     `json:"status"`
	OwnerID       string            `json:"ownerId,omitempty"`
	ClientProfile map[string]any    `json:"clientProfile"`
	DataModel     DataModel         `json:"dataModel"`
	Tags          TagCollection     `json:"tags"`
	Journeys      []json.RawMessage `json:"journeys"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

// DataModel holds the user-modeled schema for a project. Fields and Mappings
// are reserved top-level collections kept for document-shape compatibility;
// fields live nested inside their owning object
type DataModel struct {
	Objects      []CustomObject    `json:"objects"`
	Fields       []json.RawMessage `json:"fields"`
	Mappings     []json.RawMessage `json:"mappings"`
	Associations []Association     `json:"associations"`
}

// TagCollection groups the tags attached to a project
type TagCollection struct {
	Library []Tag `json:"library"`
	Custom  []Tag `json:"custom"`
}

// NewProject returns a project shell with empty nested collections so the
// persisted document always carries every top-level key
func NewProject(id, name string, now string) *Project {
	return &Project{
		ID:            id,
		Name:          name,
		Status:        ProjectStatusDraft,
		ClientProfile: map[string]any{},
		DataModel: DataModel{
			Objects:      []CustomObject{},
			Fields:       []json.RawMessage{},
			Mappings:     []json.RawMessage{},
			Associations: []Association{},
		},
		Tags: TagCollection{
			Library: []Tag{},
			Custom:  []Tag{},
		},
		Journeys:  []json.RawMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AllTags returns library and custom tags as one list
func (p *Project) AllTags() []Tag {
	tags := make([]Tag, 0, len(p.Tags.Library)+len(p.Tags.Custom))
	tags = append(tags, p.Tags.Library...)
	tags = append(tags, p.Tags.Custom...)
	return tags
}

// FindObject returns the custom object with the given ID, or nil
func (p *Project) FindObject(objectID string) *CustomObject {
	for i := range p.DataModel.Objects {
		if p.DataModel.Objects[i].ID == objectID {
			return &p.DataModel.Objects[i]
		}
	}
	return nil
}
