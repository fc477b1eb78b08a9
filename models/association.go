package models

// AssociationType represents the cardinality of a relation between two objects
type AssociationType string

const (
	AssociationOneToOne   AssociationType = "one_to_one"
	AssociationOneToMany  AssociationType = "one_to_many"
	AssociationManyToMany AssociationType = "many_to_many"
)

// IsValid reports whether the association type is a known member of the enum
func (t AssociationType) IsValid() bool {
	switch t {
	case AssociationOneToOne, AssociationOneToMany, AssociationManyToMany:
		return true
	}
	return false
}

// Association represents a typed directed relation between two custom objects
// in the same project
type Association struct {
	ID           string          `json:"id"`
	FromObjectID string          `json:"fromObjectId"`
	ToObjectID   string          `json:"toObjectId"`
	Type         AssociationType `json:"type"`
	Label        string          `json:"label,omitempty"`
	CreatedAt    string          `json:"createdAt"`
}

// References reports whether the association touches the given object on
// either side
func (a Association) References(objectID string) bool {
	return a.FromObjectID == objectID || a.ToObjectID == objectID
}
