package models

// DataType represents the value type a field holds
type DataType string

const (
	DataTypeText          DataType = "text"
	DataTypeMultilineText DataType = "multiline_text"
	DataTypeNumber        DataType = "number"
	DataTypeCurrency      DataType = "currency"
	DataTypeDate          DataType = "date"
	DataTypeDatetime      DataType = "datetime"
	DataTypeBoolean       DataType = "boolean"
	DataTypeEnumeration   DataType = "enumeration"
	DataTypeEmail         DataType = "email"
	DataTypePhone         DataType = "phone"
	DataTypeURL           DataType = "url"
)

// IsValid reports whether the data type is a known member of the enum
func (t DataType) IsValid() bool {
	switch t {
	case DataTypeText, DataTypeMultilineText, DataTypeNumber, DataTypeCurrency,
		DataTypeDate, DataTypeDatetime, DataTypeBoolean, DataTypeEnumeration,
		DataTypeEmail, DataTypePhone, DataTypeURL:
		return true
	}
	return false
}

// FieldType represents how a field's value is produced
type FieldType string

const (
	FieldTypeStandard   FieldType = "standard"
	FieldTypeCalculated FieldType = "calculated"
	FieldTypeLookup     FieldType = "lookup"
)

// IsValid reports whether the field type is a known member of the enum
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeStandard, FieldTypeCalculated, FieldTypeLookup:
		return true
	}
	return false
}

// CustomObject represents a user-defined entity in the modeled data schema
type CustomObject struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Label        string        `json:"label"`
	Description  string        `json:"description,omitempty"`
	APIName      string        `json:"apiName"`
	Icon         string        `json:"icon,omitempty"`
	Fields       []Field       `json:"fields"`
	Associations []Association `json:"associations,omitempty"`
	IsTemplate   bool          `json:"isTemplate,omitempty"`
	TemplateID   string        `json:"templateId,omitempty"`
	CreatedAt    string        `json:"createdAt"`
	UpdatedAt    string        `json:"updatedAt"`
}

// FindField returns the field with the given ID, or nil
func (o *CustomObject) FindField(fieldID string) *Field {
	for i := range o.Fields {
		if o.Fields[i].ID == fieldID {
			return &o.Fields[i]
		}
	}
	return nil
}

// Field represents a typed attribute of a custom object
type Field struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Label        string             `json:"label"`
	Description  string             `json:"description,omitempty"`
	DataType     DataType           `json:"dataType"`
	FieldType    FieldType          `json:"fieldType"`
	Required     bool               `json:"required"`
	Unique       bool               `json:"unique"`
	Indexed      bool               `json:"indexed"`
	DefaultValue any                `json:"defaultValue,omitempty"`
	Options      []FieldOption      `json:"options,omitempty"`
	Calculation  *CalculationConfig `json:"calculation,omitempty"`
	CreatedAt    string             `json:"createdAt"`
	UpdatedAt    string             `json:"updatedAt"`
}

// FieldOption represents a selectable option for enumeration fields
type FieldOption struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// CalculationConfig describes how a calculated or lookup field derives its value
type CalculationConfig struct {
	CalculationType string `json:"calculationType"`
	SourceObjectID  string `json:"sourceObjectId,omitempty"`
	SourceFieldID   string `json:"sourceFieldId,omitempty"`
	Formula         string `json:"formula,omitempty"`
}
