package validation

import (
	"strings"
	"testing"

	"github.com/blueprintcu/modeler-backend/models"
)

func textField(id, name string) models.Field {
	return models.Field{
		ID:       id,
		Name:     name,
		Label:    "Label",
		DataType: models.DataTypeText,
	}
}

func TestValidateFieldSiblingCollision(t *testing.T) {
	svc := NewService()
	siblings := []models.Field{
		textField("field-1", "balance"),
		textField("field-2", "opened_at"),
	}

	t.Run("new field with colliding name", func(t *testing.T) {
		candidate := textField("field-3", "Balance")
		res := svc.ValidateField(candidate, siblings)
		if res.Valid {
			t.Fatal("expected rejection for case-insensitive sibling collision")
		}
		found := false
		for _, fe := range res.Errors {
			if fe.Field == "name" && strings.Contains(fe.Message, "already exists") {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected already-exists error on name, got %v", res.Errors)
		}
	})

	t.Run("update keeping own name", func(t *testing.T) {
		candidate := textField("field-1", "balance")
		candidate.Label = "Current Balance"
		if res := svc.ValidateField(candidate, siblings); !res.Valid {
			t.Fatalf("updating a field to keep its own name must pass, got %v", res.Errors)
		}
	})
}

func TestValidateFieldEnumerationOptions(t *testing.T) {
	svc := NewService()

	enumeration := func(options []models.FieldOption) models.Field {
		f := textField("field-1", "account_status")
		f.DataType = models.DataTypeEnumeration
		f.Options = options
		return f
	}

	tests := []struct {
		name    string
		options []models.FieldOption
		valid   bool
	}{
		{"no options", []models.FieldOption{}, false},
		{"blank option", []models.FieldOption{{Label: "", Value: ""}}, false},
		{"valid option", []models.FieldOption{{Label: "Active", Value: "active", IsDefault: true}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := svc.ValidateField(enumeration(tc.options), nil)
			if res.Valid != tc.valid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", res.Valid, tc.valid, res.Errors)
			}
			if tc.valid {
				return
			}
			found := false
			for _, fe := range res.Errors {
				if fe.Field == "options" {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected error on field \"options\", got %v", res.Errors)
			}
		})
	}
}

func TestValidateFieldCalculatedRequiresConfig(t *testing.T) {
	svc := NewService()

	candidate := textField("field-1", "total_balance")
	candidate.FieldType = models.FieldTypeCalculated

	res := svc.ValidateField(candidate, nil)
	if res.Valid {
		t.Fatal("calculated field without calculation config should be rejected")
	}

	candidate.Calculation = &models.CalculationConfig{CalculationType: "sum", SourceObjectID: "obj-1", SourceFieldID: "field-9"}
	if res := svc.ValidateField(candidate, nil); !res.Valid {
		t.Fatalf("calculated field with config should pass, got %v", res.Errors)
	}
}

func TestValidateFieldUnknownDataType(t *testing.T) {
	svc := NewService()

	candidate := textField("field-1", "weird")
	candidate.DataType = "geo_point"

	res := svc.ValidateField(candidate, nil)
	if res.Valid {
		t.Fatal("unknown data type should be rejected")
	}
	if res.Errors[0].Field != "dataType" {
		t.Errorf("error field = %q, want dataType", res.Errors[0].Field)
	}
}
