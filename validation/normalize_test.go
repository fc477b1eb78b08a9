package validation

import (
	"testing"

	"github.com/blueprintcu/modeler-backend/models"
)

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "2024-03-15T10:30:00Z", "2024-03-15T10:30:00Z"},
		{"nanosecond precision", "2024-03-15T10:30:00.123456789Z", "2024-03-15T10:30:00Z"},
		{"offset converted to UTC", "2024-03-15T10:30:00+02:00", "2024-03-15T08:30:00Z"},
		{"space-separated", "2024-03-15 10:30:00", "2024-03-15T10:30:00Z"},
		{"date only", "2024-03-15", "2024-03-15T00:00:00Z"},
		{"unparseable passes through", "yesterday", "yesterday"},
		{"empty passes through", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeTimestamp(tc.input)
			if got != tc.want {
				t.Errorf("NormalizeTimestamp(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if again := NormalizeTimestamp(got); again != got {
				t.Errorf("not idempotent: second pass turned %q into %q", got, again)
			}
		})
	}
}

func TestNormalizeDateFieldsIdempotent(t *testing.T) {
	svc := NewService()

	object := models.CustomObject{
		ID:        "obj-1",
		Name:      "member",
		CreatedAt: "2024-03-15 10:30:00",
		UpdatedAt: "2024-03-15T10:30:00+02:00",
		Fields: []models.Field{
			{ID: "f1", Name: "status", CreatedAt: "2024-01-01", UpdatedAt: "2024-03-15T10:30:00.5Z"},
		},
		Associations: []models.Association{
			{ID: "a1", CreatedAt: "2024-02-01"},
		},
	}

	once := svc.NormalizeDateFields(object)
	if once.CreatedAt != "2024-03-15T10:30:00Z" {
		t.Errorf("object CreatedAt = %q", once.CreatedAt)
	}
	if once.UpdatedAt != "2024-03-15T08:30:00Z" {
		t.Errorf("object UpdatedAt = %q", once.UpdatedAt)
	}
	if once.Fields[0].CreatedAt != "2024-01-01T00:00:00Z" {
		t.Errorf("field CreatedAt = %q", once.Fields[0].CreatedAt)
	}
	if once.Associations[0].CreatedAt != "2024-02-01T00:00:00Z" {
		t.Errorf("association CreatedAt = %q", once.Associations[0].CreatedAt)
	}

	twice := svc.NormalizeDateFields(once)
	if twice.CreatedAt != once.CreatedAt || twice.UpdatedAt != once.UpdatedAt {
		t.Error("normalizing an already-normalized object changed its timestamps")
	}
	if twice.Fields[0].CreatedAt != once.Fields[0].CreatedAt || twice.Fields[0].UpdatedAt != once.Fields[0].UpdatedAt {
		t.Error("normalizing an already-normalized field changed its timestamps")
	}
}
