package models

import (
	"encoding/json"
	"testing"
)

func TestRuleConditionPayload(t *testing.T) {
	property := &PropertyCondition{Object: "member", Field: "status", Operator: "equals", Value: "active"}
	activity := &ActivityCondition{Event: "login", MinCount: 3, WindowDays: 30}
	association := &AssociationCondition{RelatedObject: "account", MinCount: 2}
	score := &ScoreCondition{ScoreField: "engagement", Operator: ">", Threshold: 80}

	tests := []struct {
		name string
		cond RuleCondition
		want any
	}{
		{"property", RuleCondition{RuleType: RuleTypeProperty, Property: property}, property},
		{"activity", RuleCondition{RuleType: RuleTypeActivity, Activity: activity}, activity},
		{"association", RuleCondition{RuleType: RuleTypeAssociation, Association: association}, association},
		{"score", RuleCondition{RuleType: RuleTypeScore, Score: score}, score},
		{"mismatched payload", RuleCondition{RuleType: RuleTypeProperty, Activity: activity}, nil},
		{"unknown discriminator", RuleCondition{RuleType: "weather", Property: property}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cond.Payload(); got != tc.want {
				t.Errorf("Payload() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRuleConditionJSONShape(t *testing.T) {
	raw := `{
		"ruleType": "score",
		"score": {"scoreField": "engagement", "operator": ">", "threshold": 80, "hysteresisBand": 5}
	}`

	var cond RuleCondition
	if err := json.Unmarshal([]byte(raw), &cond); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cond.RuleType != RuleTypeScore || cond.Score == nil {
		t.Fatalf("decoded condition = %+v", cond)
	}
	if cond.Score.HysteresisBand != 5 {
		t.Errorf("hysteresisBand = %v, want 5", cond.Score.HysteresisBand)
	}

	// absent variants stay nil so the wire shape carries only the active one
	out, err := json.Marshal(cond)
	if err != nil {
		t.Fatal(err)
	}
	var shape map[string]any
	if err := json.Unmarshal(out, &shape); err != nil {
		t.Fatal(err)
	}
	if _, ok := shape["property"]; ok {
		t.Error("inactive variants must be omitted from the serialized condition")
	}
}

func TestProjectHelpers(t *testing.T) {
	project := NewProject("proj-1", "Acme CU", "2024-01-01T00:00:00Z")
	if project.Status != ProjectStatusDraft {
		t.Errorf("status = %s, want draft", project.Status)
	}
	if project.DataModel.Objects == nil || project.Tags.Library == nil || project.Journeys == nil {
		t.Error("project shell should carry empty, non-nil collections")
	}

	project.DataModel.Objects = []CustomObject{{ID: "obj-1", Name: "member"}}
	project.Tags.Library = []Tag{{ID: "tag-1", Name: "Active_Member"}}
	project.Tags.Custom = []Tag{{ID: "tag-2", Name: "Local_Hero"}}

	if project.FindObject("obj-1") == nil {
		t.Error("FindObject should locate a stored object")
	}
	if project.FindObject("obj-ghost") != nil {
		t.Error("FindObject should return nil for unknown identifiers")
	}
	if got := len(project.AllTags()); got != 2 {
		t.Errorf("AllTags returned %d tags, want 2", got)
	}
}
