package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/blueprintcu/modeler-backend/errs"
	"github.com/blueprintcu/modeler-backend/models"
	"github.com/blueprintcu/modeler-backend/storage"
	"github.com/blueprintcu/modeler-backend/validation"
)

// spyAdapter counts mutating calls so tests can assert that rejected payloads
// never reach the storage layer
type spyAdapter struct {
	storage.Adapter
	creates int
	updates int
	objects int
	fields  int
}

func (s *spyAdapter) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	s.creates++
	return s.Adapter.CreateProject(ctx, project)
}

func (s *spyAdapter) UpdateProject(ctx context.Context, id string, updates map[string]any) (*models.Project, error) {
	s.updates++
	return s.Adapter.UpdateProject(ctx, id, updates)
}

func (s *spyAdapter) AddCustomObject(ctx context.Context, projectID string, object models.CustomObject) (*models.CustomObject, error) {
	s.objects++
	return s.Adapter.AddCustomObject(ctx, projectID, object)
}

func (s *spyAdapter) AddField(ctx context.Context, projectID, objectID string, field models.Field) (*models.Field, error) {
	s.fields++
	return s.Adapter.AddField(ctx, projectID, objectID, field)
}

func newTestRepo(t *testing.T) (*ProjectRepository, *spyAdapter) {
	t.Helper()
	spy := &spyAdapter{Adapter: storage.NewLocalAdapter(t.TempDir())}
	return NewProjectRepository(spy, validation.NewService()), spy
}

func memberObject(name string) models.CustomObject {
	return models.CustomObject{
		Name:    name,
		Label:   "Member",
		APIName: "member_api",
		Fields: []models.Field{
			{Name: "status", Label: "Status", DataType: models.DataTypeText},
		},
	}
}

func TestCreateProjectShell(t *testing.T) {
	repo, _ := newTestRepo(t)

	created, err := repo.CreateProject(context.Background(), &models.Project{Name: "Acme CU"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if created.ID == "" {
		t.Error("create must assign an identifier")
	}
	if created.Status != models.ProjectStatusDraft {
		t.Errorf("status = %s, want draft", created.Status)
	}
	if len(created.DataModel.Objects) != 0 || created.DataModel.Objects == nil {
		t.Error("new project should carry an empty, non-nil object list")
	}
	if created.Tags.Library == nil || created.Tags.Custom == nil {
		t.Error("new project should carry empty tag collections")
	}
	if created.CreatedAt == "" || created.CreatedAt != created.UpdatedAt {
		t.Errorf("fresh timestamps expected, got %q/%q", created.CreatedAt, created.UpdatedAt)
	}
}

func TestCreateProjectRejectsInvalidDataModelBeforeAdapter(t *testing.T) {
	repo, spy := newTestRepo(t)

	_, err := repo.CreateProject(context.Background(), &models.Project{
		Name: "Acme CU",
		DataModel: models.DataModel{
			Objects: []models.CustomObject{memberObject("Bad Name")},
		},
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, errs.ErrValidationFailed) {
		t.Error("ValidationError should match the validation-failed sentinel")
	}
	if spy.creates != 0 {
		t.Errorf("adapter was called %d times, want short-circuit before persistence", spy.creates)
	}
}

func TestCreateProjectRejectsDuplicateNamesInDataModel(t *testing.T) {
	repo, spy := newTestRepo(t)
	ctx := context.Background()

	t.Run("duplicate object names across the model", func(t *testing.T) {
		first := memberObject("member")
		first.ID = "7f000000-0000-4000-8000-000000000010"
		second := memberObject("member")
		second.ID = "7f000000-0000-4000-8000-000000000011"

		_, err := repo.CreateProject(ctx, &models.Project{
			Name:      "Acme CU",
			DataModel: models.DataModel{Objects: []models.CustomObject{first, second}},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation rejection, got %v", err)
		}
		found := false
		for _, fe := range vErr.Errors {
			if fe.Field == "objects[1].name" && strings.Contains(fe.Message, "already exists") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a collision error at objects[1].name, got %v", vErr.Errors)
		}
		if spy.creates != 0 {
			t.Error("duplicate object names must be rejected before persistence")
		}
	})

	t.Run("duplicate unsaved field names on one object", func(t *testing.T) {
		object := memberObject("member")
		object.Fields = append(object.Fields, models.Field{
			Name: "status", Label: "Status Again", DataType: models.DataTypeText,
		})

		_, err := repo.CreateProject(ctx, &models.Project{
			Name:      "Acme CU",
			DataModel: models.DataModel{Objects: []models.CustomObject{object}},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation rejection, got %v", err)
		}
		found := false
		for _, fe := range vErr.Errors {
			if fe.Field == "objects[0].fields[1].name" && strings.Contains(fe.Message, "already exists") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a collision error at objects[0].fields[1].name, got %v", vErr.Errors)
		}
		if spy.creates != 0 {
			t.Error("duplicate field names must be rejected before persistence")
		}
	})
}

func TestUpdateProjectValidatesDataModelPayload(t *testing.T) {
	repo, spy := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateProject(ctx, &models.Project{Name: "Acme CU"})
	if err != nil {
		t.Fatal(err)
	}
	spy.updates = 0

	_, err = repo.UpdateProject(ctx, created.ID, map[string]any{
		"dataModel": map[string]any{
			"objects": []any{
				map[string]any{"name": "ok_object", "label": "OK", "apiName": "ok"},
			},
		},
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation rejection for short apiName, got %v", err)
	}
	if spy.updates != 0 {
		t.Error("invalid data model must not reach the adapter")
	}

	updated, err := repo.UpdateProject(ctx, created.ID, map[string]any{"status": "active"})
	if err != nil {
		t.Fatalf("plain update: %v", err)
	}
	if updated.Status != models.ProjectStatusActive {
		t.Errorf("status = %s, want active", updated.Status)
	}
}

func TestAddCustomObjectDuplicateName(t *testing.T) {
	repo, spy := newTestRepo(t)
	ctx := context.Background()

	project, err := repo.CreateProject(ctx, &models.Project{Name: "Acme CU"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := repo.AddCustomObject(ctx, project.ID, memberObject("member_object")); err != nil {
		t.Fatalf("first AddCustomObject: %v", err)
	}
	objectCalls := spy.objects

	_, err = repo.AddCustomObject(ctx, project.ID, memberObject("Member_Object"))
	if err == nil {
		t.Fatal("expected rejection: Member_Object collides with member_object (name pattern forbids it anyway)")
	}

	// a case-only variant with a legal name still collides
	_, err = repo.AddCustomObject(ctx, project.ID, memberObject("member_object"))
	if !errors.Is(err, errs.ErrDuplicateName) {
		t.Fatalf("expected duplicate-name error, got %v", err)
	}
	if spy.objects != objectCalls {
		t.Error("duplicate object must be rejected before the adapter call")
	}

	stored, err := repo.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.DataModel.Objects) != 1 {
		t.Errorf("project holds %d objects, want 1", len(stored.DataModel.Objects))
	}
}

func TestAddFieldRejectsIncompleteEnumerationBeforeWrite(t *testing.T) {
	repo, spy := newTestRepo(t)
	ctx := context.Background()

	project, err := repo.CreateProject(ctx, &models.Project{Name: "Acme CU"})
	if err != nil {
		t.Fatal(err)
	}
	object, err := repo.AddCustomObject(ctx, project.ID, models.CustomObject{
		Name: "member", Label: "Member", APIName: "member_api",
	})
	if err != nil {
		t.Fatal(err)
	}
	fieldCalls := spy.fields

	_, err = repo.AddField(ctx, project.ID, object.ID, models.Field{
		Name:     "account_type",
		Label:    "Account Type",
		DataType: models.DataTypeEnumeration,
		Options:  []models.FieldOption{},
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation rejection, got %v", err)
	}
	foundOptions := false
	for _, fe := range vErr.Errors {
		if fe.Field == "options" {
			foundOptions = true
		}
	}
	if !foundOptions {
		t.Errorf("expected error on \"options\", got %v", vErr.Errors)
	}
	if spy.fields != fieldCalls {
		t.Error("rejected field must not reach the adapter")
	}

	stored, err := repo.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(stored.FindObject(object.ID).Fields); got != 0 {
		t.Errorf("object holds %d fields, want 0", got)
	}
}

func TestUpdateFieldMergesPartialUpdates(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	project, err := repo.CreateProject(ctx, &models.Project{Name: "Acme CU"})
	if err != nil {
		t.Fatal(err)
	}
	object, err := repo.AddCustomObject(ctx, project.ID, memberObject("member"))
	if err != nil {
		t.Fatal(err)
	}
	statusField := object.Fields[0]

	other, err := repo.AddField(ctx, project.ID, object.ID, models.Field{
		Name: "tier", Label: "Tier", DataType: models.DataTypeText,
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("label-only update keeps the name", func(t *testing.T) {
		updated, err := repo.UpdateField(ctx, project.ID, object.ID, statusField.ID, map[string]any{
			"label": "Membership Status",
		})
		if err != nil {
			t.Fatalf("UpdateField: %v", err)
		}
		if updated.Name != "status" {
			t.Errorf("merge lost the stored name, got %q", updated.Name)
		}
		if updated.Label != "Membership Status" {
			t.Errorf("label = %q", updated.Label)
		}
		if updated.ID != statusField.ID {
			t.Errorf("field ID changed to %q", updated.ID)
		}
	})

	t.Run("rename onto a sibling is rejected", func(t *testing.T) {
		_, err := repo.UpdateField(ctx, project.ID, object.ID, other.ID, map[string]any{
			"name": "status",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation rejection, got %v", err)
		}
		if !strings.Contains(vErr.Error(), "already exists") {
			t.Errorf("error %q should mention the collision", vErr.Error())
		}
	})

	t.Run("unknown field id", func(t *testing.T) {
		_, err := repo.UpdateField(ctx, project.ID, object.ID, "field-ghost", map[string]any{"label": "X"})
		if err == nil {
			t.Fatal("expected not-found for unknown field")
		}
	})
}

func TestDeleteObjectRestoresIntegrity(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	project, err := repo.CreateProject(ctx, &models.Project{Name: "Acme CU"})
	if err != nil {
		t.Fatal(err)
	}
	member, err := repo.AddCustomObject(ctx, project.ID, memberObject("member"))
	if err != nil {
		t.Fatal(err)
	}
	account, err := repo.AddCustomObject(ctx, project.ID, models.CustomObject{
		Name: "account", Label: "Account", APIName: "account_api",
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = repo.UpdateProject(ctx, project.ID, map[string]any{
		"dataModel": map[string]any{
			"objects": []any{toMap(t, member), toMap(t, account)},
			"associations": []any{
				map[string]any{
					"id":           "7f000000-0000-4000-8000-000000000001",
					"fromObjectId": member.ID,
					"toObjectId":   account.ID,
					"type":         "one_to_many",
					"label":        "holds",
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("wiring association: %v", err)
	}

	if err := repo.DeleteCustomObject(ctx, project.ID, account.ID); err != nil {
		t.Fatalf("DeleteCustomObject: %v", err)
	}

	stored, err := repo.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.FindObject(account.ID) != nil {
		t.Error("deleted object still present")
	}
	if len(stored.DataModel.Associations) != 0 {
		t.Errorf("association referencing the deleted object survived: %+v", stored.DataModel.Associations)
	}
	if res := repo.Validator().ValidateReferentialIntegrity(stored.DataModel); !res.Valid {
		t.Errorf("data model should be referentially clean after cascade, got %v", res.Errors)
	}
}

func TestSetAdapterSwapsBackingStore(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateProject(ctx, &models.Project{Name: "Scratch"}); err != nil {
		t.Fatal(err)
	}

	replacement := storage.NewLocalAdapter(t.TempDir())
	repo.SetAdapter(replacement)

	projects, err := repo.GetAllProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 0 {
		t.Errorf("after the swap the repository should see the new store, got %d projects", len(projects))
	}
}

// toMap converts a model struct to the generic shape of a request payload
func toMap(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}
