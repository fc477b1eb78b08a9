package state

import (
	"errors"
	"reflect"
	"testing"

	"github.com/blueprintcu/modeler-backend/models"
)

func storedProject(id string) *models.Project {
	project := models.NewProject(id, "Acme CU", "2024-01-01T00:00:00Z")
	project.DataModel.Objects = []models.CustomObject{
		{ID: "obj-1", Name: "member", Label: "Member", APIName: "member_api"},
	}
	return project
}

func TestStoreCommitAdoptsCanonicalValue(t *testing.T) {
	store := NewStore()
	if err := store.Load([]*models.Project{storedProject("proj-1")}); err != nil {
		t.Fatal(err)
	}

	optimistic := storedProject("proj-1")
	optimistic.Name = "Acme Credit Union"
	if err := store.Begin("proj-1", optimistic); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// UI sees the tentative value while the call is in flight
	if got := store.Get("proj-1"); got.Name != "Acme Credit Union" {
		t.Errorf("optimistic value not visible, name = %q", got.Name)
	}

	canonical := storedProject("proj-1")
	canonical.Name = "Acme Credit Union"
	canonical.UpdatedAt = "2024-06-01T12:00:00Z"
	if err := store.Commit("proj-1", canonical); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got := store.Get("proj-1")
	if got.UpdatedAt != "2024-06-01T12:00:00Z" {
		t.Errorf("commit must adopt the canonical timestamps, got %q", got.UpdatedAt)
	}
	if store.Pending("proj-1") {
		t.Error("no mutation should be pending after commit")
	}
}

func TestStoreRollbackRestoresPreImage(t *testing.T) {
	store := NewStore()
	original := storedProject("proj-1")
	if err := store.Load([]*models.Project{original}); err != nil {
		t.Fatal(err)
	}

	optimistic := storedProject("proj-1")
	optimistic.DataModel.Objects = append(optimistic.DataModel.Objects, models.CustomObject{
		ID: "obj-2", Name: "account", Label: "Account", APIName: "account_api",
	})
	if err := store.Begin("proj-1", optimistic); err != nil {
		t.Fatal(err)
	}

	msg, err := store.Rollback("proj-1", errors.New("network is unreachable"))
	if err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if msg == "" {
		t.Error("rollback should surface a user-facing message")
	}

	restored := store.Get("proj-1")
	if !reflect.DeepEqual(restored, original) {
		t.Errorf("rollback must restore the exact pre-image\ngot:  %+v\nwant: %+v", restored, original)
	}
	if store.Pending("proj-1") {
		t.Error("no mutation should be pending after rollback")
	}
}

func TestStoreRollbackOfOptimisticCreateRemovesEntity(t *testing.T) {
	store := NewStore()

	if err := store.Begin("proj-new", storedProject("proj-new")); err != nil {
		t.Fatal(err)
	}
	if store.Get("proj-new") == nil {
		t.Fatal("optimistic create should be visible")
	}

	if _, err := store.Rollback("proj-new", errors.New("duplicate key value")); err != nil {
		t.Fatal(err)
	}
	if store.Get("proj-new") != nil {
		t.Error("rollback of an optimistic create must delete the entity")
	}
}

func TestStoreOneInFlightMutationPerEntity(t *testing.T) {
	store := NewStore()
	if err := store.Load([]*models.Project{storedProject("proj-1")}); err != nil {
		t.Fatal(err)
	}

	if err := store.Begin("proj-1", storedProject("proj-1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Begin("proj-1", storedProject("proj-1")); err == nil {
		t.Error("second Begin on the same entity must be refused")
	}
	// a different entity is unaffected
	if err := store.Begin("proj-2", storedProject("proj-2")); err != nil {
		t.Errorf("mutation on another entity should proceed, got %v", err)
	}
}

func TestStoreCommitWithoutBegin(t *testing.T) {
	store := NewStore()
	if err := store.Commit("proj-1", storedProject("proj-1")); err == nil {
		t.Error("Commit without Begin must error")
	}
	if _, err := store.Rollback("proj-1", errors.New("boom")); err == nil {
		t.Error("Rollback without Begin must error")
	}
}

func TestStoreOptimisticDelete(t *testing.T) {
	store := NewStore()
	if err := store.Load([]*models.Project{storedProject("proj-1")}); err != nil {
		t.Fatal(err)
	}

	if err := store.Begin("proj-1", nil); err != nil {
		t.Fatal(err)
	}
	if store.Get("proj-1") != nil {
		t.Error("optimistic delete should hide the entity")
	}
	if err := store.Commit("proj-1", nil); err != nil {
		t.Fatal(err)
	}
	if store.Get("proj-1") != nil {
		t.Error("committed delete should keep the entity gone")
	}
}
