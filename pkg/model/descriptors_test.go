package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-article-admin/pkg/model"
)

func playgroundDescriptors() []model.Descriptor {
	return []model.Descriptor{
		model.Field{Kind: model.FieldKindText, Name: "name", Required: true},
		model.Container{Name: "email-password", Fields: []model.Descriptor{
			model.Field{Kind: model.FieldKindEmail, Name: "email"},
			model.Field{Kind: model.FieldKindPassword, Name: "password", MinLength: model.Limit(8)},
		}},
		model.Field{Kind: model.FieldKindSelect, Name: "gender", Multiple: true},
	}
}

func TestLeavesFlattensContainers(t *testing.T) {
	var got []string
	for _, field := range model.Leaves(playgroundDescriptors()) {
		got = append(got, field.Name)
	}
	want := []string{"name", "email", "password", "gender"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("leaves mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckShape(t *testing.T) {
	record := model.Record{"name": "", "email": "", "password": "", "gender": []string{}}
	if err := model.CheckShape(playgroundDescriptors(), record); err != nil {
		t.Fatalf("expected matching shape, got %v", err)
	}

	delete(record, "gender")
	record["age"] = ""
	err := model.CheckShape(playgroundDescriptors(), record)
	if !errors.Is(err, model.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	want := "model: descriptor names do not match record keys: unknown fields gender; unbound keys age"
	if err.Error() != want {
		t.Fatalf("error text mismatch\nwant: %s\n got: %s", want, err.Error())
	}
}

func TestCheckShapeAllowsDuplicateLeaves(t *testing.T) {
	descriptors := []model.Descriptor{
		model.Field{Kind: model.FieldKindText, Name: "title"},
		model.Field{Kind: model.FieldKindText, Name: "title"},
	}
	if err := model.CheckShape(descriptors, model.Record{"title": ""}); err != nil {
		t.Fatalf("duplicate leaves should be allowed: %v", err)
	}
}

func TestRecordCloneCopiesSlices(t *testing.T) {
	original := model.Record{"tags": []string{"a"}}
	clone := original.Clone()
	clone["tags"].([]string)[0] = "b"
	if original["tags"].([]string)[0] != "a" {
		t.Fatalf("clone shares slice storage with original")
	}
}
