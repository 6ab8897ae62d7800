package jsonview_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/renderers/jsonview"
)

func TestRender(t *testing.T) {
	view := render.View{
		ID:     "form-1",
		Schema: "login",
		Fields: []render.FieldView{
			{Name: "email", Type: "email", Value: "ada@example.com", State: "valid"},
			{Name: "password", Type: "password", Value: "hunter2", State: "invalid", Error: "required"},
			{Name: "note", Type: "text", State: "clean", Error: "too short"},
		},
	}

	raw, err := jsonview.New("").Render(context.Background(), view, render.RenderOptions{
		Hidden: []render.HiddenField{render.CSRFToken("_csrf", "tok")},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got struct {
		Form struct {
			ID     string             `json:"id"`
			Fields []render.FieldView `json:"fields"`
		} `json:"form"`
		Method string               `json:"method"`
		Hidden []render.HiddenField `json:"hidden"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Form.ID != "form-1" || got.Method != "POST" {
		t.Fatalf("unexpected envelope: %s", raw)
	}
	if got.Form.Fields[1].Value != "" {
		t.Fatalf("password value leaked: %s", raw)
	}
	if got.Form.Fields[1].Error != "required" || got.Form.Fields[2].Error != "" {
		t.Fatalf("errors should follow field state: %s", raw)
	}
	if diff := cmp.Diff([]render.HiddenField{{Name: "_csrf", Value: "tok"}}, got.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
}
