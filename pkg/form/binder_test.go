package form

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formbind/pkg/schema"
)

func TestBind_EveryDeclaredKey(t *testing.T) {
	s, _ := signupSchema(t)
	ctx, err := New(s, map[string]string{"firstName": "Ada", "lastName": "Lovelace"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for _, field := range s.Fields() {
		b, err := Bind(ctx, field)
		if err != nil {
			t.Fatalf("bind %s: %v", field, err)
		}
		want, _ := ctx.GetValue(field.Name())
		if b.Get() != want {
			t.Fatalf("binder %s get = %q, want %q", field, b.Get(), want)
		}
	}
}

func TestBind_SetAndError(t *testing.T) {
	ctx, keys := newSignup(t)
	b := MustBind(ctx, keys.FirstName)

	if b.Name() != "firstName" || b.Field() != keys.FirstName {
		t.Fatalf("unexpected binding %s", b.Name())
	}
	if err := b.Set("a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if b.Get() != "a" || b.Error() == "" || !b.Touched() {
		t.Fatalf("unexpected binder state value=%q error=%q", b.Get(), b.Error())
	}
	if err := b.Set("Ada"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if b.Error() != "" {
		t.Fatalf("expected error cleared, got %q", b.Error())
	}
	if got, _ := ctx.GetValue("firstName"); got != "Ada" {
		t.Fatalf("binder did not write through, context has %q", got)
	}
}

func TestBindName(t *testing.T) {
	ctx, keys := newSignup(t)

	b, err := BindName(ctx, "lastName")
	if err != nil {
		t.Fatalf("bind name: %v", err)
	}
	if b.Field() != keys.LastName {
		t.Fatalf("expected runtime binding to resolve the declared key")
	}

	_, err = BindName(ctx, "bingBong")
	var unknown *schema.UnknownFieldError
	if !errors.As(err, &unknown) || unknown.Field != "bingBong" {
		t.Fatalf("expected UnknownFieldError for bingBong, got %v", err)
	}
}

func TestBind_ZeroKeyRejected(t *testing.T) {
	ctx, _ := newSignup(t)
	if _, err := Bind(ctx, schema.Field[signupForm]{}); !schema.IsUnknownField(err) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
}

func TestBinder_Subscribe(t *testing.T) {
	ctx, keys := newSignup(t)
	b := MustBind(ctx, keys.LastName)

	var seen []string
	unsub, err := b.Subscribe(func(c Change) { seen = append(seen, c.Value) })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	_ = b.Set("Do")
	unsub()
	_ = b.Set("Doe")

	if len(seen) != 1 || seen[0] != "Do" {
		t.Fatalf("unexpected notifications %v", seen)
	}
}

func TestBinder_AfterClose(t *testing.T) {
	ctx, keys := newSignup(t)
	b := MustBind(ctx, keys.FirstName)
	_ = b.Set("Ada")
	ctx.Close()

	if err := b.Set("Grace"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if b.Get() != "" {
		t.Fatalf("expected empty value after close")
	}
	if _, err := b.Subscribe(func(Change) {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := Bind(ctx, keys.LastName); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed binding on a closed form, got %v", err)
	}
}
