package validate

import (
	"errors"
	"testing"
)

type sample struct {
	Title    string  `json:"title" validate:"required,max=10"`
	Username string  `json:"username" validate:"min=6,max=64,excludes=@"`
	Email    string  `json:"email" validate:"required,email"`
	Kind     string  `json:"kind,omitempty" validate:"omitempty,oneof=a b"`
	Note     *string `json:"note,omitempty" validate:"omitempty,min=1,max=5"`
	Hidden   string  `json:"-" validate:"required"`
}

func valid() sample {
	return sample{Title: "ok", Username: "someone", Email: "someone@example.com", Hidden: "x"}
}

func TestStruct_Valid(t *testing.T) {
	if errs := Struct(valid()); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestStruct_Messages(t *testing.T) {
	empty := ""
	long := "abcdef"
	tests := []struct {
		name  string
		edit  func(*sample)
		field string
		want  string
	}{
		{"required", func(s *sample) { s.Title = "" }, "title", "title is required"},
		{"too long", func(s *sample) { s.Title = "abcdefghijk" }, "title", "title must be at most 10 characters"},
		{"too short", func(s *sample) { s.Username = "abc" }, "username", "username must be at least 6 characters"},
		{"excludes", func(s *sample) { s.Username = "some@one" }, "username", "username cannot contain @"},
		{"email", func(s *sample) { s.Email = "Name <someone@example.com>" }, "email", "invalid email"},
		{"oneof", func(s *sample) { s.Kind = "c" }, "kind", "unknown kind"},
		{"empty pointer", func(s *sample) { s.Note = &empty }, "note", "note is required"},
		{"long pointer", func(s *sample) { s.Note = &long }, "note", "note must be at most 5 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.edit(&s)
			errs := Struct(s)
			if len(errs) != 1 {
				t.Fatalf("expected one error, got %v", errs)
			}
			if msg, ok := errs.Field(tt.field); !ok || msg != tt.want {
				t.Errorf("expected %q on %s, got %v", tt.want, tt.field, errs)
			}
		})
	}
}

func TestStruct_CountsRunes(t *testing.T) {
	s := valid()
	s.Title = "héllo wörl"
	if errs := Struct(s); errs != nil {
		t.Errorf("10 runes should fit a max of 10, got %v", errs)
	}
}

func TestErrors_OrNilAndAs(t *testing.T) {
	var errs Errors
	if errs.OrNil() != nil {
		t.Fatalf("empty list should be nil error")
	}
	errs.Add("email", "email already exists")
	err := errs.OrNil()

	var got Errors
	if !errors.As(err, &got) {
		t.Fatalf("errors.As should recover the field list")
	}
	if got[0].Field != "email" || err.Error() != "email: email already exists" {
		t.Errorf("unexpected error %v", err)
	}
}
