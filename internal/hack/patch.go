package hack

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// Patch is a partial assignment over the editable fields of a hack. Nil
// fields are left untouched when the patch is merged.
type Patch struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1,max=150"`
	Description *string   `json:"description,omitempty" validate:"omitempty,min=1,max=500"`
	Category    *Category `json:"category,omitempty" validate:"omitempty,oneof=general note-taking time-saver time-management health planning education university finance technology fashion others"`
	Body        *string   `json:"body,omitempty" validate:"omitempty,min=1"`
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Body == nil
}

func (p Patch) Encode() (datatypes.JSON, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func DecodePatch(raw []byte) (Patch, error) {
	var p Patch
	if err := json.Unmarshal(raw, &p); err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrCorruptPatch, err)
	}
	if p.Empty() {
		return Patch{}, ErrCorruptPatch
	}
	return p, nil
}

// Columns maps the present fields to their column names.
func (p Patch) Columns() map[string]any {
	cols := make(map[string]any, 4)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Body != nil {
		cols["body"] = *p.Body
	}
	return cols
}

func (p Patch) ApplyTo(h *Hack) {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Category != nil {
		h.Category = *p.Category
	}
	if p.Body != nil {
		h.Body = *p.Body
	}
}
