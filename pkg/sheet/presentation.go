package sheet

import (
	"strconv"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-propertysheet/pkg/model"
)

// Dimension is a size hint: either a pixel count or a raw CSS length such as
// "100%". The zero value means unset.
type Dimension struct {
	px  int
	css string
}

// Pixels returns a pixel dimension.
func Pixels(n int) *Dimension { return &Dimension{px: n} }

// CSS returns a dimension holding a raw CSS length.
func CSS(value string) *Dimension { return &Dimension{css: value} }

// String renders the dimension as a CSS length.
func (d Dimension) String() string {
	if d.css != "" {
		return d.css
	}
	return strconv.Itoa(d.px) + "px"
}

// MarshalJSON encodes pixel sizes as numbers and CSS sizes as strings.
func (d Dimension) MarshalJSON() ([]byte, error) {
	if d.css != "" {
		return json.Marshal(d.css)
	}
	return json.Marshal(d.px)
}

// UnmarshalJSON accepts a number or a string.
func (d *Dimension) UnmarshalJSON(data []byte) error {
	var px int
	if err := json.Unmarshal(data, &px); err == nil {
		*d = Dimension{px: px}
		return nil
	}
	var css string
	if err := json.Unmarshal(data, &css); err != nil {
		return err
	}
	*d = Dimension{css: css}
	return nil
}

// Presentation carries the host-facing display hints. The sheet never reads
// these; they are handed to the front-end untouched.
type Presentation struct {
	Label       string     `json:"label,omitempty"`
	RootLabel   string     `json:"root_label"`
	Visible     bool       `json:"visible"`
	Open        bool       `json:"open"`
	ElemID      string     `json:"elem_id,omitempty"`
	Scale       *int       `json:"scale,omitempty"`
	Width       *Dimension `json:"width,omitempty"`
	Height      *Dimension `json:"height,omitempty"`
	MinWidth    *int       `json:"min_width,omitempty"`
	Container   bool       `json:"container"`
	ElemClasses []string   `json:"elem_classes,omitempty"`
}

// DefaultPresentation returns the hints used when no option overrides them.
func DefaultPresentation() Presentation {
	return Presentation{
		RootLabel: model.DefaultRootLabel,
		Visible:   true,
		Open:      true,
		Container: true,
	}
}
