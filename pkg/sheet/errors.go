package sheet

import "errors"

// ErrNotRecord is returned by New when the initial value is neither nil nor a
// record.
var ErrNotRecord = errors.New("sheet: initial value must be a record")
