// Package worksheet holds one browser's table state and the pure reducer that
// applies user actions to it.
package worksheet

import (
	"errors"
	"time"

	"tablegen/infrastructure/rows"
	"tablegen/models"
)

const (
	DefaultTitle = "Generated Table"
	DateLayout   = "02-01-2006"
)

var (
	ErrSelectionActive = errors.New("finish the total row selection first")
	ErrNotSelecting    = errors.New("no total row is being selected")
	ErrCancelDisabled  = errors.New("total row selection cannot be cancelled")
	ErrUnknownAction   = errors.New("unknown action")
)

// Options are behaviour switches fixed per deployment.
type Options struct {
	AllowSelectionCancel bool
}

// State is the whole transient application state for one workspace.
type State struct {
	Title     string
	Rows      rows.Store
	Draft     models.Draft
	Selecting bool
	Selection []int
	Customer  models.CustomerInfo
	Signature models.Signature
}

// NewState returns an empty worksheet dated today.
func NewState(now time.Time) State {
	today := now.Format(DateLayout)
	return State{
		Title:     DefaultTitle,
		Draft:     models.NewDraft(),
		Customer:  models.CustomerInfo{Date: today},
		Signature: models.Signature{SignDate: today},
	}
}

// Clone deep-copies the state so reducers never alias the previous value.
func (s State) Clone() State {
	out := s
	out.Rows = s.Rows.Clone()
	if s.Selection != nil {
		out.Selection = append([]int(nil), s.Selection...)
	}
	if s.Signature.Data != nil {
		out.Signature.Data = append([]byte(nil), s.Signature.Data...)
	}
	return out
}

// Selected reports whether position is in the pending total selection.
func (s State) Selected(position int) bool {
	for _, p := range s.Selection {
		if p == position {
			return true
		}
	}
	return false
}
