package worksheet

import (
	"fmt"
	"strings"
	"time"

	"tablegen/models"
)

// Action is a discrete user intent applied by Reduce.
type Action interface {
	action()
}

type (
	// UpdateDraft replaces the pending row. Non-empty subheading text marks it as a subheading.
	UpdateDraft struct{ Draft models.Draft }
	// SubmitDraft turns the pending row into a table row, or starts a total selection.
	SubmitDraft struct{ At time.Time }
	// ToggleRow adds or removes a position from the pending total selection.
	ToggleRow struct{ Position int }
	// ConfirmTotal appends the pending total row.
	ConfirmTotal struct{ At time.Time }
	CancelSelection struct{}
	DeleteRow       struct{ Position int }
	SetTitle        struct{ Title string }
	SetCustomer     struct{ Customer models.CustomerInfo }
	SetSignDate     struct{ SignDate string }
	SetSignature    struct {
		Data     []byte
		MIMEType string
		FileName string
	}
	ClearSignature struct{}
)

func (UpdateDraft) action()     {}
func (SubmitDraft) action()     {}
func (ToggleRow) action()       {}
func (ConfirmTotal) action()    {}
func (CancelSelection) action() {}
func (DeleteRow) action()       {}
func (SetTitle) action()        {}
func (SetCustomer) action()     {}
func (SetSignDate) action()     {}
func (SetSignature) action()    {}
func (ClearSignature) action()  {}

// Reduce applies a to s and returns the new state. s is never modified; on
// error the returned state equals s.
func Reduce(s State, a Action, opts Options) (State, error) {
	next := s.Clone()
	var err error
	switch a := a.(type) {
	case UpdateDraft:
		next.Draft = normalizeDraft(a.Draft)
	case SubmitDraft:
		err = next.submit(a.At)
	case ToggleRow:
		err = next.toggle(a.Position)
	case ConfirmTotal:
		err = next.confirm(a.At)
	case CancelSelection:
		err = next.cancel(opts)
	case DeleteRow:
		if next.Selecting {
			err = ErrSelectionActive
			break
		}
		err = next.Rows.Delete(a.Position)
	case SetTitle:
		next.Title = a.Title
	case SetCustomer:
		next.Customer = a.Customer
	case SetSignDate:
		next.Signature.SignDate = a.SignDate
	case SetSignature:
		next.Signature.Data = append([]byte(nil), a.Data...)
		next.Signature.MIMEType = a.MIMEType
		next.Signature.FileName = a.FileName
	case ClearSignature:
		next.Signature.Data = nil
		next.Signature.MIMEType = ""
		next.Signature.FileName = ""
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	if err != nil {
		return s, err
	}
	return next, nil
}

func normalizeDraft(d models.Draft) models.Draft {
	if d.SubheadingType != models.SubheadingTypeTotal {
		d.SubheadingType = models.SubheadingTypeSubheading
	}
	if strings.TrimSpace(d.Subheading) != "" {
		d.IsSubheading = true
	}
	return d
}

func (s *State) submit(at time.Time) error {
	if s.Selecting {
		return ErrSelectionActive
	}
	d := s.Draft
	switch {
	case !d.IsSubheading:
		s.Rows.Append(newLineRow(s.Rows.NextID(at), d))
	case d.SubheadingType == models.SubheadingTypeTotal:
		s.Selecting = true
		s.Selection = nil
		return nil
	default:
		s.Rows.Append(models.Row{
			ID:          s.Rows.NextID(at),
			Kind:        models.RowKindSubheading,
			Description: d.Subheading,
		})
	}
	s.Draft = models.NewDraft()
	return nil
}

// newLineRow prices a draft: quantity×unit price when both are given,
// otherwise the unit price alone. Quantity without a unit price has no value.
func newLineRow(id int64, d models.Draft) models.Row {
	qty := models.ParseNumber(d.Quantity)
	price := models.ParseNumber(d.UnitPrice)
	value := price
	if qty.Valid && price.Valid {
		value = models.NumberOf(qty.Value * price.Value)
	}
	return models.Row{
		ID:          id,
		Kind:        models.RowKindLine,
		Description: d.Description,
		Quantity:    qty,
		UnitPrice:   price,
		Value:       value,
	}
}

func (s *State) toggle(position int) error {
	if !s.Selecting {
		return ErrNotSelecting
	}
	if _, err := s.Rows.At(position); err != nil {
		return err
	}
	for i, p := range s.Selection {
		if p == position {
			s.Selection = append(s.Selection[:i], s.Selection[i+1:]...)
			return nil
		}
	}
	s.Selection = append(s.Selection, position)
	return nil
}

func (s *State) confirm(at time.Time) error {
	if !s.Selecting {
		return ErrNotSelecting
	}
	sum, err := s.Rows.Sum(s.Selection)
	if err != nil {
		return err
	}
	refs := s.Selection
	if refs == nil {
		refs = []int{}
	}
	s.Rows.Append(models.Row{
		ID:          s.Rows.NextID(at),
		Kind:        models.RowKindTotal,
		Description: s.Draft.Subheading,
		Value:       models.NumberOf(sum),
		TotaledRows: refs,
	})
	s.Selecting = false
	s.Selection = nil
	s.Draft = models.NewDraft()
	return nil
}

func (s *State) cancel(opts Options) error {
	if !opts.AllowSelectionCancel {
		return ErrCancelDisabled
	}
	if !s.Selecting {
		return ErrNotSelecting
	}
	s.Selecting = false
	s.Selection = nil
	return nil
}
