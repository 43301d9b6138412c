package htmltree

import "errors"

var (
	// ErrNotCheckable is returned by Input.SetChecked for any input whose
	// type is not checkbox or radio.
	ErrNotCheckable = errors.New("htmltree: only checkboxes and radio buttons can be checked")

	// ErrMultipleSelected is returned by Select.Value when more than one
	// option is selected.
	ErrMultipleSelected = errors.New("htmltree: more than one option is selected")

	// ErrOptionNotFound is returned by Select.SetValue/SetSelectedValues
	// when a requested value has no matching option.
	ErrOptionNotFound = errors.New("htmltree: no option with that value exists")

	// ErrInvalidSelector is returned by Compile for a selector string this
	// package's CSS subset cannot parse.
	ErrInvalidSelector = errors.New("htmltree: invalid selector")
)
