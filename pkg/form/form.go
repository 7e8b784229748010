// Package form provides reactive form state with field-level validation, the
// demo analogue of a UI form hook. Fields and their rules are declared with
// struct tags:
//
//	type signup struct {
//	    Name  string `form:"name" validate:"required,min=2"`
//	    Email string `form:"email" validate:"required,email"`
//	}
//
//	f := form.New(signup{})
//	f.Set("email", "not-an-email")
//	f.Validate() // false; f.FieldErrors("email") explains why
package form

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vango-dev/demokit/pkg/reactive"
)

// Form is a typed form handler with validation support. Values, errors, and
// touched flags live in signals, so effects re-run as the form changes.
//
// Only flat structs are supported; nested structs and slices are beyond what
// the demos need.
type Form[T any] struct {
	initial T

	values  *reactive.Signal[T]
	errors  *reactive.Signal[map[string][]string]
	touched *reactive.Signal[map[string]bool]

	validators map[string][]Validator
	fieldIndex map[string]int
}

// New creates a form bound to the given struct type. The initial value is
// the default state and the Reset target.
func New[T any](initial T) *Form[T] {
	f := &Form[T]{
		initial:    initial,
		values:     reactive.NewSignal(initial),
		errors:     reactive.NewSignal(map[string][]string{}),
		touched:    reactive.NewSignal(map[string]bool{}),
		validators: make(map[string][]Validator),
		fieldIndex: make(map[string]int),
	}
	f.parseStructTags(reflect.TypeOf(initial))
	return f
}

// parseStructTags extracts form and validate tags from the struct fields.
func (f *Form[T]) parseStructTags(t reflect.Type) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Tag.Get("form")
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		if name == "-" {
			continue
		}

		f.fieldIndex[name] = i
		if tag := field.Tag.Get("validate"); tag != "" {
			f.validators[name] = parseValidateTag(tag)
		}
	}
}

// Values returns the current form values. Tracked when read in an effect.
func (f *Form[T]) Values() T {
	return f.values.Get()
}

// Get returns the value of a single field by name.
func (f *Form[T]) Get(field string) (any, error) {
	idx, ok := f.fieldIndex[field]
	if !ok {
		return nil, fmt.Errorf("form: unknown field %q", field)
	}
	v := reflect.ValueOf(f.values.Peek())
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return v.Field(idx).Interface(), nil
}

// Set updates a single field, marks it touched, and re-validates it.
func (f *Form[T]) Set(field string, value any) error {
	idx, ok := f.fieldIndex[field]
	if !ok {
		return fmt.Errorf("form: unknown field %q", field)
	}

	current := f.values.Peek()
	v := reflect.ValueOf(&current).Elem()
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	target := v.Field(idx)
	val := reflect.ValueOf(value)
	if !val.Type().AssignableTo(target.Type()) {
		if !val.Type().ConvertibleTo(target.Type()) {
			return fmt.Errorf("form: cannot assign %T to field %q", value, field)
		}
		val = val.Convert(target.Type())
	}
	target.Set(val)

	reactive.Batch(func() {
		f.values.Set(current)
		f.touch(field)
		f.validateField(field)
	})
	return nil
}

// Touch marks a field as touched without changing its value.
func (f *Form[T]) Touch(field string) {
	f.touch(field)
}

func (f *Form[T]) touch(field string) {
	f.touched.Update(func(m map[string]bool) map[string]bool {
		next := make(map[string]bool, len(m)+1)
		for k, v := range m {
			next[k] = v
		}
		next[field] = true
		return next
	})
}

// Touched reports whether the field has been set or touched.
func (f *Form[T]) Touched(field string) bool {
	return f.touched.Get()[field]
}

// validateField runs the field's validators against its current value and
// records the messages.
func (f *Form[T]) validateField(field string) bool {
	value, err := f.Get(field)
	if err != nil {
		return false
	}

	var messages []string
	for _, v := range f.validators[field] {
		if verr := v.Validate(value); verr != nil {
			messages = append(messages, verr.Error())
		}
	}

	f.errors.Update(func(m map[string][]string) map[string][]string {
		next := make(map[string][]string, len(m)+1)
		for k, v := range m {
			next[k] = v
		}
		if len(messages) == 0 {
			delete(next, field)
		} else {
			next[field] = messages
		}
		return next
	})
	return len(messages) == 0
}

// Validate runs all validators on all fields and reports whether the form is
// valid. All fields are marked touched.
func (f *Form[T]) Validate() bool {
	valid := true
	reactive.Batch(func() {
		for field := range f.fieldIndex {
			f.touch(field)
			if !f.validateField(field) {
				valid = false
			}
		}
	})
	return valid
}

// Valid reports whether the form currently has no recorded errors.
// It does not re-run validators; call Validate for that.
func (f *Form[T]) Valid() bool {
	return len(f.errors.Get()) == 0
}

// Errors returns all recorded validation messages, keyed by field.
func (f *Form[T]) Errors() map[string][]string {
	return f.errors.Get()
}

// FieldErrors returns the recorded validation messages for one field.
func (f *Form[T]) FieldErrors(field string) []string {
	return f.errors.Get()[field]
}

// Reset restores the initial values and clears errors and touched flags.
func (f *Form[T]) Reset() {
	reactive.Batch(func() {
		f.values.Set(f.initial)
		f.errors.Set(map[string][]string{})
		f.touched.Set(map[string]bool{})
	})
}
