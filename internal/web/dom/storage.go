//go:build js && wasm

package dom

import (
	"fmt"
	"syscall/js"

	"github.com/signalsfoundry/orrery/internal/prefs"
)

// LocalStorage is a prefs.Store over window.localStorage. Browsers that
// block storage throw on access; those calls fail with prefs.ErrUnavailable.
type LocalStorage struct {
	d *Document
}

// NewLocalStorage returns the page's storage.
func NewLocalStorage(d *Document) *LocalStorage {
	return &LocalStorage{d: d}
}

// Get implements prefs.Store.
func (s *LocalStorage) Get(key string) (value string, ok bool, err error) {
	defer guard(&err)
	store := s.d.window.Get("localStorage")
	if !has(store) {
		return "", false, prefs.ErrUnavailable
	}
	v := store.Call("getItem", key)
	if !has(v) {
		return "", false, nil
	}
	return v.String(), true, nil
}

// Set implements prefs.Store.
func (s *LocalStorage) Set(key, value string) (err error) {
	defer guard(&err)
	store := s.d.window.Get("localStorage")
	if !has(store) {
		return prefs.ErrUnavailable
	}
	store.Call("setItem", key, value)
	return nil
}

func guard(err *error) {
	if r := recover(); r != nil {
		if jsErr, ok := r.(js.Error); ok {
			*err = fmt.Errorf("%w: %s", prefs.ErrUnavailable, jsErr.Error())
			return
		}
		panic(r)
	}
}
