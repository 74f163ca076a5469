package road

import (
	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/road/drag"
)

// Persister receives the final offset of each completed drag. Persist must
// not block; implementations queue the write (see offsets.AsyncWriter).
type Persister interface {
	Persist(key string, o geom.Offset)
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(key string, o geom.Offset)

// Persist implements Persister.
func (f PersisterFunc) Persist(key string, o geom.Offset) { f(key, o) }

// Navigator opens the detail view of an entry.
type Navigator interface {
	NavigateToEntry(id string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(id string)

// NavigateToEntry implements Navigator.
func (f NavigatorFunc) NavigateToEntry(id string) { f(id) }

// Authorizer reports whether the caller may move markers. It is consulted
// at press time and again when a drag is released.
type Authorizer = drag.Authorizer

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc = drag.AuthorizerFunc

type nopPersister struct{}

func (nopPersister) Persist(string, geom.Offset) {}

type nopNavigator struct{}

func (nopNavigator) NavigateToEntry(string) {}
