package middleware

import "github.com/aretw0/anilink/pkg/ports"

// Middleware allows wrapping a SubjectStore to add behavior.
type Middleware func(ports.SubjectStore) ports.SubjectStore

// Chain wraps store with every middleware. The first middleware is the outermost.
func Chain(store ports.SubjectStore, mws ...Middleware) ports.SubjectStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
