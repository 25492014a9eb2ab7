package store

import "context"

// Store persists exactly one credential string durably across process
// restarts. Absence of a credential is a valid, expected state and is
// reported via the ok flag, never as an error. The session manager is
// the single writer; semantics are last-write-wins.
type Store interface {
	Save(ctx context.Context, credential string) error
	Load(ctx context.Context) (credential string, ok bool, err error)
	Clear(ctx context.Context) error
}
