// Package lifecycle manages server clusters that are constructed lazily, one
// per endpoint, and registered with the provider registry.
//
// A Holder owns at most one live instance per endpoint and moves each entry
// through
//
//	StateEmpty --Create--> StateConstructed --register--> StateRegistered
//	    ^                                                        |
//	    +-----------------------Destroy--------------------------+
//
// StateConstructed without StateRegistered is also where an entry stays when
// registration failed; nothing rolls the construction back.
//
// A Manager binds a Holder to one cluster type through a Definition and
// exposes the endpoint init and shutdown callbacks the provider invokes.
//
// # Locking
//
// Holders and Managers do no locking of their own. Every call that reads or
// mutates them (callbacks, Create, Destroy, iteration over Endpoints) must
// happen with the provider's data-model lock held; see provider.Provider.Lock.
package lifecycle
