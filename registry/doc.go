// Package registry houses the concrete implementation of the
// core.IdentityRegistry. The interface itself (and the Identity struct)
// live in the core package to centralize domain contracts. Keeping only
// implementations here prevents higher level packages (the coordinator,
// the notification injector) from depending on concrete storage.
package registry
