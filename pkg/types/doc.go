// Package types holds the small, dependency-free vocabulary shared by the
// hive reader and its callers: typed error categories and registry value
// types.
//
// Errors returned by this module are *Error values (or wrap one). Callers
// branch on the category rather than the text:
//
//	k, err := root.Subpath(`ControlSet001\Services`)
//	switch {
//	case errors.Is(err, types.ErrNotFound):
//	    // absent, not broken
//	case types.KindOf(err) == types.ErrKindEncoding:
//	    // a name was unreadable
//	case err != nil:
//	    return err
//	}
package types
