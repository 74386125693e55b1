// Package authservice normalizes the two accepted credential sources, server
// sessions and signed bearer tokens, into one authenticated principal, and
// owns the role predicate used by every protected route. User registration
// and login live outside this service; it only consumes their artifacts.
package authservice
