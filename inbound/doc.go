// Package inbound serves the callbacks the money server makes into a region.
//
// Every callback except SendMoneyBalance re-validates the caller's full
// session credential against the live root session before acting. Replies
// carry only a success flag.
package inbound
