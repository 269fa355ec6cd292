// Package core contains the money domain: transaction authorization, the
// bridge to the remote money server and the world event entry points.
// Transport and region adapters depend on this package; core must not depend
// on them.
package core
