// Package booknote implements the Book Note API domain: user and book
// persistence over bun, bcrypt credential hashing, HS256 bearer tokens,
// and the request-scoped unit of work every operation runs inside.
//
// The HTTP surface lives in the server subpackage; this package carries
// the core invariants: a forged or expired token never resolves to an
// identity, non-admin identities never pass the admin gate, and a failed
// request never leaves a partially committed unit of work behind.
package booknote
