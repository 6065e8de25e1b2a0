// Package auth provides the authentication and authorization core of the
// intranet user service: password hashing, HS256 token issuance and
// validation, request authorization decisions, and the bun backed user
// storage they consume.
//
// Login flow:
//   - Auther.Login normalizes the email, looks up the stored credential and
//     compares the password with bcrypt. Unknown accounts, inactive accounts
//     and wrong passwords fail with the same ErrInvalidCredentials.
//   - On success a token carrying {userId, email, role} is minted. Tokens are
//     not re-validated against live user state until they expire.
//
// Authorization:
//   - Authorize, AuthorizeAdmin and AuthorizeOwnerOrAdmin are pure decisions
//     over decoded Claims. The fiber gates in middleware/jwtware call them.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by Auther and
//     UserService. Sinks run best-effort (errors are logged) so you can
//     forward to a database or queue without blocking authentication.
package auth
