package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are used internally by the
// repository layer; handlers define separate response types with the
// appropriate JSON shape.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address (identity key).
//  PasswordHash – bcrypt hashed password.
//  FirstName    – optional profile field (null until the owner sets it).
//  LastName     – optional profile field.
//  DOB          – optional date of birth (DATE column).
//  Address      – optional postal address.
type User struct {
	ID           uint64     // users.id
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	FirstName    *string    // users.firstName
	LastName     *string    // users.lastName
	DOB          *time.Time // users.dob (nullable DATE)
	Address      *string    // users.address
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each token
// belongs to a user; the signed JWT is stored verbatim so that rotation can
// match the exact presented string.  Row presence is the source of truth
// for validity: rotation deletes the consumed row, logout deletes the
// revoked row, and expiry is additionally enforced by the token's own
// embedded claim.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  Token     – the signed refresh JWT as handed to the client.
//  ExpiresAt – expiration timestamp of the token.
type RefreshToken struct {
	ID        uint64    // refresh_tokens.id
	UserID    uint64    // refresh_tokens.user_id
	Token     string    // refresh_tokens.token
	ExpiresAt time.Time // refresh_tokens.expires_at
}
