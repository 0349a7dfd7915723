package model

import (
    "strings"
    "time"
)

// Role names form a fixed enumeration shared with every portal frontend.
// The values are stored in the `roles` table and embedded in the JWT's
// "roles" claim.  RoleAdmin satisfies every role check.
const (
    RoleSales         = "sales"
    RoleCourseManager = "course_manager"
    RoleTrainer       = "trainer"
    RoleStudent       = "student"
    RoleAdmin         = "admin"
)

// KnownRole reports whether name is one of the fixed role values.  The
// comparison is case-insensitive because role strings travel through JWTs
// and request bodies produced by several frontends.
func KnownRole(name string) bool {
    switch strings.ToLower(strings.TrimSpace(name)) {
    case RoleSales, RoleCourseManager, RoleTrainer, RoleStudent, RoleAdmin:
        return true
    }
    return false
}

// User represents an application user record as stored in the `users`
// table.  Roles live in the `user_roles` join table and are loaded
// separately; the Roles slice preserves the position column's order
// because the first matching role decides the user's landing portal.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – optional given name.
//  LastName     – optional family name.
//  Roles        – ordered role names from user_roles.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    FirstName    *string   // users.first_name (nullable)
    LastName     *string   // users.last_name (nullable)
    Roles        []string  // user_roles.role_name ordered by position
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// HasRole implements the platform's capability rule: a role check passes
// when the user holds the role directly or holds admin.
func (u User) HasRole(role string) bool {
    want := strings.ToLower(strings.TrimSpace(role))
    for _, r := range u.Roles {
        r = strings.ToLower(r)
        if r == want || r == RoleAdmin {
            return true
        }
    }
    return false
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the token value is stored; the raw value is returned to
// the client exactly once.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
