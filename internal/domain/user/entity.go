package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID          int64     // ID is the unique identifier, assigned on creation
	Email       string    // Email is the unique email address of the user
	FirstName   string    // FirstName is required, 3-30 characters
	LastName    string    // LastName is required
	BirthDate   time.Time // BirthDate must be in the past, holder at least the minimum adult age
	Address     string    // Address is optional
	PhoneNumber string    // PhoneNumber is optional, exactly 10 digits when present

	// Audit metadata, stamped by the repository on write.
	// Never accepted from callers and never exposed to API clients.
	CreatedDate      int64  // epoch milliseconds
	LastModifiedDate int64  // epoch milliseconds
	CreatedBy        string // actor who created the record
	LastModifiedBy   string // actor who last modified the record
}
