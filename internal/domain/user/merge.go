package user

// Merge applies the supplied fields of incoming onto a copy of existing and
// returns the result. A field counts as supplied when it carries a non-zero
// value; an empty string is treated as "no change" and never overwrites
// existing data. ID and audit metadata are never altered by the merge.
func Merge(existing User, incoming User) User {
	merged := existing

	if incoming.Email != "" {
		merged.Email = incoming.Email
	}
	if incoming.FirstName != "" {
		merged.FirstName = incoming.FirstName
	}
	if incoming.LastName != "" {
		merged.LastName = incoming.LastName
	}
	if !incoming.BirthDate.IsZero() {
		merged.BirthDate = incoming.BirthDate
	}
	if incoming.Address != "" {
		merged.Address = incoming.Address
	}
	if incoming.PhoneNumber != "" {
		merged.PhoneNumber = incoming.PhoneNumber
	}

	return merged
}
