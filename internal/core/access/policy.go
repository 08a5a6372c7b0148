package access

import "github.com/librarydesk/library-admin/internal/core/domain"

// Policy holds the configurable part of the lending rules.
//
// With PermissiveLending set, any authenticated caller may take a book for any
// person and free any book. Without it, a take must be made by the borrower or
// an admin and a free by the current owner or an admin.
type Policy struct {
	PermissiveLending bool
}

// DefaultPolicy keeps lending open to every authenticated caller.
func DefaultPolicy() Policy {
	return Policy{PermissiveLending: true}
}

// TakeRule returns the rule for lending a book to borrowerID.
func (p Policy) TakeRule(borrowerID int64) Rule {
	if p.PermissiveLending {
		return AnyCaller()
	}
	return RequireSelfOrRole(borrowerID, domain.RoleAdmin)
}

// FreeRule returns the rule for returning book.
func (p Policy) FreeRule(book *domain.Book) Rule {
	if p.PermissiveLending || book == nil || book.OwnerID == nil {
		return AnyCaller()
	}
	return RequireSelfOrRole(*book.OwnerID, domain.RoleAdmin)
}
