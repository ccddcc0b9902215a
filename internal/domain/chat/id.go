package chat

import "fmt"

// ConversationID derives the canonical id for a pair of users: the two
// ids sorted ascending and joined with "_". Both participants compute
// the same id, which is what makes conversation creation idempotent.
func ConversationID(a, b uint) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// PartnerOf returns the other participant of a two-party conversation.
func PartnerOf(userID, participantA, participantB uint) uint {
	if userID == participantA {
		return participantB
	}
	return participantA
}
