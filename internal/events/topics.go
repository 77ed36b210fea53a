package events

// Topics emitted by a till session.
const (
	TopicProductAdded      = "catalog.product_added"
	TopicOfferRegistered   = "offer.registered"
	TopicOfferRemoved      = "offer.removed"
	TopicCheckoutCompleted = "checkout.completed"
	TopicCheckoutFailed    = "checkout.failed"
)

// DefaultTopics returns every topic a session emits.
func DefaultTopics() []string {
	return []string{
		TopicProductAdded,
		TopicOfferRegistered,
		TopicOfferRemoved,
		TopicCheckoutCompleted,
		TopicCheckoutFailed,
	}
}
