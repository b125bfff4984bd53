package oracle

// TimeUpdated is emitted exactly once per accepted update
type TimeUpdated struct {
	// Timestamp is the newly accepted value
	Timestamp uint64 `json:"timestamp"`
	// UpdatedBy is the principal whose update was accepted
	UpdatedBy Address `json:"updatedBy"`
}
