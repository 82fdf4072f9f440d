package models

// Lifecycle maps each target status to the statuses it may be entered from.
// A status with no entry cannot be entered through a moderation action.
type Lifecycle[S ~string] map[S][]S

// Predecessors returns the statuses from which target may be reached
func (l Lifecycle[S]) Predecessors(target S) ([]S, bool) {
	from, ok := l[target]
	return from, ok && len(from) > 0
}

// Allows reports whether moving from one status to another is legal
func (l Lifecycle[S]) Allows(from, to S) bool {
	preds, ok := l.Predecessors(to)
	if !ok {
		return false
	}
	return oneOf(from, preds...)
}

var (
	// TransactionLifecycle: pending -> completed | failed | cancelled
	TransactionLifecycle = Lifecycle[TransactionStatus]{
		TransactionCompleted: {TransactionPending},
		TransactionFailed:    {TransactionPending},
		TransactionCancelled: {TransactionPending},
	}

	// PayoutLifecycle: pending -> processing -> completed | failed, and pending -> failed
	PayoutLifecycle = Lifecycle[PayoutStatus]{
		PayoutProcessing: {PayoutPending},
		PayoutCompleted:  {PayoutProcessing},
		PayoutFailed:     {PayoutPending, PayoutProcessing},
	}

	// RefundLifecycle: pending -> approved -> processed, or pending -> rejected
	RefundLifecycle = Lifecycle[RefundStatus]{
		RefundApproved:  {RefundPending},
		RefundProcessed: {RefundApproved},
		RefundRejected:  {RefundPending},
	}

	// InquiryLifecycle: new -> contacted -> converted, and any open inquiry -> closed
	InquiryLifecycle = Lifecycle[InquiryStatus]{
		InquiryContacted: {InquiryNew},
		InquiryConverted: {InquiryContacted},
		InquiryClosed:    {InquiryNew, InquiryContacted, InquiryConverted},
	}

	// AdmissionLifecycle: pending -> accepted | rejected | waitlisted, waitlisted -> accepted | rejected
	AdmissionLifecycle = Lifecycle[AdmissionStatus]{
		AdmissionAccepted:   {AdmissionPending, AdmissionWaitlisted},
		AdmissionRejected:   {AdmissionPending, AdmissionWaitlisted},
		AdmissionWaitlisted: {AdmissionPending},
	}
)
