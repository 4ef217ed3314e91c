package ledger

// Docstatus represents the submission state of an accounting document.
// Only submitted documents participate in reconciliation.
type Docstatus int

const (
	DocstatusDraft     Docstatus = 0
	DocstatusSubmitted Docstatus = 1
	DocstatusCancelled Docstatus = 2
)

// IsValid checks if the docstatus is a known state
func (d Docstatus) IsValid() bool {
	switch d {
	case DocstatusDraft, DocstatusSubmitted, DocstatusCancelled:
		return true
	}
	return false
}

// IsSubmitted returns true if the document has been submitted
func (d Docstatus) IsSubmitted() bool {
	return d == DocstatusSubmitted
}
