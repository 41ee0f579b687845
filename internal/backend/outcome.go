package backend

// OutcomeKind classifies a completed recognition call.
type OutcomeKind string

const (
	Recognized     OutcomeKind = "recognized"
	AlreadyPresent OutcomeKind = "already_present"
	Unrecognized   OutcomeKind = "unrecognized"
	TransportError OutcomeKind = "transport_error"
)

// Backend status discriminants.
const (
	statusSuccess        = "success"
	statusAlreadyPresent = "already_present"
)

func (k OutcomeKind) String() string {
	return string(k)
}

// Outcome is the result of one recognition call. Exactly one is produced per Submit.
type Outcome struct {
	Kind    OutcomeKind
	Name    string // as returned by the backend
	Display string // Name case-normalized for display, never used for comparison
	Message string // backend message, if any
	Err     error  // set only for TransportError
}

// processImageRequest is the body of POST /process_image.
type processImageRequest struct {
	Image string `json:"image"`
}

// processImageResponse is the backend verdict for a submitted frame.
type processImageResponse struct {
	Status  string `json:"status"`
	Name    string `json:"nama,omitempty"`
	Message string `json:"message,omitempty"`
}

// classify maps a parsed backend response onto an outcome kind.
// Any status other than success or already_present is a valid "no match".
func classify(status string) OutcomeKind {
	switch status {
	case statusSuccess:
		return Recognized
	case statusAlreadyPresent:
		return AlreadyPresent
	default:
		return Unrecognized
	}
}
