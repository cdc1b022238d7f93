package ai

// GenerateRequest is the JSON body of a generateContent call.
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// Content is one role-tagged entry of a request or candidate.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part carries the text of a content entry.
type Part struct {
	Text string `json:"text"`
}

// GenerateResponse is the subset of the generateContent reply the client reads.
type GenerateResponse struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

// Candidate is one generated response option.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// PromptFeedback reports whether the prompt itself was filtered.
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}
