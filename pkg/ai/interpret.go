package ai

// Interpret classifies a 200 reply. Only a Success appends to conv: the
// prompt as a user turn followed by the reply as a model turn.
func Interpret(resp *GenerateResponse, prompt string, conv *Conversation) Outcome {
	if resp == nil {
		return Empty{}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return SafetyBlocked{Reason: resp.PromptFeedback.BlockReason}
	}

	text := firstCandidateText(resp)
	if text == "" {
		return Empty{}
	}

	conv.Append(RoleUser, prompt)
	conv.Append(RoleModel, text)
	return Success{Text: text}
}

func firstCandidateText(resp *GenerateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return ""
	}
	return content.Parts[0].Text
}
