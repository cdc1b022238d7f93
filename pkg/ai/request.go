package ai

// BuildRequest maps history to request contents in order and appends text as
// a trailing user entry. It does not modify history.
func BuildRequest(history []Turn, text string) GenerateRequest {
	contents := make([]Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, Content{
			Role:  string(turn.Role),
			Parts: []Part{{Text: turn.Text}},
		})
	}
	contents = append(contents, Content{
		Role:  string(RoleUser),
		Parts: []Part{{Text: text}},
	})
	return GenerateRequest{Contents: contents}
}
