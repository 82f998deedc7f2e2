package gemini

import "github.com/lumen-labs/lumen/core"

// buildGenerateRequest converts a single-shot description request to the
// Gemini wire format. The image rides alongside the prompt in one user turn.
func buildGenerateRequest(req *core.GenerateRequest) *geminiRequest {
	prompt := req.Prompt
	if prompt == "" {
		prompt = core.DefaultDescribePrompt
	}

	gemReq := &geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{MimeType: req.MIMEType, Data: req.Image}},
			},
		}},
	}

	setSystemInstruction(gemReq, req.SystemPrompt)
	return gemReq
}

// buildChatRequest converts a conversational request to the Gemini wire
// format. The image is attached once, to the opening user turn; the text of
// that turn is the first user message from the history, so replayed sessions
// anchor the model on the same question that opened them. The rest of the
// history follows, then the new user message.
func buildChatRequest(req *core.ChatRequest) *geminiRequest {
	anchor := core.DefaultOverviewPrompt
	anchorIdx := -1
	for i, m := range req.History {
		if m.Role == core.RoleUser {
			anchorIdx = i
			if m.Content != "" {
				anchor = m.Content
			}
			break
		}
	}

	contents := []geminiContent{{
		Role: "user",
		Parts: []geminiPart{
			{InlineData: &geminiInlineData{MimeType: req.MIMEType, Data: req.Image}},
			{Text: anchor},
		},
	}}

	for i, m := range req.History {
		if i == anchorIdx {
			continue
		}
		contents = append(contents, geminiContent{
			Role:  mapRole(m.Role),
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	userMessage := req.UserMessage
	if userMessage == "" {
		userMessage = core.DefaultContinuePrompt
	}
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: userMessage}},
	})

	gemReq := &geminiRequest{Contents: contents}
	setSystemInstruction(gemReq, req.SystemPrompt)
	return gemReq
}

// mapRole converts a core role to the Gemini role vocabulary.
func mapRole(role core.Role) string {
	if role == core.RoleAssistant {
		return "model"
	}
	return "user"
}

func setSystemInstruction(gemReq *geminiRequest, system string) {
	if system != "" {
		gemReq.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: system}},
		}
	}
}
