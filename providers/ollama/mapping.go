package ollama

import "github.com/lumen-labs/lumen/core"

// buildGenerateMessages converts a single-shot description request to the
// Ollama message list. The image rides in the images field of the user turn.
func buildGenerateMessages(req *core.GenerateRequest) []ollamaMessage {
	var messages []ollamaMessage

	if req.SystemPrompt != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: req.SystemPrompt})
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = core.DefaultDescribePrompt
	}
	messages = append(messages, ollamaMessage{
		Role:    "user",
		Content: prompt,
		Images:  []string{req.Image},
	})

	return messages
}

// buildChatMessages converts a conversational request to the Ollama message
// list. The image is attached once, to the first user turn, so replayed
// sessions keep a single copy of the payload.
func buildChatMessages(req *core.ChatRequest) []ollamaMessage {
	var messages []ollamaMessage

	if req.SystemPrompt != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: req.SystemPrompt})
	}

	for _, m := range req.History {
		messages = append(messages, ollamaMessage{Role: string(m.Role), Content: m.Content})
	}

	userMessage := req.UserMessage
	if userMessage == "" {
		userMessage = core.DefaultContinuePrompt
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: userMessage})

	attachImage(messages, req.Image)
	return messages
}

// attachImage places the image on the first user message. The final message
// is always user, so the image always lands somewhere.
func attachImage(messages []ollamaMessage, image string) {
	for i := range messages {
		if messages[i].Role == "user" {
			messages[i].Images = []string{image}
			return
		}
	}
}
