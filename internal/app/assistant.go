/**
 * @description
 * The AI rate assistant: forwards the conversation history plus a fixed
 * system prompt to the hosted completion endpoint and relays the text
 * response. There is no local reasoning; failures degrade to canned
 * messages rather than errors so the chat surface always answers.
 */

package app

import (
	"context"
	"log"
	"strings"

	"github.com/diaremit/remit-service/internal/domain"
	"github.com/diaremit/remit-service/pkg/aiclient"
)

const assistantSystemPrompt = `You are a helpful AI assistant for DiaRemit, a money transfer app that helps people send money to Africa. You specialize in:

- Money transfers to Ghana, Kenya, Senegal, and Uganda
- Exchange rates and fees
- Payment methods (bank transfer, cards, Apple Pay, PayPal)
- Transfer times and delivery options
- Account setup and verification
- Troubleshooting transfer issues
- App features and navigation

Keep responses helpful, concise, and friendly. If you don't know something specific about DiaRemit, suggest contacting customer support. Remember the conversation context and refer to previous messages when relevant.`

const (
	assistantEmptyReply   = "I'm sorry, I couldn't process your request. Please try again or contact our support team."
	assistantOfflineReply = "I'm having trouble connecting right now. Please try again later or contact our support team directly."
)

// Ask forwards the conversation to the completion endpoint and returns the
// assistant's reply. Network or parse failures yield a canned apologetic
// message; no retry is attempted.
func (s *Service) Ask(ctx context.Context, history []domain.ChatMessage) string {
	messages := make([]aiclient.Message, 0, len(history)+1)
	messages = append(messages, aiclient.Message{Role: "system", Content: assistantSystemPrompt})
	for _, turn := range history {
		messages = append(messages, aiclient.Message{Role: turn.Role, Content: turn.Content})
	}

	completion, err := s.completions.Complete(ctx, messages)
	if err != nil {
		log.Printf("level=warn component=assistant msg=\"completion request failed\" err=%v", err)
		return assistantOfflineReply
	}
	if strings.TrimSpace(completion) == "" {
		return assistantEmptyReply
	}
	return completion
}
