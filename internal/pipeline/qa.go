package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"mediascribe/internal/domain"
)

const qaSystemPrompt = "You are a helpful assistant. Answer the user's question based strictly on the provided context text. Be concise, clear, and direct."

const qaUserPrompt = `Context:
%s

Question: %s`

// Ask answers a typed question grounded in the session transcript and
// appends the exchange to the session history.
func (p *Pipeline) Ask(ctx context.Context, sessionID, question string) (domain.QAExchange, error) {
	sess, err := p.ready(sessionID)
	if err != nil {
		return domain.QAExchange{}, err
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.QAExchange{}, fmt.Errorf("%w: empty question", domain.ErrQA)
	}

	answer, err := p.completer.Complete(ctx, qaSystemPrompt, fmt.Sprintf(qaUserPrompt, sess.Transcript, question))
	if err != nil {
		return domain.QAExchange{}, fmt.Errorf("%w: %v", domain.ErrQA, err)
	}

	ex := domain.QAExchange{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now().Unix(),
	}
	if err := p.store.AppendExchange(sessionID, ex); err != nil {
		return domain.QAExchange{}, err
	}

	return ex, nil
}

// AskVoice transcribes a recorded question through the same speech-to-text
// API used by the main pipeline, then answers it. A transcription failure
// surfaces as a Q&A error rather than silently producing no answer.
func (p *Pipeline) AskVoice(ctx context.Context, sessionID string, audio io.Reader, filename string) (domain.QAExchange, error) {
	if _, err := p.ready(sessionID); err != nil {
		return domain.QAExchange{}, err
	}

	question, err := p.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return domain.QAExchange{}, fmt.Errorf("%w: transcribe voice question: %v", domain.ErrQA, err)
	}

	return p.Ask(ctx, sessionID, question)
}
