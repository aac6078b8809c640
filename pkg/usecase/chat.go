package usecase

import (
	"context"
	"strings"

	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/juris-lab/themis/pkg/service/datajud"
	"github.com/juris-lab/themis/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const lowCoverageNote = "\n\nObservação: com base nas informações e documentos disponíveis até o momento, " +
	"esta orientação é preliminar. Para maior precisão, envie o documento, decisão ou contrato relacionado, " +
	"ou detalhe datas, valores e comarca."

// IncomingMessage is one user turn handed to the orchestrator
type IncomingMessage struct {
	SessionID types.SessionID
	Channel   string
	Text      string
}

// HandleMessage runs the full pipeline for one user message: persist the
// inbound turn, classify and retrieve, assemble the reply, persist the
// outbound turn. Persistence failures are logged and swallowed; the
// reply always reaches the caller.
func (uc *UseCases) HandleMessage(ctx context.Context, in IncomingMessage) (*model.Message, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, goerr.New("message text is required")
	}

	logger := logging.From(ctx)
	now := uc.now()

	session := uc.ensureSession(ctx, in)

	userMsg := model.NewUserMessage(session.ID, in.Text, now)
	if err := uc.repo.Message().Put(ctx, userMsg); err != nil {
		logger.Warn("failed to persist user message", "sessionID", session.ID, "error", err.Error())
	}

	reply := uc.respond(ctx, in.Text)
	reply.SessionID = session.ID

	if err := uc.repo.Message().Put(ctx, reply); err != nil {
		logger.Warn("failed to persist reply", "sessionID", session.ID, "error", err.Error())
	}

	session.UpdatedAt = uc.now()
	if err := uc.repo.Session().Put(ctx, session); err != nil {
		logger.Warn("failed to update session", "sessionID", session.ID, "error", err.Error())
	}

	return reply, nil
}

// respond builds the assistant turn for one user text. Short-circuit
// intents skip retrieval entirely.
func (uc *UseCases) respond(ctx context.Context, userText string) *model.Message {
	now := uc.now()

	if isGreeting(userText) {
		msg := model.NewAssistantMessage("", greetingReply, now)
		msg.Topic = types.TopicGeral
		msg.Intent = types.IntentGreeting
		return msg
	}

	if uc.guard != nil {
		if verdict := uc.guard.Check(userText); !verdict.Allowed {
			logging.From(ctx).Info("message rejected by guard", "reason", verdict.Reason)
			msg := model.NewAssistantMessage("", refusalReply, now)
			msg.Topic = types.TopicGeral
			msg.Intent = types.IntentRefusal
			return msg
		}
	}

	frame := uc.ExtractFrame(ctx, userText)
	if uc.tagger != nil {
		frame.MergeTags(uc.tagger.Tags(userText))
	}

	topic := uc.detectTopic(userText, frame.Tags)

	queries := uc.Expand(userText, frame, frame.Tags)
	results, coverage := uc.Fuse(ctx, queries, userText, topic)

	if len(results) < uc.policy.MinRAGChunks {
		results, coverage = uc.retryWithRewrites(ctx, queries, userText, topic, results, coverage)
	}

	pack := uc.BuildPack(results)
	text, intent := uc.Answer(ctx, AnswerInput{
		UserText: userText,
		Pack:     pack,
		Tags:     frame.Tags,
		Topic:    topic,
	})

	// Greeting and refusal short-circuit above, so every reply reaching
	// this point was built from the evidence at hand, thin or not.
	if coverage < uc.policy.CoverageThreshold && uc.policy.AppendLowCoverageNote {
		text += lowCoverageNote
	}

	msg := model.NewAssistantMessage("", text, now)
	msg.Topic = topic
	msg.Intent = intent
	msg.Entities = datajud.ExtractCNJNumbers(userText)
	msg.Coverage = coverage
	msg.Sources = PackSources(results)
	return msg
}

// retryWithRewrites asks the generator for alternative queries and keeps
// whichever fusion round produced more evidence
func (uc *UseCases) retryWithRewrites(ctx context.Context, queries *model.QuerySet, userText string, topic types.Topic, results []model.FusedResult, coverage float64) ([]model.FusedResult, float64) {
	rewrites := uc.rewriteQueries(ctx, userText)
	if len(rewrites) == 0 {
		return results, coverage
	}

	merged := model.NewQuerySet(userText)
	for _, q := range queries.Head(2) {
		merged.Add(q)
	}
	for _, q := range rewrites {
		merged.Add(q)
	}

	retried, retriedCoverage := uc.Fuse(ctx, merged, userText, topic)
	if len(retried) > len(results) {
		return retried, retriedCoverage
	}
	return results, coverage
}

// detectTopic resolves the canonical topic from ontology tags first,
// then from a keyword scan of the raw text
func (uc *UseCases) detectTopic(userText string, tags []string) types.Topic {
	for _, tag := range tags {
		if t := topicFromTag(tag); t != types.TopicGeral {
			return t
		}
	}
	return topicFromKeywords(userText)
}

// ensureSession loads the addressed session or creates one. Lookup
// failures degrade to a fresh session; the conversation continues.
func (uc *UseCases) ensureSession(ctx context.Context, in IncomingMessage) *model.Session {
	logger := logging.From(ctx)

	if in.SessionID != "" {
		session, err := uc.repo.Session().Get(ctx, in.SessionID)
		if err != nil {
			logger.Warn("failed to load session", "sessionID", in.SessionID, "error", err.Error())
		}
		if session != nil {
			return session
		}
	}

	session := model.NewSession(in.Channel, uc.now())
	if in.SessionID != "" {
		session.ID = in.SessionID
	}
	if err := uc.repo.Session().Put(ctx, session); err != nil {
		logger.Warn("failed to create session", "sessionID", session.ID, "error", err.Error())
	}
	return session
}
