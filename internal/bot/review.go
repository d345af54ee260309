package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xxivani/langcat/internal/progress"
	"github.com/xxivani/langcat/internal/srs"
	"github.com/xxivani/langcat/pkg/models"
)

// reviewSession is one learner's walk through today's cards in a chat. Due
// cards across every collection come first, then new cards up to the
// learner's daily allowance.
type reviewSession struct {
	LearnerID string
	Cards     []progress.QueueCard
	Index     int
	Done      int
	Lapses    int
}

func (s *reviewSession) current() (progress.QueueCard, bool) {
	if s.Index >= len(s.Cards) {
		return progress.QueueCard{}, false
	}
	return s.Cards[s.Index], true
}

func (b *Bot) session(chatID int64) (*reviewSession, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[chatID]
	return s, ok
}

func (b *Bot) setSession(chatID int64, s *reviewSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s == nil {
		delete(b.sessions, chatID)
		return
	}
	b.sessions[chatID] = s
}

// buildSession collects the learner's work across all collections. New
// cards picked for the session are initialized right away so every card in
// it can be rated.
func (b *Bot) buildSession(ctx context.Context, learner *models.Learner, now time.Time) (*reviewSession, error) {
	counts, err := b.progress.DueCounts(ctx, learner.ID, now)
	if err != nil {
		return nil, err
	}

	session := &reviewSession{LearnerID: learner.ID}
	seen := make(map[string]struct{})
	var fresh []progress.QueueCard

	for _, count := range counts {
		if count.Due == 0 && count.New == 0 {
			continue
		}
		queue, err := b.progress.Queue(ctx, learner.ID, count.Collection, now)
		if err != nil {
			return nil, err
		}
		for _, card := range queue.Due {
			if _, ok := seen[card.Word.ID]; ok {
				continue
			}
			seen[card.Word.ID] = struct{}{}
			session.Cards = append(session.Cards, card)
		}
		for _, card := range queue.New {
			if _, ok := seen[card.Word.ID]; ok {
				continue
			}
			seen[card.Word.ID] = struct{}{}
			fresh = append(fresh, card)
		}
	}

	allowance := learner.WordsPerDay
	if allowance > len(fresh) {
		allowance = len(fresh)
	}
	if allowance > 0 {
		ids := make([]string, 0, allowance)
		for _, card := range fresh[:allowance] {
			ids = append(ids, card.Word.ID)
		}
		if err := b.progress.Track(ctx, learner.ID, ids, now); err != nil {
			return nil, err
		}
		session.Cards = append(session.Cards, fresh[:allowance]...)
	}
	return session, nil
}

func (b *Bot) startReviewSession(ctx context.Context, chatID int64, learner *models.Learner) {
	session, err := b.buildSession(ctx, learner, time.Now())
	if err != nil {
		b.logger.Error("build review session",
			zap.String("learner_id", learner.ID), zap.Error(err))
		b.send(tgbotapi.NewMessage(chatID, "Could not build your review session, please try again."))
		return
	}
	if len(session.Cards) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "🎉 All caught up! Nothing is due right now."))
		return
	}
	b.setSession(chatID, session)

	card, _ := session.current()
	msg := tgbotapi.NewMessage(chatID, formatCardFront(card, session.Index, len(session.Cards)))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = createKeyboard(frontButtons())
	b.send(msg)
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("answer callback", zap.Error(err))
	}
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	if itemID, quality, ok := parseRateCallback(callback.Data); ok {
		b.handleRateCallback(ctx, chatID, messageID, itemID, quality)
		return
	}
	switch callback.Data {
	case callbackReveal:
		b.handleRevealCallback(chatID, messageID)
	case callbackStop:
		b.finishSession(chatID, messageID, true)
	}
}

func (b *Bot) handleRevealCallback(chatID int64, messageID int) {
	session, ok := b.session(chatID)
	if !ok {
		b.edit(chatID, messageID, "This session has expired. Start a new one with /review.", nil)
		return
	}
	card, ok := session.current()
	if !ok {
		b.finishSession(chatID, messageID, false)
		return
	}
	keyboard := createKeyboard(ratingButtons(card.Word.ID))
	b.edit(chatID, messageID, formatCardBack(card, session.Index, len(session.Cards)), &keyboard)
}

func (b *Bot) handleRateCallback(ctx context.Context, chatID int64, messageID int, itemID string, quality srs.Quality) {
	session, ok := b.session(chatID)
	if !ok {
		b.edit(chatID, messageID, "This session has expired. Start a new one with /review.", nil)
		return
	}
	card, ok := session.current()
	if !ok || card.Word.ID != itemID {
		// Stale tap on an already-answered card.
		return
	}

	state, err := b.progress.Rate(ctx, session.LearnerID, itemID, quality, time.Now())
	if err != nil {
		b.logger.Error("rate card",
			zap.String("learner_id", session.LearnerID),
			zap.String("item_id", itemID),
			zap.Error(err))
		b.edit(chatID, messageID, "Could not save that rating, please try again.", nil)
		return
	}

	session.Done++
	if !quality.Passing() {
		session.Lapses++
	}
	session.Index++
	b.logger.Debug("card rated",
		zap.String("item_id", itemID),
		zap.Int("quality", int(quality)),
		zap.Int("next_interval_days", state.IntervalDays))

	next, ok := session.current()
	if !ok {
		b.finishSession(chatID, messageID, false)
		return
	}
	keyboard := createKeyboard(frontButtons())
	b.edit(chatID, messageID, formatCardFront(next, session.Index, len(session.Cards)), &keyboard)
}

func (b *Bot) finishSession(chatID int64, messageID int, stopped bool) {
	session, ok := b.session(chatID)
	if !ok {
		return
	}
	b.setSession(chatID, nil)
	b.edit(chatID, messageID, formatSessionEnd(session, stopped), nil)
}

func (b *Bot) edit(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = keyboard
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("telegram edit failed", zap.Error(err))
	}
}
