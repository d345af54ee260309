package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xxivani/langcat/internal/progress"
	"github.com/xxivani/langcat/internal/srs"
	"github.com/xxivani/langcat/pkg/models"
)

const (
	callbackReveal     = "review_reveal"
	callbackStop       = "review_stop"
	rateCallbackPrefix = "rate_"
)

// rateCallback encodes a rating button as "rate_<itemID>_<quality>".
func rateCallback(itemID string, quality srs.Quality) string {
	return fmt.Sprintf("%s%s_%d", rateCallbackPrefix, itemID, int(quality))
}

// parseRateCallback decodes callback data produced by rateCallback. The
// quality sits after the last underscore so item ids may contain any
// characters but '_'-free uuids are the norm.
func parseRateCallback(data string) (itemID string, quality srs.Quality, ok bool) {
	if !strings.HasPrefix(data, rateCallbackPrefix) {
		return "", 0, false
	}
	rest := data[len(rateCallbackPrefix):]
	idx := strings.LastIndexByte(rest, '_')
	if idx <= 0 {
		return "", 0, false
	}
	q, err := strconv.Atoi(rest[idx+1:])
	if err != nil || !srs.Quality(q).IsValid() {
		return "", 0, false
	}
	return rest[:idx], srs.Quality(q), true
}

func frontButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "👀 Show answer", CallbackData: callbackReveal}},
		{{Text: "🛑 Stop", CallbackData: callbackStop}},
	}
}

func ratingButtons(itemID string) [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "😵 Again", CallbackData: rateCallback(itemID, srs.QualityWrong)},
			{Text: "😐 Hard", CallbackData: rateCallback(itemID, srs.QualityWrongFamiliar)},
			{Text: "🙂 Good", CallbackData: rateCallback(itemID, srs.QualityGood)},
			{Text: "😄 Easy", CallbackData: rateCallback(itemID, srs.QualityEasy)},
		},
		{{Text: "🛑 Stop", CallbackData: callbackStop}},
	}
}

func formatCardFront(card progress.QueueCard, index, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🃏 Card %d of %d", index+1, total)
	if card.Stage == srs.StageNew.String() {
		sb.WriteString(" · new word")
	}
	fmt.Fprintf(&sb, "\n\n*%s*", card.Word.Term)
	if card.Word.Pronunciation != "" {
		fmt.Fprintf(&sb, "\n_%s_", card.Word.Pronunciation)
	}
	sb.WriteString("\n\nDo you remember what it means?")
	return sb.String()
}

func formatCardBack(card progress.QueueCard, index, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🃏 Card %d of %d\n\n*%s*  →  *%s*", index+1, total, card.Word.Term, card.Word.Translation)
	if card.Word.Notes != "" {
		fmt.Fprintf(&sb, "\n\n%s", card.Word.Notes)
	}
	sb.WriteString("\n\nHow well did you remember?")
	return sb.String()
}

func formatSessionEnd(session *reviewSession, stopped bool) string {
	if session.Done == 0 {
		return "Session closed. Come back with /review whenever you are ready."
	}
	head := "🏁 Session complete!"
	if stopped {
		head = "🛑 Session stopped."
	}
	recalled := session.Done - session.Lapses
	return fmt.Sprintf("%s\n\nCards reviewed: %d\nRecalled: %d\nSlipped: %d\n\nSee what is left with /due.",
		head, session.Done, recalled, session.Lapses)
}

func formatDueCounts(counts []models.CollectionDueCount) string {
	var total, fresh int
	var lines []string
	for _, c := range counts {
		if c.Due == 0 && c.New == 0 {
			continue
		}
		total += c.Due
		fresh += c.New
		lines = append(lines, fmt.Sprintf("• %s — %d due, %d new", c.Title, c.Due, c.New))
	}
	if len(lines) == 0 {
		return "🎉 Nothing is due. Enjoy the break!"
	}
	return fmt.Sprintf("📋 *Waiting for you*\n\n%s\n\nTotal: %d due, %d new. Start with /review.",
		strings.Join(lines, "\n"), total, fresh)
}

func formatSummary(name string, summary *models.LearnerSummary) string {
	if summary.TotalTracked == 0 {
		return fmt.Sprintf("📊 %s, you have not started any words yet. Pick a lesson in the app or add a deck, then /review.", name)
	}
	return fmt.Sprintf(`📊 *%s's progress*

Words tracked: %d
Due right now: %d
Learning: %d · Young: %d · Mature: %d
Accuracy: %d%%
Average ease: %.2f`,
		name, summary.TotalTracked, summary.DueNow,
		summary.Learning, summary.Young, summary.Mature,
		summary.AccuracyPercent, summary.AverageEase)
}
