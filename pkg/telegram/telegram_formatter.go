package telegram

import (
	"fmt"
	"strings"
	"time"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/utils"
)

const maxMessageLength = 4090

// FormatRunSummaryForTelegram formats a finished digest run for the operator chat.
func FormatRunSummaryForTelegram(summary *dto.RunSummary) string {
	var sb strings.Builder

	statusIcon := "✅"
	switch summary.Status {
	case dto.RunStatusPartial:
		statusIcon = "⚠️"
	case dto.RunStatusFailed:
		statusIcon = "❌"
	}

	sb.WriteString(fmt.Sprintf("%s *IPO Hype Digest* `%s`\n", statusIcon, summary.RunID))
	sb.WriteString(fmt.Sprintf("🕒 %s · trigger: %s", utils.PrettyDate(summary.StartedAt), summary.Trigger))
	if summary.DryRun {
		sb.WriteString(" · dry run")
	}
	sb.WriteString("\n\n")

	sb.WriteString("📥 *Candidates*\n")
	sb.WriteString(fmt.Sprintf("• Received: %d, bounded: %d\n", summary.CandidatesReceived, summary.CandidatesBounded))
	sb.WriteString(fmt.Sprintf("• Processed: %d, skipped: %d, excluded: %d\n", summary.CandidatesProcessed, summary.CandidatesSkipped, summary.CandidatesExcluded))
	sb.WriteString(fmt.Sprintf("• Ranked: %d\n\n", summary.CandidatesRanked))

	if len(summary.Top) > 0 {
		sb.WriteString("🏆 *Top IPOs*\n")
		for _, r := range summary.Top {
			sb.WriteString(fmt.Sprintf("%d. %s (%s): %.1f, %s\n", r.Rank, r.Candidate.Name, r.Candidate.Ticker, r.Signals.HypeScore, r.Signals.Recommendation))
		}
		sb.WriteString("\n")
	}

	if !summary.DryRun {
		sb.WriteString("📧 *Delivery*\n")
		sb.WriteString(fmt.Sprintf("• Recipients: %d attempted, %d sent, %d failed\n", summary.RecipientsAttempted, summary.RecipientsSucceeded, summary.RecipientsFailed))
		sb.WriteString(fmt.Sprintf("• Batches: %d ok, %d failed\n", summary.BatchesSucceeded, summary.BatchesFailed))
	}

	if summary.Error != "" {
		sb.WriteString(fmt.Sprintf("\n⚠️ %s\n", summary.Error))
	}

	return sb.String()
}

func FormatErrorAlertMessage(time time.Time, errType string, errMsg string, data string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s

📄 Data: %s
`, utils.PrettyDate(time), errType, errMsg, data)
}

// SplitMessage cuts text into parts no longer than limit bytes, preferring line boundaries.
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			cut := limit
			for cut > 0 && !utf8RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
