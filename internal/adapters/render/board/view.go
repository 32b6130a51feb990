// Package board renders the punch board and end-of-session receipts for the
// terminal.
package board

import (
	"fmt"
	"time"

	"github.com/bnema/punchclock/internal/application"
	"github.com/bnema/punchclock/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Sessions at or beyond this length get the brightest elapsed colour.
const longSession = 8 * time.Hour

func Render(board application.Board) (string, error) {
	return run(func(s styles) string {
		return renderBoard(board, s)
	})
}

func RenderReceipt(result application.EndResult) (string, error) {
	return run(func(s styles) string {
		return renderReceipt(result, s)
	})
}

func renderBoard(board application.Board, s styles) string {
	lines := []string{
		s.title.Render("Punch Board"),
		s.header.Render(fmt.Sprintf("roles: %d | clocked in: %d", len(board.Rates), len(board.Sessions))),
		s.section.Render(renderRates(board.Rates, s)),
		s.section.Render(renderSessions(board.Sessions, board.Now, s)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRates(rates []domain.RoleRate, s styles) string {
	lines := []string{s.label.Render("Rates")}
	if len(rates) == 0 {
		lines = append(lines, s.empty.Render("No role rates configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	width := 0
	for _, rate := range rates {
		width = max(width, len(rate.Role))
	}

	for _, rate := range rates {
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.role.Render(fmt.Sprintf("%-*s", width, rate.Role)),
			"  ",
			s.detail.Render(application.FormatRate(rate.Rate)+"/h"),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSessions(sessions []domain.MemberSession, now time.Time, s styles) string {
	lines := []string{s.label.Render("Clocked in")}
	if len(sessions) == 0 {
		lines = append(lines, s.empty.Render("Nobody is clocked in."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, session := range sessions {
		lines = append(lines, sessionLine(session, now, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func sessionLine(session domain.MemberSession, now time.Time, s styles) string {
	member := s.member.Render(string(session.Member))
	if !session.Valid() {
		return lipgloss.JoinHorizontal(
			lipgloss.Top,
			member,
			" ",
			s.warning.Render(fmt.Sprintf("[unreadable start %q]", session.Unparsed)),
		)
	}

	since := s.detail.Render("since " + formatStartedAt(session.StartedAt, now))
	if now.IsZero() {
		return lipgloss.JoinHorizontal(lipgloss.Top, member, " ", since)
	}
	if session.StartedAt.After(now) {
		return lipgloss.JoinHorizontal(lipgloss.Top, member, " ", since, " ", s.warning.Render("[starts in the future]"))
	}

	elapsed := now.Sub(session.StartedAt)
	elapsedStyle := lipgloss.NewStyle().Foreground(interpolateColor(elapsed.Seconds(), 0, longSession.Seconds()))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		member,
		" ",
		since,
		" ",
		elapsedStyle.Render(fmt.Sprintf("(%s)", formatElapsed(elapsed))),
	)
}

func renderReceipt(result application.EndResult, s styles) string {
	settlement := result.Settlement
	lines := []string{
		s.title.Render("Session closed"),
		field("member", s.member.Render(string(settlement.Member)), s),
	}

	if !settlement.StartedAt.IsZero() {
		lines = append(lines, field("from", s.detail.Render(settlement.StartedAt.Format(time.RFC3339)), s))
	}
	lines = append(lines,
		field("to", s.detail.Render(settlement.EndedAt.Format(time.RFC3339)), s),
		field("duration", s.detail.Render(formatElapsed(settlement.Elapsed)), s),
		field("rate", s.detail.Render(rateLabel(result.Rate)), s),
		field("pay", s.amount.Render(settlement.Pay.StringFixed(domain.PayPlaces)), s),
	)

	if !result.Rate.Matched {
		lines = append(lines, s.warning.Render("No configured role matched; paid at 0.00/h."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func field(name string, value string, s styles) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(fmt.Sprintf("%-9s", name+":")), " ", value)
}

func rateLabel(resolution domain.RateResolution) string {
	label := application.FormatRate(resolution.Rate) + "/h"
	if resolution.Matched {
		label += fmt.Sprintf(" (%s)", resolution.Role)
	}

	return label
}

func formatStartedAt(startedAt, now time.Time) string {
	if now.IsZero() {
		return startedAt.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := startedAt.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return startedAt.Format("15:04")
	}

	return startedAt.Format("15:04 on 02 Jan")
}

// formatElapsed prints whole hours and minutes, falling back to seconds for
// sessions shorter than a minute.
func formatElapsed(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed < time.Minute {
		return fmt.Sprintf("%ds", int(elapsed.Seconds()))
	}

	hours := int(elapsed / time.Hour)
	minutes := int((elapsed % time.Hour) / time.Minute)
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}

	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp, 240 (faded) up to 255 (bright white).
	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}
