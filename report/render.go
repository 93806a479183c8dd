package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/remigerme/the-crew-solver/deck"
	"github.com/remigerme/the-crew-solver/game"
)

var suitColours = map[deck.Suit]lipgloss.Color{
	deck.Red:    lipgloss.Color("#FF6B6B"),
	deck.Green:  lipgloss.Color("#5FD787"),
	deck.Blue:   lipgloss.Color("#5B8DEF"),
	deck.Yellow: lipgloss.Color("#F2C94C"),
	deck.Trump:  lipgloss.Color("#AAAAAA"),
}

var (
	headStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	boxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	statusStyles = map[game.Status]lipgloss.Style{
		game.Done:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787")),
		game.Failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		game.Unknown: lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
)

func renderCard(c deck.Card) string {
	style := lipgloss.NewStyle().Foreground(suitColours[c.Suit])
	if c.IsTrump() {
		style = style.Bold(true)
	}
	return style.Render(c.String())
}

// RenderSolution draws the completed tricks of s, one line per trick.
func RenderSolution(s *game.State) string {
	history := s.History()
	lines := make([]string, 0, len(history)+1)
	lines = append(lines, headStyle.Render(fmt.Sprintf("%d PLAYERS · %d TRICKS", s.NumPlayers(), len(history))))
	for _, t := range history {
		cards := make([]string, len(t.Cards))
		for i, c := range t.Cards {
			cards[i] = renderCard(c)
		}
		line := fmt.Sprintf("#%-2d P%d leads  %s", t.Index, t.Leader, strings.Join(cards, " "))
		if w, ok := s.WinnerOf(t.Index); ok {
			line += fmt.Sprintf("  -> P%d", w)
		}
		lines = append(lines, line)
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// RenderTasks lists every player's tasks with their verdict in s.
func RenderTasks(s *game.State) string {
	var lines []string
	for ip, p := range s.Players() {
		tasks := p.Tasks()
		if len(tasks) == 0 {
			continue
		}
		lines = append(lines, headStyle.Render(fmt.Sprintf("P%d", ip)))
		for _, t := range tasks {
			status := t.Eval(s, ip)
			lines = append(lines, fmt.Sprintf("  %s %s", statusStyles[status].Render(fmt.Sprintf("[%s]", status)), t))
		}
	}
	if len(lines) == 0 {
		return "no tasks"
	}
	return strings.Join(lines, "\n")
}
