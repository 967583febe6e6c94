package quiz

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarquiz/internal/ui/components"
	"github.com/abhisek/grammarquiz/internal/ui/theme"
)

const maxBodyWidth = 90

func (s *QuizScreen) View(width, height int) string {
	w := min(width-4, maxBodyWidth)

	var b strings.Builder
	b.WriteString(s.renderControls())
	b.WriteString("\n")

	if s.banner != "" {
		b.WriteString(theme.ErrorBanner.Width(w).Render(s.banner))
		b.WriteString("\n")
	} else if s.notice != "" {
		b.WriteString(theme.Notice.Width(w).Render(s.notice))
		b.WriteString("\n")
	}

	b.WriteString(theme.Muted.Render(strings.Repeat("─", w)))
	b.WriteString("\n\n")
	b.WriteString(s.renderBody(w))

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func (s *QuizScreen) renderControls() string {
	var b strings.Builder
	b.WriteString(s.difficulty.View())
	b.WriteString("\n")
	b.WriteString(s.hint.View())
	b.WriteString("\n\n")

	btn := s.generate.View()
	if s.orch.Busy() {
		btn = lipgloss.JoinHorizontal(lipgloss.Center, btn, " ", s.spinner.View())
	}
	b.WriteString(btn)
	b.WriteString("\n")
	return b.String()
}

func (s *QuizScreen) renderBody(width int) string {
	if !s.loaded {
		return theme.Hint.Render(s.tr.T("Loading"))
	}
	if s.session.Total() == 0 {
		return theme.Hint.Render(s.tr.T("NoQuestions"))
	}
	if s.session.Finished() {
		return s.renderFinal()
	}
	return s.renderQuestion(width)
}

func (s *QuizScreen) renderQuestion(width int) string {
	q, idx, _ := s.session.Current()

	var b strings.Builder

	header := theme.Label.Render(s.tr.Td("QuestionHeader", map[string]any{
		"Index": idx + 1,
		"Total": s.session.Total(),
	}))
	bar := components.NewProgressBar(idx, s.session.Total(), min(30, width/3)).View()
	b.WriteString(header + "  " + bar)
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Bold(true).Width(width).Render(q.Question))
	b.WriteString("\n\n")
	b.WriteString(s.choices.View())

	fb, answered := s.session.Answered()
	if !answered {
		return b.String()
	}

	b.WriteString("\n")
	if fb.Correct {
		b.WriteString(theme.Correct.Render(s.tr.T("Correct")))
	} else {
		b.WriteString(theme.Incorrect.Render(s.tr.Td("Incorrect", map[string]any{
			"Answer": fb.Answer,
			"Text":   fb.AnswerText,
		})))
	}
	b.WriteString("\n\n")

	if fb.Explanation != "" {
		panel := theme.Label.Render(s.tr.T("Explanation")) + "\n" + fb.Explanation
		b.WriteString(theme.ExplanationPanel.Width(width).Render(panel))
		b.WriteString("\n\n")
	}

	next := s.tr.T("NextQuestion")
	if idx == s.session.Total()-1 {
		next = s.tr.T("ShowScore")
	}
	b.WriteString(theme.Hint.Render("Enter: " + next))
	return b.String()
}

func (s *QuizScreen) renderFinal() string {
	score := theme.Title.Render(s.tr.Td("FinalScore", map[string]any{
		"Score": s.session.Score(),
		"Total": s.session.Total(),
	}))
	return score + "\n\n" + theme.Hint.Render(s.tr.T("PlayAgain"))
}
